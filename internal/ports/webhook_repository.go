package ports

import (
	"context"

	"commerce-sync-bridge/internal/domain"
)

// WebhookEventRepository stores received webhooks for auditing
type WebhookEventRepository interface {
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error
}
