package memory

import (
	"context"
	"sync"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"
)

var _ ports.WebhookEventRepository = (*WebhookEventRepository)(nil)

// WebhookEventRepository keeps logged webhooks in memory.
type WebhookEventRepository struct {
	mu     sync.RWMutex
	events []domain.WebhookEvent
}

// NewWebhookEventRepository creates an empty webhook log
func NewWebhookEventRepository() *WebhookEventRepository {
	return &WebhookEventRepository{}
}

// LogWebhook appends a copy of the event
func (r *WebhookEventRepository) LogWebhook(_ context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a snapshot of the logged webhooks
func (r *WebhookEventRepository) Events() []domain.WebhookEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.WebhookEvent, len(r.events))
	copy(out, r.events)
	return out
}
