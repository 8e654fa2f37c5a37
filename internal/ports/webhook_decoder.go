package ports

import "commerce-sync-bridge/internal/domain"

// WebhookDecoder turns raw store webhook payloads into domain values
type WebhookDecoder interface {
	DecodeProduct(payload []byte) (*domain.SourceProduct, error)
	DecodeOrderLines(payload []byte) ([]domain.OrderLine, error)
}
