package ports

import (
	"context"

	"commerce-sync-bridge/internal/domain"
)

// FileAliasRepository persists the hosted script alias table.
// Load returns nil, nil when no table was ever written.
type FileAliasRepository interface {
	Load(ctx context.Context) (domain.FileAliases, error)
	Save(ctx context.Context, aliases domain.FileAliases) error
	Delete(ctx context.Context) error
}
