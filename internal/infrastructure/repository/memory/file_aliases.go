package memory

import (
	"context"
	"sync"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"
)

var _ ports.FileAliasRepository = (*FileAliasRepository)(nil)

// FileAliasRepository is an in-memory alias table adapter.
type FileAliasRepository struct {
	mu      sync.RWMutex
	aliases domain.FileAliases
}

// NewFileAliasRepository creates an empty alias table
func NewFileAliasRepository() *FileAliasRepository {
	return &FileAliasRepository{}
}

// Load returns a copy of the alias table, nil when none was saved
func (r *FileAliasRepository) Load(_ context.Context) (domain.FileAliases, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.aliases == nil {
		return nil, nil
	}
	return copyAliases(r.aliases), nil
}

// Save replaces the alias table with a copy of aliases
func (r *FileAliasRepository) Save(_ context.Context, aliases domain.FileAliases) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases = copyAliases(aliases)
	return nil
}

// Delete removes the alias table
func (r *FileAliasRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases = nil
	return nil
}

func copyAliases(aliases domain.FileAliases) domain.FileAliases {
	out := make(domain.FileAliases, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
