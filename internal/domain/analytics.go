package domain

import "time"

// FileAliases maps a hosted script key (e.g. "analytics") to the file name it is served under
type FileAliases map[string]string

// FileAliasRecord is the persisted form of FileAliases
type FileAliasRecord struct {
	Aliases   FileAliases `json:"aliases"`
	UpdatedAt time.Time   `json:"updated_at"`
}
