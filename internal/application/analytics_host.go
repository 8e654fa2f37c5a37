package application

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/rs/zerolog"
)

const (
	// LocalFileRoute is where hosted scripts are served from
	LocalFileRoute = "/analytics/local/"
	// DefaultProxyURI is the collection proxy path used in stealth mode
	DefaultProxyURI = "/caos/v1/proxy"
	// DefaultGoogleAnalyticsURL is the upstream of analytics.js and the collection endpoint
	DefaultGoogleAnalyticsURL = "https://www.google-analytics.com"
	// DefaultTagManagerURL is the upstream of gtag.js
	DefaultTagManagerURL = "https://www.googletagmanager.com"
)

// AnalyticsSettings configures the hosted analytics script
type AnalyticsSettings struct {
	TrackingID      string
	SiteURL         string
	ContentURL      string
	ContentDir      string
	CacheDir        string
	RemoteJSFile    string
	CDNURL          string
	StealthMode     bool
	TrackAdBlockers bool
	ProxyURI        string
	AnalyticsURL    string
	TagManagerURL   string
}

func (s AnalyticsSettings) withDefaults() AnalyticsSettings {
	if s.RemoteJSFile == "" {
		s.RemoteJSFile = "analytics.js"
	}
	if s.CacheDir == "" {
		s.CacheDir = "/uploads/caos/"
	}
	if s.ContentURL == "" {
		s.ContentURL = s.SiteURL
	}
	if s.ProxyURI == "" {
		s.ProxyURI = DefaultProxyURI
	}
	if s.AnalyticsURL == "" {
		s.AnalyticsURL = DefaultGoogleAnalyticsURL
	}
	if s.TagManagerURL == "" {
		s.TagManagerURL = DefaultTagManagerURL
	}
	s.SiteURL = strings.TrimSuffix(s.SiteURL, "/")
	s.ContentURL = strings.TrimSuffix(s.ContentURL, "/")
	return s
}

// AnalyticsHost resolves where the hosted analytics script lives on disk and on the web.
// The alias table maps a script handle to a randomized file name; without a table
// (installs that never refreshed the script) the handle itself is the file name.
type AnalyticsHost struct {
	settings AnalyticsSettings
	repo     ports.FileAliasRepository
	logger   zerolog.Logger

	mu      sync.RWMutex
	aliases domain.FileAliases
}

// NewAnalyticsHost creates a new analytics host
func NewAnalyticsHost(settings AnalyticsSettings, repo ports.FileAliasRepository, logger zerolog.Logger) *AnalyticsHost {
	return &AnalyticsHost{
		settings: settings.withDefaults(),
		repo:     repo,
		logger:   logger,
	}
}

// Settings returns the effective settings
func (h *AnalyticsHost) Settings() AnalyticsSettings {
	return h.settings
}

// Load reads the alias table from the repository
func (h *AnalyticsHost) Load(ctx context.Context) error {
	aliases, err := h.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load file aliases: %w", err)
	}

	h.mu.Lock()
	h.aliases = aliases
	h.mu.Unlock()
	return nil
}

// FileAliases returns the alias table, nil when none exists
func (h *AnalyticsHost) FileAliases() domain.FileAliases {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.aliases == nil {
		return nil
	}
	out := make(domain.FileAliases, len(h.aliases))
	for k, v := range h.aliases {
		out[k] = v
	}
	return out
}

// FileAlias returns the alias of key or ""
func (h *AnalyticsHost) FileAlias(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.aliases[key]
}

// SetFileAliases replaces the alias table, persisting it when write is set
func (h *AnalyticsHost) SetFileAliases(ctx context.Context, aliases domain.FileAliases, write bool) error {
	h.mu.Lock()
	h.aliases = aliases
	h.mu.Unlock()

	if !write {
		return nil
	}
	if err := h.repo.Save(ctx, aliases); err != nil {
		return fmt.Errorf("failed to save file aliases: %w", err)
	}
	return nil
}

// SetFileAlias sets a single alias, persisting the table when write is set
func (h *AnalyticsHost) SetFileAlias(ctx context.Context, key, alias string, write bool) error {
	aliases := h.FileAliases()
	if aliases == nil {
		aliases = domain.FileAliases{}
	}
	aliases[key] = alias
	return h.SetFileAliases(ctx, aliases, write)
}

// LocalDir is the directory hosted scripts are written to
func (h *AnalyticsHost) LocalDir() string {
	return path.Join(h.settings.ContentDir, h.settings.CacheDir)
}

// FileHandle is the alias key of the configured remote script ("analytics" for analytics.js)
func (h *AnalyticsHost) FileHandle() string {
	return strings.TrimSuffix(h.settings.RemoteJSFile, ".js")
}

// FileAliasPath returns the on-disk path of the script for key
func (h *AnalyticsHost) FileAliasPath(key string) string {
	filePath := path.Join(h.LocalDir(), key+".js")

	if h.FileAliases() == nil {
		return filePath
	}

	alias := h.FileAlias(key)
	if alias == "" {
		return filePath
	}

	return path.Join(h.LocalDir(), alias)
}

// LocalFileURL returns the URL visitors load the hosted script from
func (h *AnalyticsHost) LocalFileURL() string {
	url := h.settings.ContentURL + LocalFileRoute + h.settings.RemoteJSFile

	// The content URL can be plain http behind a TLS terminating proxy.
	if strings.HasPrefix(h.settings.SiteURL, "https://") && strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}

	if h.settings.CDNURL != "" {
		siteURL := h.settings.SiteURL
		if strings.HasPrefix(url, "https://") && strings.HasPrefix(siteURL, "http://") {
			siteURL = "https://" + strings.TrimPrefix(siteURL, "http://")
		}
		url = strings.Replace(url, siteURL, "//"+h.settings.CDNURL, 1)
	}

	if h.FileAliases() == nil {
		return url
	}

	alias := h.FileAlias(h.FileHandle())
	if alias == "" {
		return url
	}

	return strings.Replace(url, h.settings.RemoteJSFile, alias, 1)
}

// Uninstall removes the alias table
func (h *AnalyticsHost) Uninstall(ctx context.Context) error {
	h.mu.Lock()
	h.aliases = nil
	h.mu.Unlock()

	if err := h.repo.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file aliases: %w", err)
	}
	h.logger.Info().Msg("Removed hosted analytics file aliases")
	return nil
}
