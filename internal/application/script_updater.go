package application

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"commerce-sync-bridge/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ScriptUpdater downloads the remote analytics script and stores it under a fresh alias
type ScriptUpdater struct {
	host       *AnalyticsHost
	fs         afero.Fs
	httpClient *http.Client
	metrics    ports.AnalyticsMetrics
	logger     zerolog.Logger
}

// NewScriptUpdater creates a new script updater
func NewScriptUpdater(host *AnalyticsHost, fs afero.Fs, httpClient *http.Client, metrics ports.AnalyticsMetrics, logger zerolog.Logger) *ScriptUpdater {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if metrics == nil {
		metrics = ports.NopAnalyticsMetrics{}
	}
	return &ScriptUpdater{
		host:       host,
		fs:         fs,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// RemoteURL is the upstream location of the configured script
func (u *ScriptUpdater) RemoteURL() string {
	settings := u.host.Settings()
	if settings.RemoteJSFile == "gtag.js" {
		return settings.TagManagerURL + "/gtag/js?id=" + url.QueryEscape(settings.TrackingID)
	}
	return settings.AnalyticsURL + "/" + settings.RemoteJSFile
}

// Update refreshes the hosted script and returns its new local path
func (u *ScriptUpdater) Update(ctx context.Context) (string, error) {
	localPath, err := u.update(ctx)
	u.metrics.ObserveScriptUpdate(err)
	if err != nil {
		u.logger.Error().Err(err).Str("remoteUrl", u.RemoteURL()).Msg("Failed to update hosted analytics script")
		return "", err
	}

	u.logger.Info().Str("path", localPath).Msg("Updated hosted analytics script")
	return localPath, nil
}

func (u *ScriptUpdater) update(ctx context.Context) (string, error) {
	body, err := u.download(ctx, u.RemoteURL())
	if err != nil {
		return "", err
	}

	settings := u.host.Settings()
	if settings.StealthMode {
		body = strings.ReplaceAll(body, settings.AnalyticsURL, settings.SiteURL+settings.ProxyURI)
	}

	localDir := u.host.LocalDir()
	if err := u.fs.MkdirAll(localDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	handle := u.host.FileHandle()
	previous := u.host.FileAlias(handle)
	alias := strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ".js"
	localPath := path.Join(localDir, alias)

	if err := afero.WriteFile(u.fs, localPath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}

	if err := u.host.SetFileAlias(ctx, handle, alias, true); err != nil {
		return "", err
	}

	if previous != "" && previous != alias {
		if err := u.fs.Remove(path.Join(localDir, previous)); err != nil && !os.IsNotExist(err) {
			u.logger.Warn().Err(err).Str("file", previous).Msg("Failed to remove previous script")
		}
	}

	return localPath, nil
}

func (u *ScriptUpdater) download(ctx context.Context, remoteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download script: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(body), nil
}

// Run refreshes the script every interval until ctx is done
func (u *ScriptUpdater) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = u.Update(ctx)
		}
	}
}
