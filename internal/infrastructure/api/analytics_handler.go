package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"

	"commerce-sync-bridge/internal/application"
	"commerce-sync-bridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// AnalyticsHandler serves the locally hosted analytics script and its helpers
type AnalyticsHandler struct {
	host    *application.AnalyticsHost
	updater *application.ScriptUpdater
	fs      afero.Fs
	metrics ports.AnalyticsMetrics
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	host *application.AnalyticsHost,
	updater *application.ScriptUpdater,
	fs afero.Fs,
	metrics ports.AnalyticsMetrics,
	logger zerolog.Logger,
) *AnalyticsHandler {
	if metrics == nil {
		metrics = ports.NopAnalyticsMetrics{}
	}
	return &AnalyticsHandler{
		host:    host,
		updater: updater,
		fs:      fs,
		metrics: metrics,
		logger:  logger,
	}
}

// Routes mounts the analytics routes. The refresh trigger goes through protect.
// The proxy and ad-block routes are only mounted when enabled in settings.
func (h *AnalyticsHandler) Routes(r chi.Router, protect func(http.Handler) http.Handler) {
	settings := h.host.Settings()

	r.Get(application.LocalFileRoute+"{file}", h.serveLocalFile)
	r.Get("/analytics/script", h.scriptInfo)
	r.With(protect).Post("/analytics/update", h.updateScript)

	if settings.StealthMode {
		proxy, err := h.collectionProxy()
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to create analytics collection proxy")
		} else {
			r.Handle(settings.ProxyURI+"/*", proxy)
		}
	}

	if settings.TrackAdBlockers {
		r.Post("/caos/v1/block/detect", h.detectAdBlock)
	}
}

// localPath resolves a requested file name to the hosted script on disk.
// Both the configured script name and its current alias are accepted.
func (h *AnalyticsHandler) localPath(file string) (string, bool) {
	settings := h.host.Settings()
	handle := h.host.FileHandle()

	if file == settings.RemoteJSFile || file == h.host.FileAlias(handle) {
		return h.host.FileAliasPath(handle), true
	}
	return "", false
}

func (h *AnalyticsHandler) serveLocalFile(w http.ResponseWriter, r *http.Request) {
	file := path.Base(chi.URLParam(r, "file"))

	filePath, ok := h.localPath(file)
	if !ok {
		http.NotFound(w, r)
		return
	}

	body, err := afero.ReadFile(h.fs, filePath)
	if err != nil {
		h.logger.Warn().Err(err).Str("path", filePath).Msg("Hosted analytics script not available")
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *AnalyticsHandler) scriptInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"url":    h.host.LocalFileURL(),
		"handle": h.host.FileHandle(),
		"alias":  h.host.FileAlias(h.host.FileHandle()),
	})
}

func (h *AnalyticsHandler) updateScript(w http.ResponseWriter, r *http.Request) {
	if _, err := h.updater.Update(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "failed to update hosted script")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": h.host.LocalFileURL()})
}

func (h *AnalyticsHandler) detectAdBlock(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncAdBlockDetection()
	h.logger.Debug().Str("remoteAddr", r.RemoteAddr).Msg("Ad blocker detected")
	w.WriteHeader(http.StatusNoContent)
}

// collectionProxy forwards stealth mode collection hits to the analytics upstream
func (h *AnalyticsHandler) collectionProxy() (http.Handler, error) {
	settings := h.host.Settings()

	target, err := url.Parse(settings.AnalyticsURL)
	if err != nil {
		return nil, err
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(pr.In.URL.Path, settings.ProxyURI), "/")
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Analytics collection proxy failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return proxy, nil
}
