package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes sync and analytics activity as Prometheus metrics
type Recorder struct {
	remoteCalls      *prometheus.CounterVec
	updatesSkipped   prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	scriptUpdates    *prometheus.CounterVec
	adBlockDetection prometheus.Counter
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce_sync",
			Name:      "remote_api_calls_total",
			Help:      "Remote marketing API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		updatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commerce_sync",
			Name:      "product_updates_skipped_total",
			Help:      "Product updates skipped because the content hash was unchanged.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce_sync",
			Name:      "product_cache_lookups_total",
			Help:      "Remote product cache lookups by result.",
		}, []string{"result"}),
		scriptUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analytics_host",
			Name:      "script_updates_total",
			Help:      "Hosted analytics script refreshes by outcome.",
		}, []string{"outcome"}),
		adBlockDetection: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics_host",
			Name:      "adblock_detections_total",
			Help:      "Visits reported with an active ad blocker.",
		}),
	}

	reg.MustRegister(r.remoteCalls, r.updatesSkipped, r.cacheLookups, r.scriptUpdates, r.adBlockDetection)
	return r
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveRemoteCall counts a remote API call
func (r *Recorder) ObserveRemoteCall(operation string, err error) {
	r.remoteCalls.WithLabelValues(operation, outcome(err)).Inc()
}

// IncUpdateSkipped counts a hash short-circuit
func (r *Recorder) IncUpdateSkipped() {
	r.updatesSkipped.Inc()
}

// IncCacheLookup counts a cache hit or miss
func (r *Recorder) IncCacheLookup(hit bool) {
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveScriptUpdate counts a hosted script refresh
func (r *Recorder) ObserveScriptUpdate(err error) {
	r.scriptUpdates.WithLabelValues(outcome(err)).Inc()
}

// IncAdBlockDetection counts a reported ad blocker
func (r *Recorder) IncAdBlockDetection() {
	r.adBlockDetection.Inc()
}
