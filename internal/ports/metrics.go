package ports

// SyncMetrics records product sync activity
type SyncMetrics interface {
	ObserveRemoteCall(operation string, err error)
	IncUpdateSkipped()
	IncCacheLookup(hit bool)
}

// NopSyncMetrics discards every observation
type NopSyncMetrics struct{}

func (NopSyncMetrics) ObserveRemoteCall(string, error) {}
func (NopSyncMetrics) IncUpdateSkipped()               {}
func (NopSyncMetrics) IncCacheLookup(bool)             {}

// AnalyticsMetrics records hosted analytics script activity
type AnalyticsMetrics interface {
	ObserveScriptUpdate(err error)
	IncAdBlockDetection()
}

// NopAnalyticsMetrics discards every observation
type NopAnalyticsMetrics struct{}

func (NopAnalyticsMetrics) ObserveScriptUpdate(error) {}
func (NopAnalyticsMetrics) IncAdBlockDetection()      {}
