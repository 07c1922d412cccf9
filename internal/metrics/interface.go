package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSessionsStarted()
	IncSessionsCommitted()
	IncSessionsCancelled()
	IncStepRejected(reason string)
	IncMatchesStored()
	ObserveLeaderboardDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// UsageStore keeps durable per-key usage counters, such as how often each
// slash command was run.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
