package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	SessionsStarted     prometheus.Counter
	SessionsCommitted   prometheus.Counter
	SessionsCancelled   prometheus.Counter
	StepsRejected       *prometheus.CounterVec
	MatchesStored       prometheus.Counter
	LeaderboardDuration prometheus.Histogram
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
