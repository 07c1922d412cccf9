package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sessions_started_total",
			Help: "The total number of match entry sessions started.",
		}),
		SessionsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sessions_committed_total",
			Help: "The total number of match entry sessions that ended in a stored match.",
		}),
		SessionsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sessions_cancelled_total",
			Help: "The total number of match entry sessions cancelled or replaced by the operator.",
		}),
		StepsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_session_steps_rejected_total",
			Help: "Step inputs that were rejected and re-prompted, by reason.",
		}, []string{"reason"}),
		MatchesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_matches_stored_total",
			Help: "The total number of matches appended to the store.",
		}),
		LeaderboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_leaderboard_duration_seconds",
			Help:    "The duration of a full leaderboard recomputation.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SessionsStarted,
		s.SessionsCommitted,
		s.SessionsCancelled,
		s.StepsRejected,
		s.MatchesStored,
		s.LeaderboardDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSessionsStarted() {
	s.SessionsStarted.Inc()
}

func (s *Service) IncSessionsCommitted() {
	s.SessionsCommitted.Inc()
}

func (s *Service) IncSessionsCancelled() {
	s.SessionsCancelled.Inc()
}

func (s *Service) IncStepRejected(reason string) {
	s.StepsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) IncMatchesStored() {
	s.MatchesStored.Inc()
}

func (s *Service) ObserveLeaderboardDuration(duration float64) {
	s.LeaderboardDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
