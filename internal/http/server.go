package http

import (
	"net/http"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/config"
	"github.com/mauv0809/match-ledger/internal/http/handlers"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/notifier"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/pubsub"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/slack-go/slack"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Clubs          club.ClubStore
	Matches        match.Store
	Sessions       session.Manager
	Standings      leaderboard.Aggregator
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Usage          metrics.UsageStore
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	PubSub         pubsub.PubSubClient
	// Respond posts interaction replies. Defaults to slack.PostWebhookContext.
	Respond handlers.ResponseFunc
}

func NewServer(deps Deps, cfg config.Config) *Server {
	respond := deps.Respond
	if respond == nil {
		respond = slack.PostWebhookContext
	}
	server := &Server{
		Clubs:          deps.Clubs,
		Matches:        deps.Matches,
		Sessions:       deps.Sessions,
		Standings:      deps.Standings,
		Metrics:        deps.Metrics,
		MetricsHandler: deps.MetricsHandler,
		Usage:          deps.Usage,
		Cfg:            cfg,
		Notifier:       deps.Notifier,
		Processor:      deps.Processor,
		Router:         http.NewServeMux(),
		pubsub:         deps.PubSub,
		respond:        respond,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Slack endpoints additionally verify the request signature and count usage.
	slackAuth := slackVerifier(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/match", Chain(handlers.MatchCommandHandler(s.Sessions, s.Matches, s.Clubs, s.Notifier, s.Processor, s.Cfg), paramsMiddleware, slackAuth, countUsage(s.Usage, "command_match")))
	s.Router.Handle("POST /slack/command/top", Chain(handlers.TopCommandHandler(s.Standings, s.Notifier), paramsMiddleware, slackAuth, countUsage(s.Usage, "command_top")))
	s.Router.Handle("POST /slack/command/profile", Chain(handlers.ProfileCommandHandler(s.Standings, s.Clubs, s.Notifier), paramsMiddleware, slackAuth, countUsage(s.Usage, "command_profile")))
	s.Router.Handle("POST /slack/command/matches", Chain(handlers.MatchesCommandHandler(s.Matches, s.Clubs, s.Notifier), paramsMiddleware, slackAuth, countUsage(s.Usage, "command_matches")))
	s.Router.Handle("POST /slack/interactions", Chain(handlers.InteractionsHandler(s.Sessions, s.Notifier, s.Processor, s.respond), paramsMiddleware, slackAuth, countUsage(s.Usage, "interaction")))

	s.Router.Handle("GET /api/matches", Chain(handlers.ListMatchesHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("GET /api/matches/{id}", Chain(handlers.GetMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("PATCH /api/matches/{id}", Chain(handlers.UpdateMatchHandler(s.Matches, s.Processor), paramsMiddleware))
	s.Router.Handle("DELETE /api/matches/{id}", Chain(handlers.DeleteMatchHandler(s.Matches, s.Processor), paramsMiddleware))
	s.Router.Handle("GET /api/top", Chain(handlers.TopHandler(s.Standings), paramsMiddleware))
	s.Router.Handle("GET /api/players/{nickname}", Chain(handlers.PlayerProfileHandler(s.Standings, s.Clubs), paramsMiddleware))
	s.Router.Handle("GET /api/tournaments", Chain(handlers.ListTournamentsHandler(s.Clubs), paramsMiddleware))
	s.Router.Handle("POST /api/transfers", Chain(handlers.TransferPlayerHandler(s.Clubs), paramsMiddleware))
	s.Router.Handle("GET /api/usage", Chain(handlers.UsageHandler(s.Usage), paramsMiddleware))

	s.Router.Handle("POST /events/match", Chain(handlers.MatchEventHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /tasks/leaderboard", Chain(handlers.PostLeaderboardHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /test/session", Chain(handlers.TestSessionHandler(s.Sessions, s.Processor), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
