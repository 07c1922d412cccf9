package processor

import (
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/pubsub"
)

// Processor fans committed and edited matches out to the channel.
type Processor struct {
	store     Store
	clubs     Clubs
	standings Standings
	pubsub    pubsub.PubSubClient
	notifier  Notifier
	metrics   metrics.Metrics
}

// MatchEvent is the payload published for every change to a committed match.
type MatchEvent struct {
	MatchID      int64            `msgpack:"match_id"`
	TournamentID int64            `msgpack:"tournament_id"`
	Kind         pubsub.EventType `msgpack:"kind"`
}
