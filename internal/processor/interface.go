package processor

import (
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	Get(id int64) (*match.Record, error)
}

// Clubs resolves the tournament a match card is rendered for.
type Clubs interface {
	Tournament(id int64) (*club.Tournament, error)
}

// Standings provides the leaderboard posted to the channel.
type Standings interface {
	Top(n int) ([]leaderboard.Entry, error)
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
