package leaderboard

import (
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
)

// Aggregator computes rankings and profiles from the full match history.
// Every call rescans the store.
type Aggregator interface {
	Standings() ([]Entry, error)
	Top(n int) ([]Entry, error)
	Rank(nickname string) (int, error)
	Profile(nickname string) (*Profile, error)
}

// Matches is the read side of the match store the aggregator folds over.
type Matches interface {
	All() ([]match.Record, error)
}

// Clubs provides the roster, transfer and tournament lookups for profiles.
type Clubs interface {
	CurrentTeam(nickname string) (*club.Team, error)
	Transfers(nickname string) ([]club.Transfer, error)
	ListTournaments(sort club.TournamentSort) ([]club.Tournament, error)
	PlayerMetadata(nickname string) (club.PlayerMetadata, error)
}
