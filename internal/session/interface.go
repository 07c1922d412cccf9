package session

import (
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
)

// Manager runs match entry sessions, at most one per operator.
type Manager interface {
	// Start opens a session at tournament selection. An existing session of
	// the same operator is discarded.
	Start(operatorID string) (Result, error)
	// Begin is Start followed by selecting tournamentID.
	Begin(operatorID string, tournamentID int64) (Result, error)
	Submit(operatorID string, in Input) (Result, error)
	Cancel(operatorID string) bool
	Current(operatorID string) (Snapshot, bool)
}

// Clubs is the team and tournament lookup a session needs.
type Clubs interface {
	TeamByTag(tag string) (*club.Team, error)
	ListTournaments(sort club.TournamentSort) ([]club.Tournament, error)
}

// Matches receives committed matches.
type Matches interface {
	Append(rec *match.Record) (int64, error)
}
