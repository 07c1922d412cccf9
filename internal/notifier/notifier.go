package notifier

import (
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/session"
)

// Action ids carried by interactive session buttons. Choice buttons use
// ActionChoice as a prefix because action ids must be unique per block.
const (
	ActionChoice = "session_choice"
	ActionNext   = "session_next"
	ActionPrev   = "session_prev"
	ActionSkip   = "session_skip"
	ActionCancel = "session_cancel"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For committed matches
	SendMatchCard(rec *match.Record, tournament *club.Tournament, dryRun bool) error
	SendMatchRemoved(matchID int64, dryRun bool) error
	// For slash commands
	SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error

	// For formatting responses for slash commands and interactions
	FormatSessionResponse(res session.Result, err error) (any, error)
	FormatMatchCardResponse(rec *match.Record, tournament *club.Tournament) (any, error)
	FormatMatchListResponse(page match.Page, tournament *club.Tournament) (any, error)
	FormatLeaderboardResponse(entries []leaderboard.Entry) (any, error)
	FormatPlayerProfileResponse(profile *leaderboard.Profile) (any, error)
	FormatPlayerNotFoundResponse(query string, suggestions []club.Suggestion) (any, error)
	FormatErrorResponse(text string) (any, error)
	FormatInfoResponse(text string) (any, error)
}
