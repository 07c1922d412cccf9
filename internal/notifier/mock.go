package notifier

import (
	"sync"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/session"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendMatchCardFunc func(rec *match.Record, tournament *club.Tournament, dryRun bool) error

	// FormatResponse, when set, is returned by every Format method instead
	// of a placeholder string.
	FormatResponse any

	// Call records
	SendMatchCardCalls []struct {
		Record     *match.Record
		Tournament *club.Tournament
		DryRun     bool
	}
	SendMatchRemovedCalls []int64
	SendLeaderboardCalls  [][]leaderboard.Entry

	// Call records for format functions
	FormatSessionResponseCalls []struct {
		Result session.Result
		Err    error
	}
	FormatMatchListResponseCalls   []match.Page
	FormatLeaderboardResponseCalls [][]leaderboard.Entry
	FormatPlayerProfileCalls       []*leaderboard.Profile
	FormatPlayerNotFoundCalls      []string
	FormatErrorResponseCalls       []string
	FormatInfoResponseCalls        []string
	FormatMatchCardResponseCalls   []*match.Record
	LastPlayerNotFoundSuggestions  []club.Suggestion
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchCardCalls = nil
	m.SendMatchRemovedCalls = nil
	m.SendLeaderboardCalls = nil
	m.FormatSessionResponseCalls = nil
	m.FormatMatchListResponseCalls = nil
	m.FormatLeaderboardResponseCalls = nil
	m.FormatPlayerProfileCalls = nil
	m.FormatPlayerNotFoundCalls = nil
	m.FormatErrorResponseCalls = nil
	m.FormatInfoResponseCalls = nil
	m.FormatMatchCardResponseCalls = nil
	m.LastPlayerNotFoundSuggestions = nil
}

func (m *Mock) SendMatchCard(rec *match.Record, tournament *club.Tournament, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchCardCalls = append(m.SendMatchCardCalls, struct {
		Record     *match.Record
		Tournament *club.Tournament
		DryRun     bool
	}{rec, tournament, dryRun})
	if m.SendMatchCardFunc != nil {
		return m.SendMatchCardFunc(rec, tournament, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchRemoved(matchID int64, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRemovedCalls = append(m.SendMatchRemovedCalls, matchID)
	return nil
}

func (m *Mock) SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}

func (m *Mock) FormatSessionResponse(res session.Result, err error) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatSessionResponseCalls = append(m.FormatSessionResponseCalls, struct {
		Result session.Result
		Err    error
	}{res, err})
	return m.response("formatted_session"), nil
}

func (m *Mock) FormatMatchCardResponse(rec *match.Record, tournament *club.Tournament) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMatchCardResponseCalls = append(m.FormatMatchCardResponseCalls, rec)
	return m.response("formatted_match_card"), nil
}

func (m *Mock) FormatMatchListResponse(page match.Page, tournament *club.Tournament) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMatchListResponseCalls = append(m.FormatMatchListResponseCalls, page)
	return m.response("formatted_match_list"), nil
}

func (m *Mock) FormatLeaderboardResponse(entries []leaderboard.Entry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatLeaderboardResponseCalls = append(m.FormatLeaderboardResponseCalls, entries)
	return m.response("formatted_leaderboard"), nil
}

func (m *Mock) FormatPlayerProfileResponse(profile *leaderboard.Profile) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerProfileCalls = append(m.FormatPlayerProfileCalls, profile)
	return m.response("formatted_player_profile"), nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string, suggestions []club.Suggestion) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundCalls = append(m.FormatPlayerNotFoundCalls, query)
	m.LastPlayerNotFoundSuggestions = suggestions
	return m.response("formatted_player_not_found"), nil
}

func (m *Mock) FormatErrorResponse(text string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatErrorResponseCalls = append(m.FormatErrorResponseCalls, text)
	return m.response("formatted_error"), nil
}

func (m *Mock) FormatInfoResponse(text string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatInfoResponseCalls = append(m.FormatInfoResponseCalls, text)
	return m.response("formatted_info"), nil
}

func (m *Mock) response(placeholder string) any {
	if m.FormatResponse != nil {
		return m.FormatResponse
	}
	return placeholder
}
