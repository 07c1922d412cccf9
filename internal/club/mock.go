package club

import (
	"strings"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Without a Func override the lookups read
// from the Teams and TournamentList fixtures.
type MockStore struct {
	mu sync.Mutex

	TeamList       []Team
	TournamentList []Tournament

	// Spies for method calls
	CreateTeamFunc           func(name, tag string, roster []string) (*Team, error)
	TeamByTagFunc            func(tag string) (*Team, error)
	CurrentTeamFunc          func(nickname string) (*Team, error)
	ListTournamentsFunc      func(sort TournamentSort) ([]Tournament, error)
	CreateTournamentFunc     func(t *Tournament) (int64, error)
	SetWinnerFunc            func(tournamentID int64, place string, teamID int64) error
	TransferPlayerFunc       func(nickname string, fromTeamID, toTeamID int64, date string) (*Transfer, error)
	TransfersFunc            func(nickname string) ([]Transfer, error)
	PlayerMetadataFunc       func(nickname string) (PlayerMetadata, error)
	UpsertPlayerMetadataFunc func(meta PlayerMetadata) error

	// Call records
	TeamByTagCalls      []string
	TransferPlayerCalls []struct {
		Nickname   string
		FromTeamID int64
		ToTeamID   int64
		Date       string
	}
	SetWinnerCalls []struct {
		TournamentID int64
		Place        string
		TeamID       int64
	}
	UpsertPlayerMetadataCalls []PlayerMetadata
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamByTagCalls = nil
	m.TransferPlayerCalls = nil
	m.SetWinnerCalls = nil
	m.UpsertPlayerMetadataCalls = nil
}

func (m *MockStore) CreateTeam(name, tag string, roster []string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(name, tag, roster)
	}
	team := Team{ID: int64(len(m.TeamList) + 1), Name: name, Tag: tag, Roster: roster}
	m.TeamList = append(m.TeamList, team)
	return &team, nil
}

func (m *MockStore) TeamByTag(tag string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamByTagCalls = append(m.TeamByTagCalls, tag)
	if m.TeamByTagFunc != nil {
		return m.TeamByTagFunc(tag)
	}
	for _, t := range m.TeamList {
		if strings.EqualFold(t.Tag, strings.TrimSpace(tag)) {
			team := t
			return &team, nil
		}
	}
	return nil, ErrTeamNotFound
}

func (m *MockStore) TeamByID(id int64) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.TeamList {
		if t.ID == id {
			team := t
			return &team, nil
		}
	}
	return nil, ErrTeamNotFound
}

func (m *MockStore) Teams() ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Team(nil), m.TeamList...), nil
}

func (m *MockStore) CurrentTeam(nickname string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CurrentTeamFunc != nil {
		return m.CurrentTeamFunc(nickname)
	}
	for _, t := range m.TeamList {
		if t.Has(nickname) {
			team := t
			return &team, nil
		}
	}
	return nil, nil
}

func (m *MockStore) AllRosterPlayers() ([]RosterPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var players []RosterPlayer
	for _, t := range m.TeamList {
		for _, nick := range t.Roster {
			players = append(players, RosterPlayer{Nickname: nick, TeamID: t.ID, TeamName: t.Name, TeamTag: t.Tag})
		}
	}
	return players, nil
}

func (m *MockStore) CreateTournament(t *Tournament) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(t)
	}
	t.ID = int64(len(m.TournamentList) + 1)
	m.TournamentList = append(m.TournamentList, *t)
	return t.ID, nil
}

func (m *MockStore) Tournament(id int64) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.TournamentList {
		if t.ID == id {
			tournament := t
			return &tournament, nil
		}
	}
	return nil, ErrTournamentNotFound
}

func (m *MockStore) ListTournaments(sort TournamentSort) ([]Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc(sort)
	}
	return append([]Tournament(nil), m.TournamentList...), nil
}

func (m *MockStore) SetWinner(tournamentID int64, place string, teamID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetWinnerCalls = append(m.SetWinnerCalls, struct {
		TournamentID int64
		Place        string
		TeamID       int64
	}{tournamentID, place, teamID})
	if m.SetWinnerFunc != nil {
		return m.SetWinnerFunc(tournamentID, place, teamID)
	}
	return nil
}

func (m *MockStore) TransferPlayer(nickname string, fromTeamID, toTeamID int64, date string) (*Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransferPlayerCalls = append(m.TransferPlayerCalls, struct {
		Nickname   string
		FromTeamID int64
		ToTeamID   int64
		Date       string
	}{nickname, fromTeamID, toTeamID, date})
	if m.TransferPlayerFunc != nil {
		return m.TransferPlayerFunc(nickname, fromTeamID, toTeamID, date)
	}
	return &Transfer{PlayerName: nickname, Date: date}, nil
}

func (m *MockStore) Transfers(nickname string) ([]Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransfersFunc != nil {
		return m.TransfersFunc(nickname)
	}
	return []Transfer{}, nil
}

func (m *MockStore) UpsertPlayerMetadata(meta PlayerMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerMetadataCalls = append(m.UpsertPlayerMetadataCalls, meta)
	if m.UpsertPlayerMetadataFunc != nil {
		return m.UpsertPlayerMetadataFunc(meta)
	}
	return nil
}

func (m *MockStore) PlayerMetadata(nickname string) (PlayerMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayerMetadataFunc != nil {
		return m.PlayerMetadataFunc(nickname)
	}
	return PlayerMetadata{Nickname: nickname}, nil
}
