package club_test

import (
	"path/filepath"
	"testing"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(filepath.Join(t.TempDir(), "club.db"), "", "")
	require.NoError(t, err)
	return club.New(db), teardown
}

func TestCreateTeamAndLookup(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	created, err := store.CreateTeam("Alpha Squad", "ALP", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byTag, err := store.TeamByTag("alp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byTag.ID)
	assert.Equal(t, []string{"p1", "p2"}, byTag.Roster)
	assert.Equal(t, "Alpha Squad [ALP]", byTag.Label())

	byID, err := store.TeamByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ALP", byID.Tag)

	_, err = store.TeamByTag("nope")
	assert.ErrorIs(t, err, club.ErrTeamNotFound)

	_, err = store.CreateTeam("Other", "alp", nil)
	assert.ErrorIs(t, err, club.ErrDuplicateTeam)
}

func TestCurrentTeam(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	first, err := store.CreateTeam("First", "F", []string{"p1", "shared"})
	require.NoError(t, err)
	_, err = store.CreateTeam("Second", "S", []string{"shared", "p3"})
	require.NoError(t, err)

	team, err := store.CurrentTeam("shared")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, first.ID, team.ID)

	team, err = store.CurrentTeam("ghost")
	require.NoError(t, err)
	assert.Nil(t, team)
}

func TestAllRosterPlayersSortedCaseInsensitively(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.CreateTeam("First", "F", []string{"zed", "Bob"})
	require.NoError(t, err)
	_, err = store.CreateTeam("Second", "S", []string{"alice"})
	require.NoError(t, err)

	players, err := store.AllRosterPlayers()
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "alice", players[0].Nickname)
	assert.Equal(t, "Bob", players[1].Nickname)
	assert.Equal(t, "zed", players[2].Nickname)
	assert.Equal(t, "S", players[0].TeamTag)
}

func TestTournaments(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	older := &club.Tournament{Name: "Winter Cup", Season: "S1", Year: 2023}
	_, err := store.CreateTournament(older)
	require.NoError(t, err)

	newer := &club.Tournament{
		Name: "Autumn Major", Season: "S2", Year: 2024,
		Prize: club.PrizeFund{
			Currency:     "$",
			Total:        "10000",
			Distribution: club.Distribution{{Place: "1st", Amount: "6000"}, {Place: "2nd", Amount: "4000"}},
		},
	}
	id, err := store.CreateTournament(newer)
	require.NoError(t, err)

	got, err := store.Tournament(id)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Major", got.Name)
	assert.Equal(t, "$", got.Prize.Currency)
	amount, ok := got.Prize.Distribution.Amount("1st")
	assert.True(t, ok)
	assert.Equal(t, "6000", amount)
	assert.Empty(t, got.Winners)

	alpha, err := store.ListTournaments(club.SortAlpha)
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	assert.Equal(t, "Autumn Major", alpha[0].Name)

	byYear, err := store.ListTournaments(club.SortYear)
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	assert.Equal(t, 2024, byYear[0].Year)

	_, err = store.Tournament(999)
	assert.ErrorIs(t, err, club.ErrTournamentNotFound)
}

func TestSetWinner(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	team, err := store.CreateTeam("Alpha", "A", []string{"p1"})
	require.NoError(t, err)
	id, err := store.CreateTournament(&club.Tournament{Name: "Cup", Year: 2024})
	require.NoError(t, err)

	require.NoError(t, store.SetWinner(id, "1st", team.ID))

	got, err := store.Tournament(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1st": team.ID}, got.Winners)

	assert.ErrorIs(t, store.SetWinner(999, "1st", team.ID), club.ErrTournamentNotFound)
}

func TestTransferPlayer(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	from, err := store.CreateTeam("Alpha", "A", []string{"p1", "p2"})
	require.NoError(t, err)
	to, err := store.CreateTeam("Bravo", "B", []string{"p3"})
	require.NoError(t, err)

	transfer, err := store.TransferPlayer("p1", from.ID, to.ID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "Alpha [A]", transfer.OldTeam)
	assert.Equal(t, "Bravo [B]", transfer.NewTeam)

	gotFrom, err := store.TeamByID(from.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, gotFrom.Roster)

	gotTo, err := store.TeamByID(to.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1"}, gotTo.Roster)

	history, err := store.Transfers("p1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-05-01", history[0].Date)

	_, err = store.TransferPlayer("p1", from.ID, to.ID, "2024-05-02")
	assert.ErrorIs(t, err, club.ErrPlayerNotInTeam)
}

func TestPlayerMetadata(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	meta, err := store.PlayerMetadata("p1")
	require.NoError(t, err)
	assert.Equal(t, club.PlayerMetadata{Nickname: "p1"}, meta)

	require.NoError(t, store.UpsertPlayerMetadata(club.PlayerMetadata{Nickname: "p1", FirstName: "Ann", LastName: "Lee"}))
	require.NoError(t, store.UpsertPlayerMetadata(club.PlayerMetadata{Nickname: "p1", LastName: "Kim"}))

	meta, err = store.PlayerMetadata("p1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", meta.FirstName)
	assert.Equal(t, "Kim", meta.LastName)
}

func TestNicknameMatcherSuggest(t *testing.T) {
	mock := club.NewMock()
	mock.TeamList = []club.Team{
		{ID: 1, Name: "Alpha", Tag: "A", Roster: []string{"s1mple", "electronic"}},
		{ID: 2, Name: "Bravo", Tag: "B", Roster: []string{"zywoo"}},
	}

	suggestions, err := club.NewNicknameMatcher(mock).Suggest("simple")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "s1mple", suggestions[0].Player.Nickname)

	suggestions, err = club.NewNicknameMatcher(mock).Suggest("")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
