package session_test

import (
	"errors"
	"testing"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/database"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/rating"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operator = "U123"

type fixture struct {
	manager session.Manager
	clubs   *club.MockStore
	matches *match.MockStore
	metrics *metrics.Mock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clubs := club.NewMock()
	clubs.TeamList = []club.Team{
		{ID: 1, Name: "Alpha", Tag: "A", Roster: []string{"p1", "p2"}},
		{ID: 2, Name: "Bravo", Tag: "B", Roster: []string{"p3"}},
		{ID: 3, Name: "Empty", Tag: "E", Roster: []string{}},
		{ID: 4, Name: "Charlie", Tag: "C", Roster: []string{"p4", "p5"}},
	}
	clubs.TournamentList = []club.Tournament{
		{ID: 1, Name: "Cup", Season: "S1", Year: 2024},
		{ID: 2, Name: "League", Season: "S2", Year: 2024},
	}
	matches := match.NewMock()
	m := metrics.NewMock()

	return &fixture{
		manager: session.NewManager(clubs, matches, m),
		clubs:   clubs,
		matches: matches,
		metrics: m,
	}
}

func text(v string) session.Input {
	return session.Input{Kind: session.InputText, Value: v}
}

func choice(v string) session.Input {
	return session.Input{Kind: session.InputChoice, Value: v}
}

var skip = session.Input{Kind: session.InputSkip}

// toTeam1Tag walks a fresh session up to the first team tag.
func (f *fixture) toTeam1Tag(t *testing.T) {
	t.Helper()

	res, err := f.manager.Begin(operator, 1)
	require.NoError(t, err)
	require.Equal(t, session.StateSelectFormat, res.State)

	steps := []struct {
		in   session.Input
		want session.State
	}{
		{choice("5x5"), session.StateEnterDate},
		{text("2024.05.20"), session.StateSelectMap},
		{choice("Dune"), session.StateEnterScore},
		{text("13-11"), session.StateEnterTeam1Tag},
	}
	for _, step := range steps {
		res, err := f.manager.Submit(operator, step.in)
		require.NoError(t, err)
		require.Equal(t, session.OutcomeAdvance, res.Outcome)
		require.Equal(t, step.want, res.State)
	}
}

func (f *fixture) submit(t *testing.T, in session.Input) session.Result {
	t.Helper()
	res, err := f.manager.Submit(operator, in)
	require.NoError(t, err)
	return res
}

func TestSessionCommitsOneLinePerEnteredPlayer(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	res := f.submit(t, text("a"))
	assert.Equal(t, session.StateCollectingTeam1, res.State)
	assert.Equal(t, "p1", res.Prompt.Player)
	assert.Equal(t, 1, res.Prompt.Index)
	assert.Equal(t, 2, res.Prompt.Total)

	res = f.submit(t, text("10 2 8"))
	assert.Equal(t, "p2", res.Prompt.Player)

	res = f.submit(t, skip)
	assert.Equal(t, session.StateEnterTeam2Tag, res.State)

	res = f.submit(t, text("B"))
	assert.Equal(t, session.StateCollectingTeam2, res.State)
	assert.Equal(t, "p3", res.Prompt.Player)

	res = f.submit(t, text("5 1 12"))
	assert.Equal(t, session.OutcomeCommit, res.Outcome)
	assert.Equal(t, int64(1), res.MatchID)
	require.NotNil(t, res.Record)

	rec := res.Record
	assert.Equal(t, int64(1), rec.TournamentID)
	assert.Equal(t, "2024.05.20", rec.Date)
	assert.Equal(t, "5x5", rec.Format)
	assert.Equal(t, "Dune", rec.Map)
	assert.Equal(t, 13, rec.Score1)
	assert.Equal(t, 11, rec.Score2)
	assert.Equal(t, 24, rec.TotalRounds)

	require.Len(t, rec.Stats["A"], 1)
	require.Len(t, rec.Stats["B"], 1)
	assert.Equal(t, "p1", rec.Stats["A"][0].Nickname)
	assert.Equal(t, rating.Calculate(rating.Counts{Kills: 10, Assists: 2, Deaths: 8}, 24), rec.Stats["A"][0].MetricVector)
	assert.Equal(t, "p3", rec.Stats["B"][0].Nickname)
	assert.Equal(t, 5, rec.Stats["B"][0].K)

	require.Len(t, f.matches.AppendCalls, 1)
	_, ok := f.manager.Current(operator)
	assert.False(t, ok, "session is cleared after commit")
	assert.Equal(t, 1, f.metrics.SessionsCommitted())
	assert.Equal(t, 1, f.metrics.MatchesStored())
}

func TestSessionSkipsInBothTeams(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	f.submit(t, text("A"))
	f.submit(t, text("1 1 1"))
	f.submit(t, skip)
	f.submit(t, text("c"))
	f.submit(t, skip)
	res := f.submit(t, text("2 2 2"))

	require.Equal(t, session.OutcomeCommit, res.Outcome)
	require.Len(t, res.Record.Stats["A"], 1)
	require.Len(t, res.Record.Stats["C"], 1)
	assert.Equal(t, "p1", res.Record.Stats["A"][0].Nickname)
	assert.Equal(t, "p5", res.Record.Stats["C"][0].Nickname)
}

func TestSessionRejectsSecondTagEqualToFirst(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	f.submit(t, text("A"))
	f.submit(t, text("10 2 8"))
	f.submit(t, text("3 0 9"))

	for _, tag := range []string{"A", "a", " a "} {
		res, err := f.manager.Submit(operator, text(tag))
		var dup *session.DuplicateTeamError
		require.ErrorAs(t, err, &dup)
		assert.True(t, session.IsRecoverable(err))
		assert.Equal(t, session.OutcomeReprompt, res.Outcome)
		assert.Equal(t, session.StateEnterTeam2Tag, res.State)
	}

	snap, ok := f.manager.Current(operator)
	require.True(t, ok)
	assert.Equal(t, session.StateEnterTeam2Tag, snap.State)
	assert.Equal(t, 1, snap.TeamIndex)
	assert.Equal(t, 2, snap.PlayerIndex)
	assert.Len(t, snap.Team1, 2)
	assert.Equal(t, 3, f.metrics.StepsRejected("duplicate_team"))
}

func TestSessionValidationRepromptsWithoutChange(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		input session.Input
		state session.State
	}{
		{
			name: "unknown format",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.manager.Begin(operator, 1)
				require.NoError(t, err)
			},
			input: choice("6x6"),
			state: session.StateSelectFormat,
		},
		{
			name: "short date",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.manager.Begin(operator, 1)
				require.NoError(t, err)
				f.submit(t, choice("5x5"))
			},
			input: text("2024.5"),
			state: session.StateEnterDate,
		},
		{
			name: "short date in cyrillic",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.manager.Begin(operator, 1)
				require.NoError(t, err)
				f.submit(t, choice("5x5"))
			},
			input: text("1 мая"),
			state: session.StateEnterDate,
		},
		{
			name: "team removed from registry",
			setup: func(t *testing.T, f *fixture) {
				f.toTeam1Tag(t)
				f.clubs.TeamList = nil
			},
			input: text("A"),
			state: session.StateEnterTeam1Tag,
		},
		{
			name: "unknown map",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.manager.Begin(operator, 1)
				require.NoError(t, err)
				f.submit(t, choice("5x5"))
				f.submit(t, text("2024.05.20"))
			},
			input: choice("Mirage"),
			state: session.StateSelectMap,
		},
		{
			name: "bad score",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.manager.Begin(operator, 1)
				require.NoError(t, err)
				f.submit(t, choice("5x5"))
				f.submit(t, text("2024.05.20"))
				f.submit(t, choice("Dune"))
			},
			input: text("13:11"),
			state: session.StateEnterScore,
		},
		{
			name: "two numbers",
			setup: func(t *testing.T, f *fixture) {
				f.toTeam1Tag(t)
				f.submit(t, text("A"))
			},
			input: text("10 2"),
			state: session.StateCollectingTeam1,
		},
		{
			name: "letters",
			setup: func(t *testing.T, f *fixture) {
				f.toTeam1Tag(t)
				f.submit(t, text("A"))
			},
			input: text("a b c"),
			state: session.StateCollectingTeam1,
		},
		{
			name: "negative",
			setup: func(t *testing.T, f *fixture) {
				f.toTeam1Tag(t)
				f.submit(t, text("A"))
			},
			input: text("-1 2 3"),
			state: session.StateCollectingTeam1,
		},
		{
			name:  "skip outside roster",
			setup: func(t *testing.T, f *fixture) { f.toTeam1Tag(t) },
			input: skip,
			state: session.StateEnterTeam1Tag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)
			before, ok := f.manager.Current(operator)
			require.True(t, ok)

			res, err := f.manager.Submit(operator, tt.input)
			require.Error(t, err)
			assert.True(t, session.IsRecoverable(err))
			assert.Equal(t, session.OutcomeReprompt, res.Outcome)
			assert.Equal(t, tt.state, res.State)

			after, ok := f.manager.Current(operator)
			require.True(t, ok)
			assert.Equal(t, before, after)
		})
	}
}

func TestSessionTeamLookupErrors(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	for _, tag := range []string{"ZZZ", "e"} {
		_, err := f.manager.Submit(operator, text(tag))
		var lookup *session.LookupError
		require.ErrorAs(t, err, &lookup)
		assert.Equal(t, "team", lookup.Kind)
	}
	assert.Equal(t, 2, f.metrics.StepsRejected("lookup"))
}

func TestSessionRosterIsSnapshotted(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)
	f.submit(t, text("A"))

	f.clubs.TeamList[0].Roster = []string{"someone", "else", "entirely"}

	res := f.submit(t, skip)
	assert.Equal(t, "p2", res.Prompt.Player)
	assert.Equal(t, 2, res.Prompt.Total)
}

func TestSessionTournamentBrowsing(t *testing.T) {
	f := newFixture(t)

	res, err := f.manager.Start(operator)
	require.NoError(t, err)
	assert.Equal(t, session.StateSelectTournament, res.State)
	assert.Equal(t, 1, res.Prompt.Position)
	assert.Equal(t, 2, res.Prompt.Count)
	assert.Equal(t, "Cup", res.Prompt.Tournament.Name)

	res = f.submit(t, session.Input{Kind: session.InputNext})
	assert.Equal(t, session.OutcomeNavigate, res.Outcome)
	assert.Equal(t, "League", res.Prompt.Tournament.Name)

	res = f.submit(t, session.Input{Kind: session.InputNext})
	assert.Equal(t, 2, res.Prompt.Position, "browsing stops at the last tournament")

	res = f.submit(t, session.Input{Kind: session.InputPrev})
	assert.Equal(t, 1, res.Prompt.Position)

	_, err = f.manager.Submit(operator, choice("99"))
	var lookup *session.LookupError
	require.ErrorAs(t, err, &lookup)

	_, err = f.manager.Submit(operator, choice("cup"))
	var validation *session.ValidationError
	require.ErrorAs(t, err, &validation)

	res = f.submit(t, choice("2"))
	assert.Equal(t, session.StateSelectFormat, res.State)
	assert.Len(t, res.Prompt.Choices, len(match.Formats))

	snap, ok := f.manager.Current(operator)
	require.True(t, ok)
	assert.Equal(t, int64(2), snap.TournamentID)
}

func TestSessionStartWithoutTournaments(t *testing.T) {
	f := newFixture(t)
	f.clubs.TournamentList = nil

	_, err := f.manager.Start(operator)
	var lookup *session.LookupError
	require.ErrorAs(t, err, &lookup)

	_, ok := f.manager.Current(operator)
	assert.False(t, ok)
}

func TestSessionCancel(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	assert.True(t, f.manager.Cancel(operator))
	assert.False(t, f.manager.Cancel(operator))

	_, err := f.manager.Submit(operator, text("A"))
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Empty(t, f.matches.AppendCalls)
	assert.Equal(t, 1, f.metrics.SessionsCancelled())
}

func TestSessionStartReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)
	first, ok := f.manager.Current(operator)
	require.True(t, ok)

	res, err := f.manager.Start(operator)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, res.SessionID)

	snap, ok := f.manager.Current(operator)
	require.True(t, ok)
	assert.Equal(t, session.StateSelectTournament, snap.State)
	assert.Equal(t, 1, f.metrics.SessionsCancelled())
	assert.Equal(t, 2, f.metrics.SessionsStarted())
}

func TestSessionsAreIndependentPerOperator(t *testing.T) {
	f := newFixture(t)
	f.toTeam1Tag(t)

	_, err := f.manager.Begin("U999", 2)
	require.NoError(t, err)

	mine, ok := f.manager.Current(operator)
	require.True(t, ok)
	theirs, ok := f.manager.Current("U999")
	require.True(t, ok)

	assert.Equal(t, session.StateEnterTeam1Tag, mine.State)
	assert.Equal(t, session.StateSelectFormat, theirs.State)
	assert.Equal(t, int64(2), theirs.TournamentID)
}

func TestSessionStoreFailureDiscardsSession(t *testing.T) {
	f := newFixture(t)
	f.matches.AppendFunc = func(rec *match.Record) (int64, error) {
		return 0, errors.New("disk full")
	}
	f.toTeam1Tag(t)
	f.submit(t, text("A"))
	f.submit(t, skip)
	f.submit(t, skip)
	f.submit(t, text("B"))

	res, err := f.manager.Submit(operator, text("5 1 12"))
	var storeErr *session.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.False(t, session.IsRecoverable(err))
	assert.Equal(t, session.OutcomeError, res.Outcome)

	_, ok := f.manager.Current(operator)
	assert.False(t, ok, "session is cleared after a failed commit")
	assert.Zero(t, f.metrics.SessionsCommitted())
}

func TestSessionTeamLookupFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.clubs.TeamByTagFunc = func(tag string) (*club.Team, error) {
		return nil, errors.New("connection reset")
	}
	f.toTeam1Tag(t)

	_, err := f.manager.Submit(operator, text("A"))
	var storeErr *session.StoreError
	require.ErrorAs(t, err, &storeErr)

	_, ok := f.manager.Current(operator)
	assert.False(t, ok)
}

func TestCommittedLineIsStoredAsCalculated(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	clubs := club.New(db)
	matches := match.New(db)
	_, err = clubs.CreateTeam("Alpha", "AAA", []string{"s1mple"})
	require.NoError(t, err)
	_, err = clubs.CreateTeam("Bravo", "BBB", []string{"zywoo"})
	require.NoError(t, err)
	tournamentID, err := clubs.CreateTournament(&club.Tournament{Name: "Cup", Season: "S1", Year: 2024})
	require.NoError(t, err)

	manager := session.NewManager(clubs, matches, metrics.NewMock())
	_, err = manager.Begin(operator, tournamentID)
	require.NoError(t, err)

	var res session.Result
	for _, in := range []session.Input{
		choice("5x5"), text("2024.05.20"), choice("Dune"), text("13-11"),
		text("AAA"), text("15 4 10"), text("BBB"), skip,
	} {
		res, err = manager.Submit(operator, in)
		require.NoError(t, err)
	}
	require.Equal(t, session.OutcomeCommit, res.Outcome)

	want := rating.MetricVector{
		K:      15,
		A:      4,
		D:      10,
		Diff:   5,
		KPR:    0.62,
		DPR:    0.42,
		SVR:    0.58,
		Impact: 0.99,
		Rating: 1.09,
		KD:     1.5,
		Helps:  4,
	}

	stored, err := matches.Get(res.MatchID)
	require.NoError(t, err)
	assert.Equal(t, 24, stored.TotalRounds)
	require.Len(t, stored.Lines("AAA"), 1)
	assert.Equal(t, "s1mple", stored.Lines("AAA")[0].Nickname)
	assert.Equal(t, want, stored.Lines("AAA")[0].MetricVector)
	assert.Empty(t, stored.Lines("BBB"))
}
