package session

import (
	"sync"
	"time"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/rating"
)

// State is a step of the match entry workflow. States are visited in the
// order they are declared.
type State string

const (
	StateSelectTournament State = "select_tournament"
	StateSelectFormat     State = "select_format"
	StateEnterDate        State = "enter_date"
	StateSelectMap        State = "select_map"
	StateEnterScore       State = "enter_score"
	StateEnterTeam1Tag    State = "enter_team1_tag"
	StateCollectingTeam1  State = "collecting_team1"
	StateEnterTeam2Tag    State = "enter_team2_tag"
	StateCollectingTeam2  State = "collecting_team2"
	StateCommitted        State = "committed"
)

// InputKind tells Submit how to read an Input.
type InputKind string

const (
	InputText   InputKind = "text"
	InputChoice InputKind = "choice"
	InputSkip   InputKind = "skip"
	InputNext   InputKind = "next"
	InputPrev   InputKind = "prev"
)

// Input is one operator action: typed text, a button choice, a skip of the
// current player or tournament browsing.
type Input struct {
	Kind  InputKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

// Outcome summarizes what a Submit did.
type Outcome string

const (
	OutcomeAdvance  Outcome = "advance"
	OutcomeNavigate Outcome = "navigate"
	OutcomeReprompt Outcome = "reprompt"
	OutcomeCommit   Outcome = "commit"
	OutcomeError    Outcome = "error"
)

// Choice is a selectable option offered with a prompt.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Prompt describes what the operator must provide next.
// Index is 1-based and only set while collecting player stats.
type Prompt struct {
	State      State            `json:"state"`
	Tournament *club.Tournament `json:"tournament,omitempty"`
	Position   int              `json:"position,omitempty"`
	Count      int              `json:"count,omitempty"`
	Choices    []Choice         `json:"choices,omitempty"`
	TeamTag    string           `json:"team_tag,omitempty"`
	Player     string           `json:"player,omitempty"`
	Index      int              `json:"index,omitempty"`
	Total      int              `json:"total,omitempty"`
}

// Result is returned by every Start and Submit.
type Result struct {
	SessionID string        `json:"session_id"`
	Outcome   Outcome       `json:"outcome"`
	State     State         `json:"state"`
	Prompt    Prompt        `json:"prompt"`
	MatchID   int64         `json:"match_id,omitempty"`
	Record    *match.Record `json:"record,omitempty"`
}

// Snapshot is a read-only copy of an in-progress session.
type Snapshot struct {
	ID           string
	OperatorID   string
	State        State
	TournamentID int64
	Format       string
	Date         string
	Map          string
	Score1       int
	Score2       int
	Rounds       int
	Team1Tag     string
	Team2Tag     string
	Roster       []string
	TeamIndex    int
	PlayerIndex  int
	Current      []rating.PlayerLine
	Team1        []rating.PlayerLine
	StartedAt    time.Time
}

// session is one operator's in-progress match entry. It is never persisted.
type session struct {
	mu sync.Mutex

	id         string
	operatorID string
	state      State
	startedAt  time.Time

	tournaments []club.Tournament
	browseIndex int

	tournamentID int64
	format       string
	date         string
	mapName      string
	score1       int
	score2       int
	rounds       int

	team1Tag string
	team1ID  int64
	team2Tag string

	roster      []string
	teamIndex   int
	playerIndex int
	current     []rating.PlayerLine
	team1       []rating.PlayerLine
}

// manager is the per-operator session registry.
type manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	clubs   Clubs
	matches Matches
	metrics metrics.Metrics
	now     func() time.Time
}
