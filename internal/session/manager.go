package session

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/metrics"
)

// NewManager creates a new session registry.
func NewManager(clubs Clubs, matches Matches, metrics metrics.Metrics) Manager {
	return &manager{
		sessions: make(map[string]*session),
		clubs:    clubs,
		matches:  matches,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (m *manager) Start(operatorID string) (Result, error) {
	tournaments, err := m.clubs.ListTournaments(club.SortAlpha)
	if err != nil {
		return Result{Outcome: OutcomeError}, &StoreError{Op: "list tournaments", Err: err}
	}
	if len(tournaments) == 0 {
		return Result{Outcome: OutcomeReprompt, State: StateSelectTournament},
			&LookupError{State: StateSelectTournament, Kind: "tournament", Reason: "no tournaments registered"}
	}

	s := &session{
		id:          uuid.NewString(),
		operatorID:  operatorID,
		state:       StateSelectTournament,
		startedAt:   m.now(),
		tournaments: tournaments,
	}

	m.mu.Lock()
	if old, ok := m.sessions[operatorID]; ok {
		log.Warn("Replacing unfinished match entry", "operator", operatorID, "oldSessionID", old.id, "state", old.state)
		m.metrics.IncSessionsCancelled()
	}
	m.sessions[operatorID] = s
	m.mu.Unlock()

	m.metrics.IncSessionsStarted()
	log.Info("Match entry started", "operator", operatorID, "sessionID", s.id, "tournaments", len(tournaments))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result(OutcomeAdvance), nil
}

func (m *manager) Begin(operatorID string, tournamentID int64) (Result, error) {
	res, err := m.Start(operatorID)
	if err != nil {
		return res, err
	}
	return m.Submit(operatorID, Input{Kind: InputChoice, Value: strconv.FormatInt(tournamentID, 10)})
}

// Submit feeds one operator action into the session. Recoverable errors
// come back with OutcomeReprompt and leave the session as it was. A
// StoreError discards the session.
func (m *manager) Submit(operatorID string, in Input) (Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[operatorID]
	m.mu.Unlock()
	if !ok {
		return Result{Outcome: OutcomeError}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.apply(in, m.clubs)
	if err != nil {
		if IsRecoverable(err) {
			m.metrics.IncStepRejected(rejectReason(err))
			log.Debug("Step input rejected", "sessionID", s.id, "state", s.state, "error", err)
			return s.result(OutcomeReprompt), err
		}
		m.discard(s)
		log.Error("Match entry aborted", "sessionID", s.id, "state", s.state, "error", err)
		return Result{SessionID: s.id, Outcome: OutcomeError, State: s.state}, err
	}

	if outcome != OutcomeCommit {
		return s.result(outcome), nil
	}

	rec := s.record()
	id, err := m.matches.Append(rec)
	m.discard(s)
	if err != nil {
		log.Error("Failed to store match", "sessionID", s.id, "error", err)
		return Result{SessionID: s.id, Outcome: OutcomeError, State: s.state}, &StoreError{Op: "append match", Err: err}
	}
	rec.ID = id
	s.state = StateCommitted

	m.metrics.IncSessionsCommitted()
	m.metrics.IncMatchesStored()
	log.Info("Match committed", "sessionID", s.id, "matchID", id, "team1", rec.Team1Tag, "team2", rec.Team2Tag,
		"lines1", len(rec.Stats[rec.Team1Tag]), "lines2", len(rec.Stats[rec.Team2Tag]))

	return Result{SessionID: s.id, Outcome: OutcomeCommit, State: StateCommitted, MatchID: id, Record: rec}, nil
}

// Cancel discards the operator's session. It reports whether one existed.
func (m *manager) Cancel(operatorID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[operatorID]
	delete(m.sessions, operatorID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.metrics.IncSessionsCancelled()
	log.Info("Match entry cancelled", "operator", operatorID, "sessionID", s.id)
	return true
}

func (m *manager) Current(operatorID string) (Snapshot, bool) {
	m.mu.Lock()
	s, ok := m.sessions[operatorID]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), true
}

// discard removes s from the registry unless it was already replaced.
func (m *manager) discard(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.operatorID] == s {
		delete(m.sessions, s.operatorID)
	}
}
