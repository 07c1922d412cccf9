package session

import "sync"

// MockManager is a mock implementation of the Manager interface for testing.
// It is safe for concurrent use.
type MockManager struct {
	mu sync.Mutex

	// Spies for method calls
	StartFunc   func(operatorID string) (Result, error)
	BeginFunc   func(operatorID string, tournamentID int64) (Result, error)
	SubmitFunc  func(operatorID string, in Input) (Result, error)
	CancelFunc  func(operatorID string) bool
	CurrentFunc func(operatorID string) (Snapshot, bool)

	// Call records
	StartCalls []string
	BeginCalls []struct {
		OperatorID   string
		TournamentID int64
	}
	SubmitCalls []struct {
		OperatorID string
		Input      Input
	}
	CancelCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockManager {
	return &MockManager{}
}

// Reset clears all call records.
func (m *MockManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = nil
	m.BeginCalls = nil
	m.SubmitCalls = nil
	m.CancelCalls = nil
}

func (m *MockManager) Start(operatorID string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = append(m.StartCalls, operatorID)
	if m.StartFunc != nil {
		return m.StartFunc(operatorID)
	}
	return Result{Outcome: OutcomeAdvance, State: StateSelectTournament}, nil
}

func (m *MockManager) Begin(operatorID string, tournamentID int64) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BeginCalls = append(m.BeginCalls, struct {
		OperatorID   string
		TournamentID int64
	}{operatorID, tournamentID})
	if m.BeginFunc != nil {
		return m.BeginFunc(operatorID, tournamentID)
	}
	return Result{Outcome: OutcomeAdvance, State: StateSelectFormat}, nil
}

func (m *MockManager) Submit(operatorID string, in Input) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls = append(m.SubmitCalls, struct {
		OperatorID string
		Input      Input
	}{operatorID, in})
	if m.SubmitFunc != nil {
		return m.SubmitFunc(operatorID, in)
	}
	return Result{Outcome: OutcomeAdvance}, nil
}

func (m *MockManager) Cancel(operatorID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls = append(m.CancelCalls, operatorID)
	if m.CancelFunc != nil {
		return m.CancelFunc(operatorID)
	}
	return true
}

func (m *MockManager) Current(operatorID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CurrentFunc != nil {
		return m.CurrentFunc(operatorID)
	}
	return Snapshot{}, false
}
