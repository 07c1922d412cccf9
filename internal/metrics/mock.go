package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	sessionsStarted      int
	sessionsCommitted    int
	sessionsCancelled    int
	stepsRejected        map[string]int
	matchesStored        int
	leaderboardDurations []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		stepsRejected:        make(map[string]int),
		leaderboardDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsStarted++
}

func (m *Mock) IncSessionsCommitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCommitted++
}

func (m *Mock) IncSessionsCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCancelled++
}

func (m *Mock) IncStepRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepsRejected[reason]++
}

func (m *Mock) IncMatchesStored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesStored++
}

func (m *Mock) ObserveLeaderboardDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboardDurations = append(m.leaderboardDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SessionsStarted returns the number of times IncSessionsStarted was called.
func (m *Mock) SessionsStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsStarted
}

// SessionsCommitted returns the number of times IncSessionsCommitted was called.
func (m *Mock) SessionsCommitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsCommitted
}

// SessionsCancelled returns the number of times IncSessionsCancelled was called.
func (m *Mock) SessionsCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsCancelled
}

// StepsRejected returns how often IncStepRejected was called with reason.
func (m *Mock) StepsRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepsRejected[reason]
}

// MatchesStored returns the number of times IncMatchesStored was called.
func (m *Mock) MatchesStored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesStored
}

// LeaderboardObservations returns how many durations were observed.
func (m *Mock) LeaderboardObservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leaderboardDurations)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
