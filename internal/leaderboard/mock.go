package leaderboard

import "sync"

// MockAggregator is a mock implementation of the Aggregator interface for testing.
type MockAggregator struct {
	mu sync.Mutex

	StandingsFunc func() ([]Entry, error)
	TopFunc       func(n int) ([]Entry, error)
	RankFunc      func(nickname string) (int, error)
	ProfileFunc   func(nickname string) (*Profile, error)

	TopCalls     []int
	ProfileCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockAggregator {
	return &MockAggregator{}
}

func (m *MockAggregator) Standings() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StandingsFunc != nil {
		return m.StandingsFunc()
	}
	return []Entry{}, nil
}

func (m *MockAggregator) Top(n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopCalls = append(m.TopCalls, n)
	if m.TopFunc != nil {
		return m.TopFunc(n)
	}
	return []Entry{}, nil
}

func (m *MockAggregator) Rank(nickname string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RankFunc != nil {
		return m.RankFunc(nickname)
	}
	return Unranked, nil
}

func (m *MockAggregator) Profile(nickname string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls = append(m.ProfileCalls, nickname)
	if m.ProfileFunc != nil {
		return m.ProfileFunc(nickname)
	}
	return nil, ErrPlayerNotFound
}
