package match

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AppendFunc      func(rec *Record) (int64, error)
	GetFunc         func(id int64) (*Record, error)
	ListFunc        func(filter Filter) (Page, error)
	AllFunc         func() ([]Record, error)
	UpdateFieldFunc func(id int64, field Field, value string) (*Record, error)
	DeleteFunc      func(id int64) error

	// Call records
	AppendCalls      []*Record
	ListCalls        []Filter
	UpdateFieldCalls []struct {
		ID    int64
		Field Field
		Value string
	}
	DeleteCalls []int64

	nextID int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = nil
	m.ListCalls = nil
	m.UpdateFieldCalls = nil
	m.DeleteCalls = nil
}

// Append records the call. Without AppendFunc it hands out sequential ids.
func (m *MockStore) Append(rec *Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = append(m.AppendCalls, rec)
	if m.AppendFunc != nil {
		return m.AppendFunc(rec)
	}
	m.nextID++
	rec.ID = m.nextID
	return m.nextID, nil
}

func (m *MockStore) Get(id int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) List(filter Filter) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, filter)
	if m.ListFunc != nil {
		return m.ListFunc(filter)
	}
	return Page{Page: filter.Page, PageSize: filter.PageSize, Records: []Record{}}, nil
}

func (m *MockStore) All() ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AllFunc != nil {
		return m.AllFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateField(id int64, field Field, value string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateFieldCalls = append(m.UpdateFieldCalls, struct {
		ID    int64
		Field Field
		Value string
	}{id, field, value})
	if m.UpdateFieldFunc != nil {
		return m.UpdateFieldFunc(id, field, value)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}
