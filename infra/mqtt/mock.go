package mqtt

import (
	"fmt"
	"sync"

	"github.com/kerhervel/parkplan/core/planlog"
)

// MockPublisher records announcements in memory for tests.
type MockPublisher struct {
	mu       sync.Mutex
	Messages []planlog.PlanRecord
	Fail     bool
	closed   bool
}

// Announce stores the record, or fails when Fail is set.
func (m *MockPublisher) Announce(rec planlog.PlanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("simulated publish failure")
	}
	m.Messages = append(m.Messages, rec)
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
