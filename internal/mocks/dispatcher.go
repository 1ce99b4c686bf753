package mocks

import (
	"sync"

	"github.com/taskfolio/taskfolio-api/internal/notify"
)

// MockDispatcher implements service.Dispatcher for testing. It records
// every dispatched message so tests can assert on notification side
// effects without running a worker pool.
type MockDispatcher struct {
	mu       sync.Mutex
	Messages []notify.Message
}

// Dispatch implements the Dispatcher interface
func (m *MockDispatcher) Dispatch(msg notify.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}

// Sent returns a copy of the messages dispatched so far.
func (m *MockDispatcher) Sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.Messages))
	copy(out, m.Messages)
	return out
}
