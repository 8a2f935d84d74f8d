package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/erdos/internal/handlers"
)

// MockSleeperModule is a shared, self-contained module for concurrency tests.
// It registers the "sleeper" kind, which sleeps for a fixed duration and
// records the execution time of each node that uses it.
type MockSleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	completionChan chan<- string

	running     atomic.Int32
	maxInFlight atomic.Int32
}

// NewMockSleeperModule creates a new sleeper module for testing. Completed
// node IDs are sent on completionChan when it is not nil.
func NewMockSleeperModule(completionChan chan<- string, sleep time.Duration) *MockSleeperModule {
	return &MockSleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

// Register registers the "sleeper" handler.
func (m *MockSleeperModule) Register(h *handlers.Handlers) {
	h.RegisterHandler("sleeper", m.onRun)
}

func (m *MockSleeperModule) onRun(_ context.Context, in handlers.Input) (any, error) {
	now := m.running.Add(1)
	for {
		prev := m.maxInFlight.Load()
		if now <= prev || m.maxInFlight.CompareAndSwap(prev, now) {
			break
		}
	}

	startTime := time.Now()
	time.Sleep(m.sleepDuration)
	endTime := time.Now()
	m.running.Add(-1)

	m.mu.Lock()
	m.ExecutionTimes[in.NodeID] = &ExecutionRecord{Start: startTime, End: endTime}
	m.mu.Unlock()

	if m.completionChan != nil {
		m.completionChan <- in.NodeID
	}
	return in.NodeID, nil
}

// Record returns the execution record of the given node, or nil.
func (m *MockSleeperModule) Record(id string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecutionTimes[id]
}

// MaxInFlight returns the highest number of sleeper nodes observed running at once.
func (m *MockSleeperModule) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}
