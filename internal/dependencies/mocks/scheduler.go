package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/memgame-go/internal/dependencies/scheduler"
)

// MockScheduler records jobs and only runs them when told to
type MockScheduler struct {
	mu      sync.Mutex
	nextID  int
	every   map[int]func()
	once    map[int]func()
	Delays  []time.Duration // Delay passed to every After call
	Stopped bool
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates an empty MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{
		every: make(map[int]func()),
		once:  make(map[int]func()),
	}
}

// Every records a repeating job
func (m *MockScheduler) Every(interval time.Duration, fn func()) (scheduler.Stop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.every[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.every, id)
	}, nil
}

// After records a one-shot job
func (m *MockScheduler) After(delay time.Duration, fn func()) (scheduler.Stop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.once[id] = fn
	m.Delays = append(m.Delays, delay)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.once, id)
	}, nil
}

// Shutdown drops every job
func (m *MockScheduler) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.every = make(map[int]func())
	m.once = make(map[int]func())
	m.Stopped = true
	return nil
}

// Tick runs every repeating job once
func (m *MockScheduler) Tick() {
	for _, fn := range m.snapshot(m.every, false) {
		fn()
	}
}

// FireAfter runs and discards every pending one-shot job
func (m *MockScheduler) FireAfter() {
	for _, fn := range m.snapshot(m.once, true) {
		fn()
	}
}

// Pending returns the number of one-shot jobs waiting to fire
func (m *MockScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.once)
}

// Active returns the number of repeating jobs still registered
func (m *MockScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.every)
}

func (m *MockScheduler) snapshot(jobs map[int]func(), clear bool) []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fns := make([]func(), 0, len(jobs))
	for id, fn := range jobs {
		fns = append(fns, fn)
		if clear {
			delete(jobs, id)
		}
	}
	return fns
}
