package kv

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInjected is the error returned by a Memory gateway with faults enabled.
var ErrInjected = errors.New("kv: injected fault")

// Memory is a map-backed Gateway. It is safe for concurrent use.
//
// FailReads and FailWrites make every Get or Set fail with ErrInjected,
// which is how tests reach the storage error paths of the stores.
type Memory struct {
	mu         sync.Mutex
	data       map[string]string
	writes     int
	failReads  bool
	failWrites bool
	closed     bool
}

// NewMemory returns an empty Memory gateway.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	if m.failReads {
		return "", false, ErrInjected
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.failWrites {
		return ErrInjected
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Keys returns every stored key in ascending order.
func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the gateway closed. Data is kept so tests can inspect it.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailReads toggles read fault injection.
func (m *Memory) FailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = fail
}

// FailWrites toggles write fault injection.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Raw returns the stored value without fault injection.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Put stores a value without fault injection or write counting.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Writes returns the number of successful Set calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
