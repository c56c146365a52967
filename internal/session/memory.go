package session

import (
	"context"
	"sync"
	"time"

	"github.com/dynamic-shelf-pricer/console/internal/view"
)

// sweepEvery is how many updates pass between scans for idle sessions.
const sweepEvery = 64

type memoryEntry struct {
	state     view.State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. A zero ttl keeps sessions
// for the lifetime of the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	updates int
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns the session state, or a fresh state when the session is unknown or idle too long.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (view.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(sessionID)
	if !ok {
		return view.NewState(), nil
	}
	m.touch(sessionID, entry.state)
	return entry.state, nil
}

// Update runs fn under the store lock, so updates never interleave.
func (m *MemoryStore) Update(_ context.Context, sessionID string, fn func(view.State) view.State) (view.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := view.NewState()
	if entry, ok := m.lookup(sessionID); ok {
		current = entry.state
	}
	next := fn(current)
	m.touch(sessionID, next)

	m.updates++
	if m.updates%sweepEvery == 0 {
		m.sweep()
	}
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.entries)
}

func (m *MemoryStore) lookup(sessionID string) (memoryEntry, bool) {
	entry, ok := m.entries[sessionID]
	if !ok {
		return memoryEntry{}, false
	}
	if m.expired(entry) {
		delete(m.entries, sessionID)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *MemoryStore) touch(sessionID string, state view.State) {
	entry := memoryEntry{state: state}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[sessionID] = entry
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

func (m *MemoryStore) sweep() {
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
		}
	}
}

var _ view.Store = (*MemoryStore)(nil)
