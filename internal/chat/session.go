package chat

import (
	"sync"
	"time"
)

// MaxTurns bounds per-session conversation memory. When a new turn would
// exceed the bound, the oldest turns are dropped first.
const MaxTurns = 20

// Turn is one exchange in a conversation. Immutable once recorded.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Intent    Intent    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStore owns the per-session conversation memory. Implementations
// must be safe for concurrent use and must serialize mutations per
// session id.
type SessionStore interface {
	// GetOrCreate returns the session for id, creating it if needed.
	GetOrCreate(id string) *Session
	// History returns a copy of the session's turns. The second return
	// value is false when the session does not exist, which callers can
	// distinguish from an existing session with no turns.
	History(id string) ([]Turn, bool)
	// Clear removes the session. Idempotent.
	Clear(id string)
}

// Session is one conversation's memory. All methods lock internally, so
// a caller never holds the session lock across a network call.
type Session struct {
	id    string
	mu    sync.Mutex
	turns []Turn
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the most recent n turns in chronological
// order. n <= 0 returns all turns.
func (s *Session) Snapshot(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a turn and trims memory to the retention bound,
// dropping oldest-first.
func (s *Session) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, t)
	if len(s.turns) > MaxTurns {
		// Copy instead of re-slicing so dropped turns can be collected.
		trimmed := make([]Turn, MaxTurns)
		copy(trimmed, s.turns[len(s.turns)-MaxTurns:])
		s.turns = trimmed
	}
}

// MemoryStore is the in-process SessionStore. Sessions live for the
// process lifetime unless cleared; there is no expiry policy.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it lazily.
func (m *MemoryStore) GetOrCreate(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = &Session{id: id}
	m.sessions[id] = s
	return s
}

// History returns a copy of the session's turns, or false for an
// unknown session.
func (m *MemoryStore) History(id string) ([]Turn, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.Snapshot(0), true
}

// Clear removes the session. A no-op when the session does not exist.
func (m *MemoryStore) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
