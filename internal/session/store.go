package session

import (
	"errors"
	"log"
	"sync"

	"github.com/thedefenders/honeytrap/internal/intel"
)

var ErrNotFound = errors.New("session not found")

// Store owns the set of live sessions, keyed by the caller-supplied id.
// Sessions are created lazily on first reference and never evicted here;
// capacity management is an operational concern outside this core.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it in the initial phase
// when absent. It reports whether a new session was created.
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok = st.sessions[id]; ok {
		return s, false
	}
	s = &Session{
		ID:    id,
		Phase: PhaseAwaitingClassification,
		Intel: intel.NewStore(),
	}
	st.sessions[id] = s
	log.Printf("[session %s] created", id)
	return s, true
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// ActiveCount counts sessions that have not closed yet. Each session is
// locked briefly; lock order is always store before session.
func (st *Store) ActiveCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	count := 0
	for _, s := range st.sessions {
		s.Lock()
		if s.Phase != PhaseClosed {
			count++
		}
		s.Unlock()
	}
	return count
}

// ClosedCount counts sessions that reached the terminal phase.
func (st *Store) ClosedCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	count := 0
	for _, s := range st.sessions {
		s.Lock()
		if s.Phase == PhaseClosed {
			count++
		}
		s.Unlock()
	}
	return count
}
