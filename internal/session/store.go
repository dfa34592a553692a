package session

import (
	"context"
	"sync"
	"time"

	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal"
	"corrplot/internal/analysis"
	"corrplot/internal/metrics"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 30 * time.Minute

// State is a snapshot of one browser session. A State is never modified
// after it is stored; every update stores a new one.
type State struct {
	ID        core.SessionID
	Dataset   *dataset.Dataset
	Result    *analysis.Summary // last valid result for Dataset, nil if none
	CreatedAt time.Time
	LastSeen  time.Time
}

// HasDataset reports whether a dataset has been uploaded
func (s *State) HasDataset() bool {
	return s != nil && s.Dataset != nil
}

// Store holds sessions in memory
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*State
	ttl      time.Duration
	now      func() time.Time
	logger   *internal.Logger
}

// NewStore creates an empty store. ttl <= 0 uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[core.SessionID]*State),
		ttl:      ttl,
		now:      time.Now,
		logger:   internal.DefaultLogger.Component("SessionStore"),
	}
}

// TTL returns the idle timeout
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Touch returns the session for id and marks it as seen. Unknown, expired
// or empty ids get a fresh session under a new id.
func (s *Store) Touch(id core.SessionID) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if st, ok := s.sessions[id]; ok && !s.expired(st, now) {
		next := *st
		next.LastSeen = now
		s.sessions[id] = &next
		return &next
	}

	st := &State{ID: core.NewSessionID(), CreatedAt: now, LastSeen: now}
	s.sessions[st.ID] = st
	metrics.SetActiveSessions(len(s.sessions))
	s.logger.Debug("session created", "session", st.ID)
	return st
}

// Get returns the stored session without touching it
func (s *Store) Get(id core.SessionID) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || s.expired(st, s.now()) {
		return nil, core.ErrSessionNotFound
	}
	return st, nil
}

// SetDataset replaces the session's dataset and drops its previous result
func (s *Store) SetDataset(id core.SessionID, ds *dataset.Dataset) error {
	return s.update(id, func(st *State) error {
		st.Dataset = ds
		st.Result = nil
		return nil
	})
}

// SetResult stores summary as the last valid result. It is refused with
// ErrNoDataset when ds is no longer the session's current dataset.
func (s *Store) SetResult(id core.SessionID, ds *dataset.Dataset, summary *analysis.Summary) error {
	return s.update(id, func(st *State) error {
		if st.Dataset == nil || st.Dataset != ds {
			return core.ErrNoDataset
		}
		st.Result = summary
		return nil
	})
}

// ClearDataset removes the dataset and result from the session
func (s *Store) ClearDataset(id core.SessionID) error {
	return s.update(id, func(st *State) error {
		st.Dataset = nil
		st.Result = nil
		return nil
	})
}

// Delete removes the session
func (s *Store) Delete(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	metrics.SetActiveSessions(len(s.sessions))
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, st := range s.sessions {
		if s.expired(st, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.SetActiveSessions(len(s.sessions))
	if removed > 0 {
		s.logger.Info("expired sessions evicted", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Debug("session janitor started", "interval", interval, "ttl", s.ttl)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session janitor stopped")
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// update applies fn to a copy of the session and stores the copy only when
// fn succeeds
func (s *Store) update(id core.SessionID, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st, ok := s.sessions[id]
	if !ok || s.expired(st, now) {
		return core.ErrSessionNotFound
	}

	next := *st
	if err := fn(&next); err != nil {
		return err
	}
	next.LastSeen = now
	s.sessions[id] = &next
	return nil
}

func (s *Store) expired(st *State, now time.Time) bool {
	return now.Sub(st.LastSeen) > s.ttl
}
