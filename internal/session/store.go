package session

import (
	"sync"
	"time"

	"trade-gate/internal/logger"
)

// Store holds at most one live session per user behind a single mutex;
// sessions of different users never interact.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Put replaces any existing session for the user (last start wins).
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Touch refreshes the session's last-activity stamp. It takes the store lock
// so the write is ordered against the sweeper's reads.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.LastActivity = time.Now()
	}
}

// ActiveUserIDs lists users with a live session; used by the reminder job.
func (s *Store) ActiveUserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper evicts sessions idle longer than ttl. A zero ttl disables
// expiry entirely (abandoned sessions then live until process restart).
func (s *Store) StartSweeper(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	go func() {
		for range time.Tick(5 * time.Minute) {
			s.sweep(ttl)
		}
	}()
}

func (s *Store) sweep(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if time.Since(sess.LastActivity) > ttl {
			delete(s.sessions, id)
			logger.Info("session expired", "user", id, "stock", sess.Stock, "phase", sess.Phase())
		}
	}
}
