// Package session keeps short-lived per-user conversational context: the
// most recently presented station list and a follow-up classifier.
package session

import (
	"sync"
	"time"

	"github.com/randytsao24/fuelfinder/internal/models"
)

// DefaultTTL is how long an idle session keeps its remembered stations.
const DefaultTTL = 30 * time.Minute

// Session is one user's remembered search context. Sessions are best-effort
// caches, not a system of record: concurrent writes are last-writer-wins.
type Session struct {
	UserID       string
	LastStations []models.RankedStation
	UpdatedAt    time.Time
}

// Store is a per-user session map with lazy TTL expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store. A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the user's session, creating it lazily. A session idle past
// the TTL has its stations cleared before being returned. Every access
// refreshes UpdatedAt.
func (s *Store) Get(userID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, UpdatedAt: now}
		s.sessions[userID] = sess
		return *sess
	}

	if now.Sub(sess.UpdatedAt) > s.ttl {
		sess.LastStations = nil
	}
	sess.UpdatedAt = now
	return *sess
}

// Remember overwrites the user's remembered station list.
func (s *Store) Remember(userID string, stations []models.RankedStation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID}
		s.sessions[userID] = sess
	}
	sess.LastStations = stations
	sess.UpdatedAt = now
}

// Reset drops the user's session entirely. Returns true if one existed.
func (s *Store) Reset(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
