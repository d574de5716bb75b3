// Package session keeps per-user search context so concurrent users never
// share history or filters.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/history"
)

// Session is the state owned by one user.
type Session struct {
	ID      string
	History *history.Tracker

	mu        sync.Mutex
	lastQuery *domain.SearchQuery
	lastSeen  time.Time
}

// LastQuery returns the most recent query run in this session, if any.
func (s *Session) LastQuery() (domain.SearchQuery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastQuery == nil {
		return domain.SearchQuery{}, false
	}
	return *s.lastQuery, true
}

// SetLastQuery remembers the filters of the latest search.
func (s *Session) SetLastQuery(q domain.SearchQuery) {
	s.mu.Lock()
	s.lastQuery = &q
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// DefaultMaxSessions caps live sessions when no limit is configured.
const DefaultMaxSessions = 10000

// Store maps session ids to sessions, evicting sessions idle longer than ttl.
// Once maxSessions are live the least recently seen one makes room.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// NewStore returns an empty store; ttl <= 0 disables idle eviction and
// maxSessions <= 0 means DefaultMaxSessions.
func NewStore(ttl time.Duration, maxSessions int) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		sessions:    map[string]*Session{},
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Get returns the live session for id. Any other id, including a well-formed
// but unknown one, gets a new session under a server-generated id. The
// boolean reports whether a new session was created.
func (s *Store) Get(id string) (*Session, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(now)

	if sess, ok := s.sessions[id]; ok {
		sess.touch(now)
		return sess, false
	}

	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked(now)
	}

	sess := &Session{ID: uuid.NewString(), History: history.NewTracker(history.DefaultCapacity), lastSeen: now}
	s.sessions[sess.ID] = sess
	return sess, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and reports how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(now)
}

// TTL is the idle period after which sessions are dropped; zero means never.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) evictLocked(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *Store) evictOldestLocked(now time.Time) {
	var (
		oldest string
		idle   time.Duration = -1
	)
	for id, sess := range s.sessions {
		if d := sess.idleSince(now); d > idle {
			oldest, idle = id, d
		}
	}
	delete(s.sessions, oldest)
}
