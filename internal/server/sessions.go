package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abhisek/grammarstudio/internal/studio"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

const sessionKey = "grammarstudio.session"

// Session is one browser session and its studio.
type Session struct {
	ID       uuid.UUID
	Studio   *studio.Studio
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Sessions holds the in-memory studios, one per browser session.
// Sessions idle for longer than ttl are dropped on the next create.
type Sessions struct {
	newStudio func() *studio.Studio
	perMinute int
	burst     int
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessions creates a registry. perMinute <= 0 disables rate limiting.
func NewSessions(newStudio func() *studio.Studio, perMinute, burst int, ttl time.Duration) *Sessions {
	return &Sessions{
		newStudio: newStudio,
		perMinute: perMinute,
		burst:     max(burst, 1),
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Create starts a new locked studio.
func (s *Sessions) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()

	sess := &Session{
		ID:       uuid.New(),
		Studio:   s.newStudio(),
		lastSeen: s.now(),
	}
	if s.perMinute > 0 {
		sess.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.burst)
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session and marks it as used.
func (s *Sessions) Get(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Resolve loads the :id session into the gin context.
func (s *Sessions) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
			return
		}
		sess, err := s.Get(id)
		if err != nil {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
