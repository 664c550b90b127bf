package v1

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/travelmate/ai/orchestrator"
)

// storedSession is one live conversation.
type storedSession struct {
	orch     *orchestrator.Orchestrator
	lastSeen time.Time
}

// SessionStore holds explicit per-client sessions in memory.
// Each session owns its orchestrator; nothing is shared between sessions.
type SessionStore struct {
	factory  func(userID string) *orchestrator.Orchestrator
	onChange func(active int)
	now      func() time.Time
	sessions map[string]*storedSession
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewSessionStore creates a store. factory builds the orchestrator of a new session;
// ttl <= 0 disables idle expiry.
func NewSessionStore(factory func(userID string) *orchestrator.Orchestrator, ttl time.Duration) *SessionStore {
	return &SessionStore{
		factory:  factory,
		onChange: func(int) {},
		now:      time.Now,
		sessions: make(map[string]*storedSession),
		ttl:      ttl,
	}
}

// OnChange registers a callback invoked with the session count after every change.
// fn runs under the store lock, so calls arrive in order; it must not call back into the store.
func (s *SessionStore) OnChange(fn func(active int)) {
	if fn != nil {
		s.onChange = fn
	}
}

// Create starts a session for userID and returns its id.
func (s *SessionStore) Create(userID string) (string, *orchestrator.Orchestrator) {
	id := shortuuid.New()
	orch := s.factory(userID)

	s.mu.Lock()
	s.sessions[id] = &storedSession{orch: orch, lastSeen: s.now()}
	s.onChange(len(s.sessions))
	s.mu.Unlock()

	slog.Debug("session created", "session_id", id, "user_id", userID)
	return id, orch
}

// Get returns the session's orchestrator and marks it as used.
func (s *SessionStore) Get(id string) (*orchestrator.Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.orch, true
}

// Delete ends a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		s.onChange(len(s.sessions))
	}
	return ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired drops sessions idle for longer than the ttl and returns how many it removed.
func (s *SessionStore) CleanupExpired() int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.onChange(len(s.sessions))
	}
	return removed
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
func (s *SessionStore) RunCleanup(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	logger := slog.Default().With(slog.String("component", "session.cleanup"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(ctx, "cleanup stopping")
			return
		case <-ticker.C:
			if removed := s.CleanupExpired(); removed > 0 {
				logger.InfoContext(ctx, "cleaned up idle sessions",
					slog.Int("removed", removed),
					slog.Int("active", s.Len()),
				)
			}
		}
	}
}
