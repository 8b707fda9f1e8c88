package session

import (
	"sync"

	"github.com/openheritage/api/internal/model"
)

// Session holds the current signed-in user for one client connection. It is
// explicitly owned and injectable rather than a package-level singleton:
// construct one per connection, tear it down with SignOut.
//
// Lifecycle: New -> SignIn -> (role resolution, streams) -> SignOut.
type Session struct {
	mu      sync.RWMutex
	current *model.UserProfile
	subs    map[int]func(*model.UserProfile)
	nextSub int
}

// New creates an empty session with no signed-in user
func New() *Session {
	return &Session{
		subs: make(map[int]func(*model.UserProfile)),
	}
}

// Current returns the signed-in user profile, or nil if signed out
func (s *Session) Current() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SignIn sets the current user and notifies subscribers. Re-authentication
// with a different profile also notifies, so role caches can invalidate.
func (s *Session) SignIn(profile *model.UserProfile) {
	s.mu.Lock()
	s.current = profile
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(profile)
	}
}

// SignOut clears the session. Subscribers are notified synchronously before
// SignOut returns, so dependent state (role cache, open streams) is torn
// down before the caller proceeds.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.current = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// OnChange registers a callback fired on sign-in, sign-out, and
// re-authentication. The callback receives the new profile (nil on
// sign-out). The returned function unsubscribes; it is safe to call more
// than once.
func (s *Session) OnChange(fn func(*model.UserProfile)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber list; callers must hold mu. Callbacks
// run outside the lock so they may re-enter the session.
func (s *Session) snapshotSubs() []func(*model.UserProfile) {
	out := make([]func(*model.UserProfile), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
