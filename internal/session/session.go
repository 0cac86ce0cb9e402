// Package session owns the process-wide authentication state: the persisted
// bearer token and the in-memory user. It is the only writer of both; every
// other component takes snapshot reads.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// State of the session. Unknown exists only until the first Bootstrap
// resolves; afterwards the session never returns to it.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Token() string
	Save(token string) error
	Clear() error
}

// ProfileFetcher is the whoami call used to validate a stored token.
// *api.Client satisfies it.
type ProfileFetcher interface {
	Me(ctx context.Context) (model.Student, error)
}

// Navigator abstracts the surface the user is on, so forced redirection
// goes through the application's own navigation layer.
type Navigator interface {
	// OnAuthSurface reports whether the user is already on a public auth
	// surface such as the login screen.
	OnAuthSurface() bool
	ToLogin()
}

// Notifier shows a user-visible notice.
type Notifier interface {
	Notify(message string)
}

// Session is the single source of truth for who is logged in.
type Session struct {
	mu    sync.Mutex
	state State
	user  *model.Student

	tokens TokenStore
	fetch  ProfileFetcher
	nav    Navigator
	notify Notifier

	// expired guards the redirect and notice so a burst of concurrent 401s
	// produces them exactly once. Reset on the next successful login.
	expired atomic.Bool
}

// New creates a session in the Unknown state. nav and notify may be nil for
// headless use.
func New(tokens TokenStore, fetch ProfileFetcher, nav Navigator, notify Notifier) *Session {
	return &Session{
		state:  StateUnknown,
		tokens: tokens,
		fetch:  fetch,
		nav:    nav,
		notify: notify,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether the first Bootstrap has not yet resolved.
func (s *Session) Loading() bool {
	return s.State() == StateUnknown
}

// User returns a snapshot of the current user, nil when not authenticated.
func (s *Session) User() *model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Bootstrap resolves the initial state from the persisted token. No token
// means Anonymous with no network call. A stored token is validated against
// the whoami endpoint; any failure falls through to Logout.
func (s *Session) Bootstrap(ctx context.Context) {
	if s.tokens.Token() == "" {
		s.mu.Lock()
		s.user = nil
		s.state = StateAnonymous
		s.mu.Unlock()
		return
	}

	user, err := s.fetch.Me(ctx)
	if err != nil {
		s.Logout()
		return
	}

	s.LoginSuccess(user)
}

// LoginSuccess marks the session authenticated without a network call. The
// caller has already persisted the new token.
func (s *Session) LoginSuccess(user model.Student) {
	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.expired.Store(false)
}

// Logout clears the token and user. It is idempotent, never fails, and is
// safe to call from a failed-request handler. The redirect and the
// "session expired" notice fire at most once per authenticated period, and
// not at all when the user is already on an auth surface.
func (s *Session) Logout() {
	s.mu.Lock()
	_ = s.tokens.Clear()
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if s.nav == nil || s.nav.OnAuthSurface() {
		return
	}
	if !s.expired.CompareAndSwap(false, true) {
		return
	}
	if s.notify != nil {
		s.notify.Notify("Session expired. Please log in again.")
	}
	s.nav.ToLogin()
}
