package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// memTokens is an in-memory TokenStore.
type memTokens struct {
	mu  sync.Mutex
	tok string
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

func (m *memTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = token
	return nil
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = ""
	return nil
}

// fakeFetcher counts whoami calls.
type fakeFetcher struct {
	calls int32
	user  model.Student
	err   error
}

func (f *fakeFetcher) Me(context.Context) (model.Student, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.user, f.err
}

// fakeNav records redirects.
type fakeNav struct {
	onAuth    bool
	redirects int32
}

func (n *fakeNav) OnAuthSurface() bool { return n.onAuth }
func (n *fakeNav) ToLogin()            { atomic.AddInt32(&n.redirects, 1) }

// fakeNotifier records notices.
type fakeNotifier struct {
	notices int32
}

func (n *fakeNotifier) Notify(string) { atomic.AddInt32(&n.notices, 1) }

func TestBootstrapWithoutTokenIsAnonymousAndOffline(t *testing.T) {
	fetch := &fakeFetcher{}
	s := New(&memTokens{}, fetch, &fakeNav{}, &fakeNotifier{})

	if got := s.State(); got != StateUnknown {
		t.Fatalf("initial state = %v, want unknown", got)
	}
	s.Bootstrap(context.Background())

	if got := s.State(); got != StateAnonymous {
		t.Errorf("state = %v, want anonymous", got)
	}
	if s.Loading() {
		t.Error("still loading after bootstrap")
	}
	if fetch.calls != 0 {
		t.Errorf("whoami called %d times without a token", fetch.calls)
	}
}

func TestBootstrapWithValidToken(t *testing.T) {
	tokens := &memTokens{tok: "stored-token"}
	fetch := &fakeFetcher{user: model.Student{ID: "s1", Username: "alice"}}
	s := New(tokens, fetch, &fakeNav{}, &fakeNotifier{})

	s.Bootstrap(context.Background())

	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", got)
	}
	user := s.User()
	if user == nil || user.Username != "alice" {
		t.Errorf("user = %+v, want alice", user)
	}
}

func TestBootstrapWithRejectedTokenLogsOut(t *testing.T) {
	tokens := &memTokens{tok: "stale-token"}
	fetch := &fakeFetcher{err: errors.New("authentication rejected")}
	nav := &fakeNav{}
	s := New(tokens, fetch, nav, &fakeNotifier{})

	s.Bootstrap(context.Background())

	if got := s.State(); got != StateAnonymous {
		t.Errorf("state = %v, want anonymous", got)
	}
	if tokens.Token() != "" {
		t.Error("token not cleared after failed bootstrap")
	}
}

func TestLoginSuccessSkipsNetwork(t *testing.T) {
	fetch := &fakeFetcher{}
	s := New(&memTokens{}, fetch, &fakeNav{}, &fakeNotifier{})

	s.LoginSuccess(model.Student{ID: "s1", Username: "bob"})

	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", got)
	}
	if fetch.calls != 0 {
		t.Errorf("whoami called %d times by LoginSuccess", fetch.calls)
	}
}

func TestConcurrentLogoutsFireSideEffectsOnce(t *testing.T) {
	tokens := &memTokens{tok: "tok"}
	nav := &fakeNav{}
	notifier := &fakeNotifier{}
	s := New(tokens, &fakeFetcher{}, nav, notifier)
	s.LoginSuccess(model.Student{ID: "s1"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Logout()
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&nav.redirects); got != 1 {
		t.Errorf("redirects = %d, want 1", got)
	}
	if got := atomic.LoadInt32(&notifier.notices); got != 1 {
		t.Errorf("notices = %d, want 1", got)
	}
	if tokens.Token() != "" {
		t.Error("token survived logout")
	}
}

func TestLogoutOnAuthSurfaceIsSilent(t *testing.T) {
	nav := &fakeNav{onAuth: true}
	notifier := &fakeNotifier{}
	s := New(&memTokens{tok: "tok"}, &fakeFetcher{}, nav, notifier)
	s.LoginSuccess(model.Student{ID: "s1"})

	s.Logout()

	if nav.redirects != 0 {
		t.Errorf("redirected %d times from auth surface", nav.redirects)
	}
	if notifier.notices != 0 {
		t.Errorf("notified %d times from auth surface", notifier.notices)
	}
}

func TestSideEffectsRearmAfterRelogin(t *testing.T) {
	nav := &fakeNav{}
	notifier := &fakeNotifier{}
	s := New(&memTokens{}, &fakeFetcher{}, nav, notifier)

	s.LoginSuccess(model.Student{ID: "s1"})
	s.Logout()
	s.Logout() // deduped
	s.LoginSuccess(model.Student{ID: "s1"})
	s.Logout()

	if got := atomic.LoadInt32(&nav.redirects); got != 2 {
		t.Errorf("redirects = %d, want 2 (one per authenticated period)", got)
	}
}

func TestLogoutThenBootstrapStaysOffline(t *testing.T) {
	tokens := &memTokens{tok: "tok"}
	fetch := &fakeFetcher{user: model.Student{ID: "s1"}}
	s := New(tokens, fetch, &fakeNav{}, &fakeNotifier{})

	s.Bootstrap(context.Background())
	if s.State() != StateAuthenticated {
		t.Fatal("expected authenticated after first bootstrap")
	}
	calls := fetch.calls

	s.Logout()
	s.Bootstrap(context.Background())

	if got := s.State(); got != StateAnonymous {
		t.Errorf("state = %v, want anonymous", got)
	}
	if fetch.calls != calls {
		t.Errorf("bootstrap after logout made %d network calls", fetch.calls-calls)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStoreAt(filepath.Join(t.TempDir(), "token"))

	if got := store.Token(); got != "" {
		t.Fatalf("fresh store token = %q, want empty", got)
	}
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := store.Token(); got != "abc123" {
		t.Errorf("token = %q, want abc123", got)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Errorf("token after clear = %q, want empty", got)
	}
}
