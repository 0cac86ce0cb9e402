package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestBearerAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"s1","username":"alice"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok-123"))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestNoBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"t","token_type":"bearer","role":"student"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	if _, err := c.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q on anonymous request", gotAuth)
	}
}

func TestValidationErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"You have already checked in today!"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	_, err := c.CheckIn(context.Background())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.Detail != "You have already checked in today!" {
		t.Errorf("detail = %q", verr.Detail)
	}
	if verr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", verr.Status)
	}
}

func TestServerFaultClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	_, err := c.MyHistory(context.Background())

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *ServerError", err)
	}
	if serr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", serr.Status)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, staticTokens("tok"))
	_, err := c.Me(context.Background())

	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
}

func TestAuthRejectHookFiresPer401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	var hookCalls int32
	c := New(srv.URL, staticTokens("stale"))
	c.OnAuthReject(func() { atomic.AddInt32(&hookCalls, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Me(context.Background())
			var aerr *AuthError
			if !errors.As(err, &aerr) {
				t.Errorf("err = %v, want *AuthError", err)
			}
		}()
	}
	wg.Wait()

	// The hook fires on every 401; the session guard behind it dedupes the
	// user-visible side effects.
	if got := atomic.LoadInt32(&hookCalls); got != 5 {
		t.Errorf("hook calls = %d, want 5", got)
	}
}

func TestNon401ErrorsSkipAuthHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"tasks too short"}`))
	}))
	defer srv.Close()

	var hookCalls int32
	c := New(srv.URL, staticTokens("tok"))
	c.OnAuthReject(func() { atomic.AddInt32(&hookCalls, 1) })

	if _, err := c.CheckOut(context.Background(), "x", "", ""); err == nil {
		t.Fatal("expected error")
	}
	if hookCalls != 0 {
		t.Errorf("auth hook fired %d times on 422", hookCalls)
	}
}

func TestDownloadReturnsRawCSV(t *testing.T) {
	csv := "Date:,2026-03-10\nID,Name\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") != "2026-03-10" {
			t.Errorf("date query = %q", r.URL.Query().Get("date"))
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	data, err := c.DownloadDailyReport(context.Background(), "2026-03-10")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != csv {
		t.Errorf("body = %q, want %q", data, csv)
	}
}

func TestLoginSendsFormEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "pw" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","role":"student"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken != "tok" || res.Role != "student" {
		t.Errorf("result = %+v", res)
	}
}
