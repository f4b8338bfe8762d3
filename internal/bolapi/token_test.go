package bolapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gunvolt24/bol_export/internal/bolapi"
	"github.com/Gunvolt24/bol_export/pkg/retry"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// noSleep — политика повторов без реальных ожиданий.
func noSleep() retry.Policy {
	return retry.Policy{Sleep: func(context.Context, time.Duration) error { return nil }}
}

func TestToken_GrantAndCache(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		grants++
		if r.Method != http.MethodPost {
			t.Errorf("want POST, got %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-1" || pass != "secret-1" {
			t.Errorf("basic auth wrong: %q %q ok=%v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type wrong: %v", r.PostForm)
		}
		fmt.Fprint(w, `{"access_token":"tok-1","expires_in":600}`)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "client-1", "secret-1", noSleep(), noopLogger{})

	for i := 0; i < 3; i++ {
		got, err := tm.Token(context.Background())
		if err != nil {
			t.Fatalf("Token error: %v", err)
		}
		if got != "tok-1" {
			t.Fatalf("want tok-1, got %q", got)
		}
	}

	// Повторные обращения в пределах срока жизни — без сетевых вызовов.
	if grants != 1 {
		t.Fatalf("want exactly 1 grant, got %d", grants)
	}
}

// Токен ближе 30 секунд к истечению не переиспользуется.
func TestToken_NearExpiryForcesRefresh(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		grants++
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":20}`, grants)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "c", "s", noSleep(), noopLogger{})

	first, err := tm.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	second, err := tm.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}

	if grants != 2 {
		t.Fatalf("want 2 grants for a 20s token, got %d", grants)
	}
	if first == second {
		t.Fatalf("refresh must replace the token, got %q twice", first)
	}
}

func TestToken_DefaultExpiresIn(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		grants++
		fmt.Fprint(w, `{"access_token":"tok-1"}`)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "c", "s", noSleep(), noopLogger{})

	// Дефолтные 300s достаточно дальше 30-секундного буфера: кэш работает.
	if _, err := tm.Token(context.Background()); err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if _, err := tm.Token(context.Background()); err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if grants != 1 {
		t.Fatalf("want 1 grant with default expiry, got %d", grants)
	}
}

// 401 — сразу ErrAuth, никаких повторов.
func TestToken_UnauthorizedFailsFast(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		grants++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "c", "bad", noSleep(), noopLogger{})

	_, err := tm.Token(context.Background())
	if !errors.Is(err, bolapi.ErrAuth) {
		t.Fatalf("want ErrAuth, got %v", err)
	}
	if grants != 1 {
		t.Fatalf("401 must not be retried, got %d grants", grants)
	}
}

// Прочие сбои эндпоинта повторяются до исчерпания попыток.
func TestToken_ServerErrorRetriedThenErrAuth(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		grants++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "c", "s", noSleep(), noopLogger{})

	_, err := tm.Token(context.Background())
	if !errors.Is(err, bolapi.ErrAuth) {
		t.Fatalf("want ErrAuth after retries, got %v", err)
	}
	if grants != retry.DefaultAttempts {
		t.Fatalf("want %d attempts, got %d", retry.DefaultAttempts, grants)
	}
}

func TestToken_TransientThenSuccess(t *testing.T) {
	grants := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		grants++
		if grants < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok-ok","expires_in":300}`)
	}))
	defer srv.Close()

	tm := bolapi.NewTokenManager(srv.Client(), srv.URL, "c", "s", noSleep(), noopLogger{})

	got, err := tm.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if got != "tok-ok" || grants != 3 {
		t.Fatalf("want tok-ok on 3rd attempt, got %q after %d grants", got, grants)
	}
}
