package bootstrap_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"pdtrack/internal/bootstrap"
	"pdtrack/internal/platform/config"
	apperrors "pdtrack/internal/platform/errors"
)

// fakeBackend is a minimal in-memory stand-in for the real API: register,
// login, and the device collection, all gated on the bearer token.
type fakeBackend struct {
	mu         sync.Mutex
	registered map[string]string
	token      string
	revoked    bool
	devices    []map[string]string
	nextID     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{registered: map[string]string{}, token: "tok-live", nextID: 1}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.registered[req.Email] = req.Password
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created"}`))
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		password, ok := b.registered[req["email"]]
		b.mu.Unlock()
		if !ok || password != req["password"] {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": b.token,
			"user":  map[string]string{"id": "u-1"},
		})
	})
	mux.HandleFunc("/devices/", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(b.devices)
		case http.MethodPost:
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			device := map[string]string{
				"id":     "d-" + strconv.Itoa(b.nextID),
				"name":   req["name"],
				"type":   req["device_type"],
				"status": "offline",
			}
			b.nextID++
			b.devices = append(b.devices, device)
			_ = json.NewEncoder(w).Encode(device)
		}
	})
	return mux
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.revoked && r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *fakeBackend) revoke() {
	b.mu.Lock()
	b.revoked = true
	b.mu.Unlock()
}

func newApp(t *testing.T, backendURL string) *bootstrap.App {
	t.Helper()
	dir := t.TempDir()
	app, err := bootstrap.New(config.Config{
		BackendURL: backendURL,
		Timeout:    2 * time.Second,
		DataDir:    dir,
		DBPath:     filepath.Join(dir, "credentials.db"),
		KeyPath:    filepath.Join(dir, "credentials.key"),
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return app
}

func TestRegisterLoginAndDeviceLifecycleAgainstAFakeBackend(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()
	app := newApp(t, srv.URL)
	ctx := context.Background()

	if app.SessionCLI.Whoami(ctx).Authenticated {
		t.Fatalf("fresh install must start unauthenticated")
	}

	// Devices are unreachable before login, without any network traffic.
	if _, err := app.DevicesCLI.List(ctx); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated before login, got %v", err)
	}

	if err := app.SessionCLI.Register(ctx, "Ana", "ana@example.com", "pw", 63, "levodopa"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if app.SessionCLI.Whoami(ctx).Authenticated {
		t.Fatalf("register must not log in")
	}

	out, err := app.SessionCLI.Login(ctx, "ana@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !out.Authenticated || out.UserID != "u-1" {
		t.Fatalf("unexpected login output: %+v", out)
	}

	devices, err := app.DevicesCLI.Add(ctx, "Watch", "wearable")
	if err != nil {
		t.Fatalf("add device: %v", err)
	}
	count := 0
	for _, d := range devices {
		if d.Name == "Watch" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected the new device exactly once, got %d", count)
	}

	if err := app.SessionCLI.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := app.DevicesCLI.List(ctx); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestSessionSurvivesARestartAndExpiryClearsIt(t *testing.T) {
	t.Parallel()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.Config{
		BackendURL: srv.URL,
		Timeout:    2 * time.Second,
		DataDir:    dir,
		DBPath:     filepath.Join(dir, "credentials.db"),
		KeyPath:    filepath.Join(dir, "credentials.key"),
	}
	ctx := context.Background()

	first, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := first.SessionCLI.Register(ctx, "Ana", "ana@example.com", "pw", 63, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := first.SessionCLI.Login(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A second bootstrap over the same data dir restores the session.
	second, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if whoami := second.SessionCLI.Whoami(ctx); !whoami.Authenticated || whoami.UserID != "u-1" {
		t.Fatalf("session not restored: %+v", whoami)
	}

	// Once the backend rejects the token the session is gone for good.
	backend.revoke()
	if _, err := second.DevicesCLI.List(ctx); !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if second.SessionCLI.Whoami(ctx).Authenticated {
		t.Fatalf("expiry must clear the session")
	}

	third, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("third bootstrap: %v", err)
	}
	if third.SessionCLI.Whoami(ctx).Authenticated {
		t.Fatalf("the cleared session must not come back after a restart")
	}
}
