package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/platform/rest"
)

type fakeTokens struct {
	token       string
	invalidated bool
}

func (f *fakeTokens) Token() (string, bool) { return f.token, f.token != "" }
func (f *fakeTokens) Invalidate()           { f.invalidated = true; f.token = "" }

type fakeIDs struct{}

func (fakeIDs) New() string { return "req-1" }

func TestProtectedCallWithoutTokenFailsBeforeAnyNetworkActivity(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/devices/", nil, nil, rest.AuthRequired)
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request to reach the server, got %d", hits.Load())
	}
}

func TestBearerTokenAndRequestIDHeadersAreAttached(t *testing.T) {
	t.Parallel()
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{token: "tok-1"}, fakeIDs{})
	var out map[string]string
	if err := client.Do(context.Background(), http.MethodGet, "/users/profile", nil, &out, rest.AuthRequired); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotReqID != "req-1" {
		t.Fatalf("expected request id header, got %q", gotReqID)
	}
	if out["status"] != "ok" {
		t.Fatalf("response not decoded: %v", out)
	}
}

func TestServerErrorCarriesMessageFromBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodPost, "/auth/login", map[string]string{}, nil, rest.AuthNone)
	var serverErr *apperrors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Status != http.StatusInternalServerError || serverErr.Message != "boom" {
		t.Fatalf("unexpected server error: %+v", serverErr)
	}
}

func TestServerErrorFallsBackToTheErrorField(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"model not trained yet"}`))
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/predict", nil, nil, rest.AuthNone)
	var serverErr *apperrors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Message != "model not trained yet" {
		t.Fatalf("expected the error field to surface, got %q", serverErr.Message)
	}
}

func TestServerErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/missing", nil, nil, rest.AuthNone)
	var serverErr *apperrors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Message != "HTTP 404" {
		t.Fatalf("expected fallback message, got %q", serverErr.Message)
	}
}

func TestUnreachableServerIsReportedAsConnectivity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/devices/", nil, nil, rest.AuthNone)
	if !apperrors.IsConnectivity(err) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
}

func TestSlowServerTimesOutAsConnectivity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := rest.NewClient(srv.URL, 20*time.Millisecond, &fakeTokens{}, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/parkinson/u-1/shake-by-minute", nil, nil, rest.AuthNone)
	if !apperrors.IsConnectivity(err) {
		t.Fatalf("expected connectivity error on timeout, got %v", err)
	}
}

func TestCancelledContextIsNotMistakenForConnectivity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := rest.NewClient(srv.URL, time.Second, &fakeTokens{}, fakeIDs{})
	err := client.Do(ctx, http.MethodGet, "/devices/", nil, nil, rest.AuthNone)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if apperrors.IsConnectivity(err) {
		t.Fatalf("cancellation must not be classified as connectivity")
	}
}

func TestRejectedTokenInvalidatesSessionAndReportsExpiry(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	client := rest.NewClient(srv.URL, time.Second, tokens, fakeIDs{})
	err := client.Do(context.Background(), http.MethodGet, "/users/profile", nil, nil, rest.AuthRequired)
	if !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !tokens.invalidated {
		t.Fatalf("expected token source to be invalidated")
	}
	if _, ok := tokens.Token(); ok {
		t.Fatalf("expected no token after invalidation")
	}
}

func TestUnauthorizedOnPublicEndpointStaysAServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{}
	client := rest.NewClient(srv.URL, time.Second, tokens, fakeIDs{})
	err := client.Do(context.Background(), http.MethodPost, "/auth/login", map[string]string{}, nil, rest.AuthNone)
	var serverErr *apperrors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError for public 401, got %v", err)
	}
	if tokens.invalidated {
		t.Fatalf("a failed login must not invalidate anything")
	}
}
