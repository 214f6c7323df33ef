package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sessionadapter "pdtrack/internal/modules/session/adapter/out"
	"pdtrack/internal/platform/rest"
)

type noTokens struct{}

func (noTokens) Token() (string, bool) { return "", false }
func (noTokens) Invalidate()           {}

type staticIDs struct{}

func (staticIDs) New() string { return "req-test" }

func TestLoginPostsCredentialsAndParsesTokenWithUserID(t *testing.T) {
	t.Parallel()
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u-5"}}`))
	}))
	defer srv.Close()

	gateway := sessionadapter.NewRESTAuthGateway(rest.NewClient(srv.URL, time.Second, noTokens{}, staticIDs{}))
	result, err := gateway.Login(context.Background(), "ana@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotPath != "/auth/login" {
		t.Fatalf("expected /auth/login, got %s", gotPath)
	}
	if gotBody["email"] != "ana@example.com" || gotBody["password"] != "pw" {
		t.Fatalf("unexpected login body: %v", gotBody)
	}
	if result.Token != "tok-1" || result.UserID != "u-5" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRegisterUsesTheBackendsLegacyFieldNames(t *testing.T) {
	t.Parallel()
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"token":""}`))
	}))
	defer srv.Close()

	gateway := sessionadapter.NewRESTAuthGateway(rest.NewClient(srv.URL, time.Second, noTokens{}, staticIDs{}))
	_, err := gateway.Register(context.Background(), "Ana Pop", "ana@example.com", "pw", 63, "levodopa,amantadine")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if gotBody["nume"] != "Ana Pop" {
		t.Fatalf("expected nume field, got %v", gotBody)
	}
	if gotBody["medicamente"] != "levodopa,amantadine" {
		t.Fatalf("expected medicamente field, got %v", gotBody)
	}
	if gotBody["age"] != float64(63) {
		t.Fatalf("expected age 63, got %v", gotBody["age"])
	}
}
