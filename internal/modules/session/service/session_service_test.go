package service_test

import (
	"context"
	"encoding/base64"
	"testing"

	"pdtrack/internal/modules/session/domain"
	"pdtrack/internal/modules/session/service"
)

type fakeStore struct {
	values map[string]string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.values, key)
	return nil
}

func unsignedToken(claims string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	sig := base64.RawURLEncoding.EncodeToString([]byte("sig"))
	return header + "." + payload + "." + sig
}

func TestEstablishPersistsAndRestoreRoundTrips(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := service.NewSessionService(store)

	session, err := svc.Establish(context.Background(), "tok-1", "u-42")
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	if !session.Authenticated() || session.UserID != "u-42" {
		t.Fatalf("unexpected session after establish: %+v", session)
	}

	restored := service.NewSessionService(store).Restore(context.Background())
	if restored.Token != "tok-1" || restored.UserID != "u-42" {
		t.Fatalf("restore did not round-trip: %+v", restored)
	}
}

func TestRestoreDerivesUserIDFromTokenClaims(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.values[domain.KeyToken] = unsignedToken(`{"id":7}`)

	restored := service.NewSessionService(store).Restore(context.Background())
	if restored.UserID != "7" {
		t.Fatalf("expected user id from claims, got %q", restored.UserID)
	}
}

func TestRestoreFailsOpenToUnauthenticated(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.err = context.DeadlineExceeded

	restored := service.NewSessionService(store).Restore(context.Background())
	if restored.Authenticated() {
		t.Fatalf("a broken store must not produce an authenticated session")
	}
}

func TestInvalidateLeavesNoTraceOfTheToken(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := service.NewSessionService(store)
	if _, err := svc.Establish(context.Background(), "tok-1", "u-1"); err != nil {
		t.Fatalf("establish: %v", err)
	}

	svc.Invalidate()

	if _, ok := svc.Token(); ok {
		t.Fatalf("token must be gone from memory")
	}
	if _, ok := store.values[domain.KeyToken]; ok {
		t.Fatalf("token must be gone from the store")
	}
	if svc.Current().Authenticated() {
		t.Fatalf("session must be unauthenticated after invalidation")
	}
}

func TestTokenReflectsTheLatestSessionState(t *testing.T) {
	t.Parallel()
	svc := service.NewSessionService(newFakeStore())
	if _, ok := svc.Token(); ok {
		t.Fatalf("no token expected before establish")
	}
	if _, err := svc.Establish(context.Background(), "tok-2", "u-2"); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if token, ok := svc.Token(); !ok || token != "tok-2" {
		t.Fatalf("expected tok-2, got %q (%v)", token, ok)
	}
	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := svc.Token(); ok {
		t.Fatalf("no token expected after clear")
	}
}
