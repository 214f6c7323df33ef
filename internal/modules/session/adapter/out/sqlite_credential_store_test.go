package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	sessionadapter "pdtrack/internal/modules/session/adapter/out"
)

func newStorePaths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "credentials.db"), filepath.Join(dir, "credentials.key")
}

func TestSetGetRemoveRoundTrip(t *testing.T) {
	t.Parallel()
	dbPath, keyPath := newStorePaths(t)
	store, err := sessionadapter.NewSQLiteCredentialStore(dbPath, keyPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "userToken"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "userToken", "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "userToken", "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := store.Get(ctx, "userToken")
	if err != nil || !ok || value != "tok-2" {
		t.Fatalf("expected tok-2, got %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Remove(ctx, "userToken"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "userToken"); ok {
		t.Fatalf("expected key gone after remove")
	}
}

func TestValuesAreSealedAtRest(t *testing.T) {
	t.Parallel()
	dbPath, keyPath := newStorePaths(t)
	store, err := sessionadapter.NewSQLiteCredentialStore(dbPath, keyPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	const secret = "eyJhbGciOiJIUzI1NiJ9.very-secret-token"
	if err := store.Set(context.Background(), "userToken", secret); err != nil {
		t.Fatalf("set: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	var stored string
	if err := db.QueryRow(`SELECT value FROM credentials WHERE key = 'userToken'`).Scan(&stored); err != nil {
		t.Fatalf("read raw value: %v", err)
	}
	if stored == secret || strings.Contains(stored, "very-secret-token") {
		t.Fatalf("token stored in cleartext: %q", stored)
	}
}

func TestReopeningWithTheSameKeyFileReadsBack(t *testing.T) {
	t.Parallel()
	dbPath, keyPath := newStorePaths(t)
	first, err := sessionadapter.NewSQLiteCredentialStore(dbPath, keyPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.Set(context.Background(), "userId", "u-7"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := sessionadapter.NewSQLiteCredentialStore(dbPath, keyPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	value, ok, err := second.Get(context.Background(), "userId")
	if err != nil || !ok || value != "u-7" {
		t.Fatalf("expected u-7 after reopen, got %q ok=%v err=%v", value, ok, err)
	}
}
