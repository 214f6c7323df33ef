package out

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	_ "modernc.org/sqlite"

	sessionout "pdtrack/internal/modules/session/port/out"
)

const keySize = 32

// SQLiteCredentialStore persists the token and user id in a local SQLite
// database, sealed with a per-install secretbox key kept in a 0600 file next
// to it. Values are useless without the key file; the key file is useless
// without the database.
type SQLiteCredentialStore struct {
	db  *sql.DB
	key [keySize]byte
}

func NewSQLiteCredentialStore(dbPath, keyPath string) (sessionout.CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open credential db: %w", err)
	}
	store := &SQLiteCredentialStore{db: db, key: key}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteCredentialStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS credentials (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create credentials table: %w", err)
	}
	return nil
}

func (s *SQLiteCredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	var sealed string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential %q: %w", key, err)
	}
	value, err := s.open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("unseal credential %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteCredentialStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(value)
	if err != nil {
		return fmt.Errorf("seal credential %q: %w", key, err)
	}
	const stmt = `
INSERT INTO credentials (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`
	if _, err := s.db.ExecContext(ctx, stmt, key, sealed); err != nil {
		return fmt.Errorf("write credential %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteCredentialStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove credential %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteCredentialStore) seal(value string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *SQLiteCredentialStore) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	if len(raw) < 24 {
		return "", fmt.Errorf("sealed value too short")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	value, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("authentication tag mismatch")
	}
	return string(value), nil
}

func loadOrCreateKey(path string) ([keySize]byte, error) {
	var key [keySize]byte
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != keySize {
			return key, fmt.Errorf("credential key file %s is corrupt", path)
		}
		copy(key[:], b)
		return key, nil
	}
	if !os.IsNotExist(err) {
		return key, fmt.Errorf("read credential key: %w", err)
	}
	if _, err := rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("generate credential key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return key, fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return key, fmt.Errorf("write credential key: %w", err)
	}
	return key, nil
}
