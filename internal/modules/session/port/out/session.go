package out

import "context"

// CredentialStore is the secure key-value store holding the token and user id
// across restarts. Get returns ("", false, nil) for an absent key.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AuthResult is the backend's answer to a credential exchange. Token may be
// empty on register; registration does not itself authenticate.
type AuthResult struct {
	Token  string
	UserID string
}

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, name, email, password string, age int, medications string) (AuthResult, error)
}
