package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"pdtrack/internal/modules/session/domain"
	sessionout "pdtrack/internal/modules/session/port/out"
)

// SessionService is the sole owner of the in-memory session. Every other
// component reads it through this type, and the REST client reads the token
// through Token() on each request, so a Clear or Invalidate happens-before
// any subsequent protected call.
type SessionService struct {
	store sessionout.CredentialStore

	mu      sync.RWMutex
	session domain.Session
}

func NewSessionService(store sessionout.CredentialStore) *SessionService {
	return &SessionService{store: store}
}

// Restore loads persisted credentials into memory. Any store failure degrades
// to an unauthenticated session rather than blocking startup.
func (s *SessionService) Restore(ctx context.Context) domain.Session {
	token, ok, err := s.store.Get(ctx, domain.KeyToken)
	if err != nil || !ok {
		return s.replace(domain.Session{})
	}
	userID, _, err := s.store.Get(ctx, domain.KeyUserID)
	if err != nil {
		return s.replace(domain.Session{})
	}
	if userID == "" {
		userID = subjectOf(token)
	}
	return s.replace(domain.Session{Token: token, UserID: userID})
}

// Establish persists a freshly issued token and makes it the current session.
func (s *SessionService) Establish(ctx context.Context, token, userID string) (domain.Session, error) {
	if userID == "" {
		userID = subjectOf(token)
	}
	if err := s.store.Set(ctx, domain.KeyToken, token); err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Set(ctx, domain.KeyUserID, userID); err != nil {
		return domain.Session{}, err
	}
	return s.replace(domain.Session{Token: token, UserID: userID}), nil
}

// Clear removes the persisted credentials and empties the in-memory session.
func (s *SessionService) Clear(ctx context.Context) error {
	s.replace(domain.Session{})
	if err := s.store.Remove(ctx, domain.KeyToken); err != nil {
		return err
	}
	return s.store.Remove(ctx, domain.KeyUserID)
}

func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token implements rest.TokenSource.
func (s *SessionService) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token, s.session.Token != ""
}

// Invalidate implements rest.TokenSource. It is called by the REST client on
// a 401/403 and must leave no trace of the rejected token, in memory or on
// disk. Store errors are ignored; memory is cleared regardless.
func (s *SessionService) Invalidate() {
	_ = s.Clear(context.Background())
}

func (s *SessionService) replace(session domain.Session) domain.Session {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return session
}

// subjectOf extracts a user id from the token's claims without verifying the
// signature; the backend remains the authority, this is display/fallback only.
func subjectOf(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	for _, key := range []string{"sub", "user_id", "id"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
