package service

import (
	"context"
	"sync"

	"pdtrack/internal/modules/profile/domain"
	profileout "pdtrack/internal/modules/profile/port/out"
)

// ProfileService owns the last-fetched profile snapshot. The server is the
// sole source of truth: mutations go through Update, which refetches before
// reporting success instead of patching the snapshot locally.
type ProfileService struct {
	gateway profileout.ProfileGateway

	mu       sync.Mutex
	snapshot domain.Profile
}

func NewProfileService(gateway profileout.ProfileGateway) *ProfileService {
	return &ProfileService{gateway: gateway}
}

func (s *ProfileService) Fetch(ctx context.Context) (domain.Profile, error) {
	profile, err := s.gateway.Fetch(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	s.mu.Lock()
	s.snapshot = profile
	s.mu.Unlock()
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, profile domain.Profile, password string) (domain.Profile, error) {
	if err := s.gateway.Update(ctx, profile, password); err != nil {
		return domain.Profile{}, err
	}
	return s.Fetch(ctx)
}

// Snapshot returns the last successful fetch without touching the network.
func (s *ProfileService) Snapshot() (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.snapshot.ID != "" || s.snapshot.Email != ""
}
