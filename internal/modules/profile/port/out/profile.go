package out

import (
	"context"

	"pdtrack/internal/modules/profile/domain"
)

type ProfileGateway interface {
	Fetch(ctx context.Context) (domain.Profile, error)
	Update(ctx context.Context, profile domain.Profile, password string) error
}
