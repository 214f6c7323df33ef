package in

import (
	"context"

	"pdtrack/internal/modules/profile/dto"
)

type Usecase interface {
	Fetch(ctx context.Context) (dto.ProfileOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error)
}
