package in

import (
	"context"

	"pdtrack/internal/modules/session/dto"
)

type Usecase interface {
	Restore(ctx context.Context) dto.SessionOutput
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) dto.SessionOutput
	IsAuthenticated() bool
}
