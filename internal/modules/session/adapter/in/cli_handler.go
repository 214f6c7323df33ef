package in

import (
	"context"

	"pdtrack/internal/modules/session/dto"
	sessionin "pdtrack/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, name, email, password string, age int, medications string) error {
	return h.usecase.Register(ctx, dto.RegisterInput{
		Name:        name,
		Email:       email,
		Password:    password,
		Age:         age,
		Medications: medications,
	})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Whoami(ctx context.Context) dto.SessionOutput {
	return h.usecase.Current(ctx)
}
