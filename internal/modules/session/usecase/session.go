package usecase

import (
	"context"
	"errors"
	"strings"

	"pdtrack/internal/modules/session/dto"
	sessionin "pdtrack/internal/modules/session/port/in"
	sessionout "pdtrack/internal/modules/session/port/out"
	"pdtrack/internal/modules/session/service"
	apperrors "pdtrack/internal/platform/errors"
)

type Interactor struct {
	svc     *service.SessionService
	gateway sessionout.AuthGateway
}

func NewInteractor(svc *service.SessionService, gateway sessionout.AuthGateway) sessionin.Usecase {
	return &Interactor{svc: svc, gateway: gateway}
}

func (i *Interactor) Restore(ctx context.Context) dto.SessionOutput {
	session := i.svc.Restore(ctx)
	return dto.SessionOutput{Authenticated: session.Authenticated(), UserID: session.UserID}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	if strings.TrimSpace(input.Email) == "" {
		return dto.SessionOutput{}, &apperrors.ValidationError{Field: "email", Reason: "is required"}
	}
	if input.Password == "" {
		return dto.SessionOutput{}, &apperrors.ValidationError{Field: "password", Reason: "is required"}
	}

	result, err := i.gateway.Login(ctx, input.Email, input.Password)
	if err != nil {
		return dto.SessionOutput{}, asAuthError(err)
	}
	if result.Token == "" {
		return dto.SessionOutput{}, &apperrors.AuthError{Message: "login response carried no token"}
	}

	session, err := i.svc.Establish(ctx, result.Token, result.UserID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{Authenticated: true, UserID: session.UserID}, nil
}

// Register creates the account but deliberately does not authenticate, even
// when the backend volunteers a token; the caller logs in explicitly.
func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return &apperrors.ValidationError{Field: "email", Reason: "is required"}
	}
	if input.Password == "" {
		return &apperrors.ValidationError{Field: "password", Reason: "is required"}
	}
	_, err := i.gateway.Register(ctx, input.Name, input.Email, input.Password, input.Age, input.Medications)
	if err != nil {
		return asAuthError(err)
	}
	return nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func (i *Interactor) Current(_ context.Context) dto.SessionOutput {
	session := i.svc.Current()
	return dto.SessionOutput{Authenticated: session.Authenticated(), UserID: session.UserID}
}

func (i *Interactor) IsAuthenticated() bool {
	return i.svc.Current().Authenticated()
}

// asAuthError reshapes an HTTP rejection into the auth taxonomy while letting
// connectivity failures through untouched.
func asAuthError(err error) error {
	var serverErr *apperrors.ServerError
	if errors.As(err, &serverErr) {
		return &apperrors.AuthError{Message: serverErr.Message}
	}
	return err
}
