package usecase

import (
	"context"
	"strings"

	"pdtrack/internal/modules/profile/domain"
	"pdtrack/internal/modules/profile/dto"
	profilein "pdtrack/internal/modules/profile/port/in"
	"pdtrack/internal/modules/profile/service"
	apperrors "pdtrack/internal/platform/errors"
)

type Interactor struct {
	svc *service.ProfileService
}

func NewInteractor(svc *service.ProfileService) profilein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Fetch(ctx context.Context) (dto.ProfileOutput, error) {
	profile, err := i.svc.Fetch(ctx)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return dto.ProfileOutput{}, &apperrors.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(input.Email) == "" {
		return dto.ProfileOutput{}, &apperrors.ValidationError{Field: "email", Reason: "is required"}
	}
	profile := domain.Profile{
		Name:        input.Name,
		Email:       input.Email,
		Age:         input.Age,
		Medications: input.Medications,
	}
	updated, err := i.svc.Update(ctx, profile, input.Password)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(updated), nil
}

func toOutput(p domain.Profile) dto.ProfileOutput {
	return dto.ProfileOutput{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Age:         p.Age,
		Medications: p.Medications,
	}
}
