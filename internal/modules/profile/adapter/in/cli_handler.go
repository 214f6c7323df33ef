package in

import (
	"context"

	"pdtrack/internal/modules/profile/dto"
	profilein "pdtrack/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.ProfileOutput, error) {
	return h.usecase.Fetch(ctx)
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error) {
	return h.usecase.Update(ctx, input)
}
