package in

import (
	"context"

	"pdtrack/internal/modules/tracking/dto"
	trackingin "pdtrack/internal/modules/tracking/port/in"
)

type CLIHandler struct {
	usecase trackingin.Usecase
}

func NewCLIHandler(usecase trackingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context) (dto.RecordOutput, error) {
	return h.usecase.RecordTremor(ctx)
}

func (h CLIHandler) History(ctx context.Context, day string) ([]dto.ShakePointOutput, error) {
	return h.usecase.ShakeHistory(ctx, day)
}

func (h CLIHandler) LogMedication(ctx context.Context) error {
	return h.usecase.LogMedication(ctx)
}

func (h CLIHandler) MedicationResponses(ctx context.Context) ([]dto.MedicationResponseOutput, error) {
	return h.usecase.MedicationResponses(ctx)
}

func (h CLIHandler) Train(ctx context.Context) error {
	return h.usecase.TrainProgressModel(ctx)
}

func (h CLIHandler) Predict(ctx context.Context) (dto.PredictionOutput, error) {
	return h.usecase.PredictProgress(ctx)
}
