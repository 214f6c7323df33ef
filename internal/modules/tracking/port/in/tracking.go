package in

import (
	"context"

	"pdtrack/internal/modules/tracking/dto"
)

type Usecase interface {
	RecordTremor(ctx context.Context) (dto.RecordOutput, error)
	ShakeHistory(ctx context.Context, day string) ([]dto.ShakePointOutput, error)
	LogMedication(ctx context.Context) error
	MedicationResponses(ctx context.Context) ([]dto.MedicationResponseOutput, error)
	TrainProgressModel(ctx context.Context) error
	PredictProgress(ctx context.Context) (dto.PredictionOutput, error)
}
