package out

import (
	"context"

	"pdtrack/internal/modules/tracking/domain"
)

type TrackingGateway interface {
	RecordTremor(ctx context.Context, userID string, sample domain.TremorSample) (float64, error)
	ShakeHistory(ctx context.Context, userID, day string) ([]domain.ShakePoint, error)
	LogMedication(ctx context.Context, userID string) error
	MedicationResponses(ctx context.Context, userID string) ([]domain.MedicationResponse, error)
	TrainProgressModel(ctx context.Context, userID string) error
	PredictProgress(ctx context.Context, userID string) (domain.Prediction, error)
}

// SampleSource yields the next tremor reading to post. The shipped
// implementation synthesizes values; a real deployment swaps in an adapter
// backed by the wearable's sensors.
type SampleSource interface {
	Next() domain.TremorSample
}
