package service

import (
	"context"

	"pdtrack/internal/modules/tracking/domain"
	trackingout "pdtrack/internal/modules/tracking/port/out"
	"pdtrack/internal/platform/clock"
)

const dayFormat = "2006-01-02"

// TrackingService posts tremor readings and reads back the server-derived
// aggregates. Recording follows the invalidate-and-refresh contract: a
// successful post is always followed by a refetch of the day's history.
type TrackingService struct {
	clock   clock.Clock
	gateway trackingout.TrackingGateway
	samples trackingout.SampleSource
}

func NewTrackingService(clk clock.Clock, gateway trackingout.TrackingGateway, samples trackingout.SampleSource) *TrackingService {
	return &TrackingService{clock: clk, gateway: gateway, samples: samples}
}

func (s *TrackingService) Record(ctx context.Context, userID string) (float64, []domain.ShakePoint, error) {
	shake, err := s.gateway.RecordTremor(ctx, userID, s.samples.Next())
	if err != nil {
		return 0, nil, err
	}
	history, err := s.gateway.ShakeHistory(ctx, userID, s.Today())
	if err != nil {
		return 0, nil, err
	}
	return shake, history, nil
}

func (s *TrackingService) History(ctx context.Context, userID, day string) ([]domain.ShakePoint, error) {
	if day == "" {
		day = s.Today()
	}
	return s.gateway.ShakeHistory(ctx, userID, day)
}

func (s *TrackingService) LogMedication(ctx context.Context, userID string) error {
	return s.gateway.LogMedication(ctx, userID)
}

func (s *TrackingService) MedicationResponses(ctx context.Context, userID string) ([]domain.MedicationResponse, error) {
	return s.gateway.MedicationResponses(ctx, userID)
}

// Train fires the server-side training job. Completion is not pushed back;
// callers poll by fetching the prediction again.
func (s *TrackingService) Train(ctx context.Context, userID string) error {
	return s.gateway.TrainProgressModel(ctx, userID)
}

func (s *TrackingService) Predict(ctx context.Context, userID string) (domain.Prediction, error) {
	return s.gateway.PredictProgress(ctx, userID)
}

func (s *TrackingService) Today() string {
	return s.clock.Now().Format(dayFormat)
}
