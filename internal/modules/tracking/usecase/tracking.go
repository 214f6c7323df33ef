package usecase

import (
	"context"

	profilein "pdtrack/internal/modules/profile/port/in"
	sessionin "pdtrack/internal/modules/session/port/in"
	"pdtrack/internal/modules/tracking/dto"
	trackingin "pdtrack/internal/modules/tracking/port/in"
	"pdtrack/internal/modules/tracking/service"
	apperrors "pdtrack/internal/platform/errors"
)

type Interactor struct {
	svc     *service.TrackingService
	session sessionin.Usecase
	profile profilein.Usecase
}

func NewInteractor(svc *service.TrackingService, session sessionin.Usecase, profile profilein.Usecase) trackingin.Usecase {
	return &Interactor{svc: svc, session: session, profile: profile}
}

func (i *Interactor) RecordTremor(ctx context.Context) (dto.RecordOutput, error) {
	userID, err := i.userID(ctx)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	shake, history, err := i.svc.Record(ctx, userID)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	out := dto.RecordOutput{ShakePerMinute: shake}
	for _, p := range history {
		out.History = append(out.History, dto.ShakePointOutput{Bucket: p.Bucket, Value: p.Value})
	}
	return out, nil
}

func (i *Interactor) ShakeHistory(ctx context.Context, day string) ([]dto.ShakePointOutput, error) {
	userID, err := i.userID(ctx)
	if err != nil {
		return nil, err
	}
	history, err := i.svc.History(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	points := make([]dto.ShakePointOutput, len(history))
	for idx, p := range history {
		points[idx] = dto.ShakePointOutput{Bucket: p.Bucket, Value: p.Value}
	}
	return points, nil
}

func (i *Interactor) LogMedication(ctx context.Context) error {
	userID, err := i.userID(ctx)
	if err != nil {
		return err
	}
	return i.svc.LogMedication(ctx, userID)
}

func (i *Interactor) MedicationResponses(ctx context.Context) ([]dto.MedicationResponseOutput, error) {
	userID, err := i.userID(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := i.svc.MedicationResponses(ctx, userID)
	if err != nil {
		return nil, err
	}
	outputs := make([]dto.MedicationResponseOutput, len(responses))
	for idx, r := range responses {
		outputs[idx] = dto.MedicationResponseOutput{
			MedTime:   r.MedTime,
			BeforeAvg: r.BeforeAvg,
			AfterAvg:  r.AfterAvg,
			Delta:     r.Delta,
			Effective: r.Effective,
		}
	}
	return outputs, nil
}

func (i *Interactor) TrainProgressModel(ctx context.Context) error {
	userID, err := i.userID(ctx)
	if err != nil {
		return err
	}
	return i.svc.Train(ctx, userID)
}

func (i *Interactor) PredictProgress(ctx context.Context) (dto.PredictionOutput, error) {
	userID, err := i.userID(ctx)
	if err != nil {
		return dto.PredictionOutput{}, err
	}
	prediction, err := i.svc.Predict(ctx, userID)
	if err != nil {
		return dto.PredictionOutput{}, err
	}
	return dto.PredictionOutput{
		Date:              prediction.Date,
		ProbabilityBetter: prediction.ProbabilityBetter,
		Prediction:        prediction.Prediction,
	}, nil
}

// userID prefers the session's stored id and falls back to a profile fetch,
// the same order the original screens resolve it in.
func (i *Interactor) userID(ctx context.Context) (string, error) {
	current := i.session.Current(ctx)
	if !current.Authenticated {
		return "", apperrors.ErrUnauthenticated
	}
	if current.UserID != "" {
		return current.UserID, nil
	}
	profile, err := i.profile.Fetch(ctx)
	if err != nil {
		return "", err
	}
	if profile.ID == "" {
		return "", apperrors.ErrNotFound
	}
	return profile.ID, nil
}
