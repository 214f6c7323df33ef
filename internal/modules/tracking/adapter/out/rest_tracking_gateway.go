package out

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"pdtrack/internal/modules/tracking/domain"
	trackingout "pdtrack/internal/modules/tracking/port/out"
	"pdtrack/internal/platform/rest"
)

type RESTTrackingGateway struct {
	client *rest.Client
}

func NewRESTTrackingGateway(client *rest.Client) trackingout.TrackingGateway {
	return &RESTTrackingGateway{client: client}
}

type tremorLogRequest struct {
	UserID string  `json:"user_id"`
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
	GyroX  float64 `json:"gyro_x"`
	GyroY  float64 `json:"gyro_y"`
	GyroZ  float64 `json:"gyro_z"`
}

func (g *RESTTrackingGateway) RecordTremor(ctx context.Context, userID string, sample domain.TremorSample) (float64, error) {
	req := tremorLogRequest{
		UserID: userID,
		AccelX: sample.AccelX,
		AccelY: sample.AccelY,
		AccelZ: sample.AccelZ,
		GyroX:  sample.GyroX,
		GyroY:  sample.GyroY,
		GyroZ:  sample.GyroZ,
	}
	var resp struct {
		ShakePerMinute float64 `json:"shake_per_minute"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/parkinson/log", req, &resp, rest.AuthRequired); err != nil {
		return 0, err
	}
	return resp.ShakePerMinute, nil
}

// ShakeHistory returns the day's buckets sorted by time key; the backend
// serves them as an unordered {bucket: value} mapping.
func (g *RESTTrackingGateway) ShakeHistory(ctx context.Context, userID, day string) ([]domain.ShakePoint, error) {
	var buckets map[string]float64
	path := "/parkinson/" + userID + "/shake-by-minute?day=" + url.QueryEscape(day)
	if err := g.client.Do(ctx, http.MethodGet, path, nil, &buckets, rest.AuthRequired); err != nil {
		return nil, err
	}
	points := make([]domain.ShakePoint, 0, len(buckets))
	for bucket, value := range buckets {
		points = append(points, domain.ShakePoint{Bucket: bucket, Value: value})
	}
	sort.Slice(points, func(a, b int) bool { return points[a].Bucket < points[b].Bucket })
	return points, nil
}

// LogMedication posts an empty JSON object; the server records its own
// timestamp.
func (g *RESTTrackingGateway) LogMedication(ctx context.Context, userID string) error {
	return g.client.Do(ctx, http.MethodPost, "/parkinson/"+userID+"/log-medication", struct{}{}, nil, rest.AuthRequired)
}

type medicationResponseDocument struct {
	MedTime   string  `json:"med_time"`
	BeforeAvg float64 `json:"before_avg"`
	AfterAvg  float64 `json:"after_avg"`
	Delta     float64 `json:"delta"`
	Effective bool    `json:"effective"`
}

// MedicationResponses unwraps the backend's {medication_response: [...]}
// envelope.
func (g *RESTTrackingGateway) MedicationResponses(ctx context.Context, userID string) ([]domain.MedicationResponse, error) {
	var envelope struct {
		MedicationResponse []medicationResponseDocument `json:"medication_response"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/parkinson/"+userID+"/medication-response", nil, &envelope, rest.AuthRequired); err != nil {
		return nil, err
	}
	docs := envelope.MedicationResponse
	responses := make([]domain.MedicationResponse, len(docs))
	for i, doc := range docs {
		responses[i] = domain.MedicationResponse{
			BeforeAvg: doc.BeforeAvg,
			AfterAvg:  doc.AfterAvg,
			Delta:     doc.Delta,
			Effective: doc.Effective,
		}
		if t, err := time.Parse("2006-01-02T15:04:05", doc.MedTime); err == nil {
			responses[i].MedTime = t
		}
	}
	return responses, nil
}

func (g *RESTTrackingGateway) TrainProgressModel(ctx context.Context, userID string) error {
	return g.client.Do(ctx, http.MethodPost, "/parkinson/"+userID+"/train-progress-lstm", struct{}{}, nil, rest.AuthRequired)
}

func (g *RESTTrackingGateway) PredictProgress(ctx context.Context, userID string) (domain.Prediction, error) {
	var resp struct {
		Date              string  `json:"date"`
		ProbabilityBetter float64 `json:"probability_better"`
		Prediction        string  `json:"prediction"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/parkinson/"+userID+"/predict-progress-lstm", nil, &resp, rest.AuthRequired); err != nil {
		return domain.Prediction{}, err
	}
	return domain.Prediction{
		Date:              resp.Date,
		ProbabilityBetter: resp.ProbabilityBetter,
		Prediction:        resp.Prediction,
	}, nil
}
