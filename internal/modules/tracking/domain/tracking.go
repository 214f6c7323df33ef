package domain

import "time"

// TremorSample is one accelerometer/gyroscope reading. Samples are write-only
// from the client's perspective: posted once, never mutated locally. The
// server derives a shake-per-minute scalar from them.
type TremorSample struct {
	AccelX float64
	AccelY float64
	AccelZ float64
	GyroX  float64
	GyroY  float64
	GyroZ  float64
}

// ShakePoint is one time bucket of the server-aggregated shake history for a
// single day.
type ShakePoint struct {
	Bucket string
	Value  float64
}

// MedicationResponse is the server-computed effect of one medication intake:
// average shake rate before and after, and whether the delta counts as
// effective.
type MedicationResponse struct {
	MedTime   time.Time
	BeforeAvg float64
	AfterAvg  float64
	Delta     float64
	Effective bool
}

// Prediction is the server-side model's progress estimate. The client only
// displays it or triggers retraining.
type Prediction struct {
	Date              string
	ProbabilityBetter float64
	Prediction        string
}
