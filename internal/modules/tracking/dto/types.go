package dto

import "time"

type RecordOutput struct {
	ShakePerMinute float64
	History        []ShakePointOutput
}

type ShakePointOutput struct {
	Bucket string
	Value  float64
}

type MedicationResponseOutput struct {
	MedTime   time.Time
	BeforeAvg float64
	AfterAvg  float64
	Delta     float64
	Effective bool
}

type PredictionOutput struct {
	Date              string
	ProbabilityBetter float64
	Prediction        string
}
