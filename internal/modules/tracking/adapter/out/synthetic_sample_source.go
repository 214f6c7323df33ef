package out

import (
	"math"
	"math/rand"

	"pdtrack/internal/modules/tracking/domain"
	trackingout "pdtrack/internal/modules/tracking/port/out"
)

// SyntheticSampleSource fabricates plausible readings in place of real sensor
// hardware: accelerometer in [-1, 1] g, gyroscope in [-0.5, 0.5] rad/s,
// rounded to three decimals. A production build replaces this adapter with
// one backed by the wearable's accelerometer and gyroscope.
type SyntheticSampleSource struct {
	rng *rand.Rand
}

func NewSyntheticSampleSource(seed int64) trackingout.SampleSource {
	return &SyntheticSampleSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *SyntheticSampleSource) Next() domain.TremorSample {
	return domain.TremorSample{
		AccelX: s.value(-1, 1),
		AccelY: s.value(-1, 1),
		AccelZ: s.value(-1, 1),
		GyroX:  s.value(-0.5, 0.5),
		GyroY:  s.value(-0.5, 0.5),
		GyroZ:  s.value(-0.5, 0.5),
	}
}

func (s *SyntheticSampleSource) value(min, max float64) float64 {
	v := s.rng.Float64()*(max-min) + min
	return math.Round(v*1000) / 1000
}
