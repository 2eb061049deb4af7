// Package report turns recorded mission telemetry into flight
// summaries, text and PDF reports and altitude profile charts.
package report

import (
	"math"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// Summary is the distilled outcome of one mission, computed from the
// recorded samples alone.
type Summary struct {
	SampleCount int
	Duration    float64 // seconds of mission time

	MaxAltitude float64
	ApogeeTime  float64 // mission time of the highest reading
	MaxSpeed    float64 // derived from altitude deltas

	MinTemperature float64
	MaxTemperature float64

	MaxRotationRate float64

	FinalPhase     mission.Phase
	PhaseDurations [mission.NumPhases]float64 // seconds spent in each phase
}

// Summarize replays samples through the phase tracker and computes the
// flight summary. Samples must be in mission time order, the way the
// recorder stores them.
func Summarize(samples []telemetry.Sample) Summary {
	var s Summary
	if len(samples) == 0 {
		return s
	}

	s.SampleCount = len(samples)
	s.Duration = samples[len(samples)-1].Time - samples[0].Time

	s.MinTemperature = math.Inf(1)
	s.MaxTemperature = math.Inf(-1)

	var tracker mission.PhaseTracker
	prev := samples[0]
	phase := tracker.Update(prev.Altitude)

	for i, sample := range samples {
		if sample.Altitude > s.MaxAltitude {
			s.MaxAltitude = sample.Altitude
			s.ApogeeTime = sample.Time
		}
		if sample.Temperature < s.MinTemperature {
			s.MinTemperature = sample.Temperature
		}
		if sample.Temperature > s.MaxTemperature {
			s.MaxTemperature = sample.Temperature
		}
		if rate := sample.RotationRate(); rate > s.MaxRotationRate {
			s.MaxRotationRate = rate
		}

		if i == 0 {
			continue
		}

		dt := sample.Time - prev.Time
		if dt > 0 {
			if speed := math.Abs(sample.Altitude-prev.Altitude) / dt; speed > s.MaxSpeed {
				s.MaxSpeed = speed
			}
			// Attribute the interval to the phase we were in when it began.
			s.PhaseDurations[phase] += dt
		}

		phase = tracker.Update(sample.Altitude)
		prev = sample
	}

	s.FinalPhase = tracker.Phase()
	return s
}
