// Package flightsim generates a physically plausible CanSat mission
// trajectory for testing the ground station without hardware.
package flightsim

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

const (
	// DefaultSpeedup runs the simulated mission at twice wall clock, so a
	// full flight takes ~125 s of operator time.
	DefaultSpeedup = 2.0

	defaultNoiseLevel = 1.0

	groundTemperature = 25.0   // °C at the pad
	lapseRate         = 6.5    // °C per km of altitude
	groundPressure    = 1013.0 // hPa at the pad
	pressurePerMeter  = 0.12   // hPa lost per meter of altitude

	// Launch site (Udupi, Karnataka).
	baseLatitude  = 13.3379
	baseLongitude = 74.7461

	gravity = 9.8
)

// WithSpeedup sets the simulated-to-wall-clock time ratio.
func WithSpeedup(speedup float64) func(*Simulator) {
	return func(s *Simulator) {
		s.speedup = speedup
	}
}

// WithNoiseLevel scales the additive sensor noise. Zero disables it.
func WithNoiseLevel(level float64) func(*Simulator) {
	return func(s *Simulator) {
		s.noiseLevel = level
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed int64) func(*Simulator) {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) func(*Simulator) {
	return func(s *Simulator) {
		s.clock = clock
	}
}

// Simulator is a telemetry source that replays the canonical flight
// profile with bounded sensor noise. Not safe for concurrent use.
type Simulator struct {
	rng        *rand.Rand
	clock      func() time.Time
	speedup    float64
	noiseLevel float64

	started time.Time
	lastT   float64

	latitude  float64
	longitude float64
}

// New creates a simulator starting at the pad.
func New(options ...func(*Simulator)) *Simulator {
	s := Simulator{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:      time.Now,
		speedup:    DefaultSpeedup,
		noiseLevel: defaultNoiseLevel,
		latitude:   baseLatitude,
		longitude:  baseLongitude,
	}

	for _, option := range options {
		option(&s)
	}

	s.started = s.clock()
	return &s
}

// Reset rewinds the simulation to the pad.
func (s *Simulator) Reset() {
	s.started = s.clock()
	s.lastT = 0
	s.latitude = baseLatitude
	s.longitude = baseLongitude
}

// Next returns the sample for the current simulated time.
func (s *Simulator) Next(ctx context.Context) (telemetry.Sample, error) {
	if err := ctx.Err(); err != nil {
		return telemetry.Sample{}, err
	}

	t := s.clock().Sub(s.started).Seconds() * s.speedup
	return s.SampleAt(t), nil
}

// SampleAt produces the sample for simulated time t. Repeated calls at the
// same t differ by bounded noise but are statistically consistent.
func (s *Simulator) SampleAt(t float64) telemetry.Sample {
	s.lastT = t

	altitude := AltitudeAt(t)
	inFlight := t >= LiftoffTime && t < LandingTime

	// GPS drifts slightly while airborne, original fix held on the ground.
	if inFlight {
		s.latitude += s.noise(0.0001)
		s.longitude += s.noise(0.0001)
	}

	gx, gy, gz := s.gyroAt(t)
	accelZ := gravity
	if t >= DeploymentTime && t < DescentTime {
		accelZ = -15 // canopy snatch load
	}

	sample := telemetry.Sample{
		Time:        t,
		Altitude:    math.Max(0, altitude+s.noise(s.noiseLevel)),
		Temperature: groundTemperature - altitude/1000*lapseRate + s.noise(0.5),
		Pressure:    groundPressure - altitude*pressurePerMeter + s.noise(0.3),
		Humidity:    50 + s.noise(5),
		GyroX:       gx,
		GyroY:       gy,
		GyroZ:       gz,
		AccelX:      s.noise(0.5),
		AccelY:      s.noise(0.5),
		AccelZ:      accelZ + s.noise(0.3),
		Latitude:    s.latitude,
		Longitude:   s.longitude,
	}
	return sample
}

// Speed returns the magnitude of the vertical velocity at the last
// sampled time.
func (s *Simulator) Speed() float64 {
	return math.Abs(VelocityAt(s.lastT))
}

// Elapsed returns the last sampled simulated time in seconds.
func (s *Simulator) Elapsed() float64 {
	return s.lastT
}

// Done reports whether the simulated mission has run its full duration.
func (s *Simulator) Done() bool {
	return s.lastT >= Duration
}

// Describe identifies the source for session records.
func (s *Simulator) Describe() (string, string) {
	return "simulator", "flightsim"
}

// Close implements source.Source; the simulator holds no resources.
func (s *Simulator) Close() error {
	return nil
}

// gyroAt models the rotation regimes of the flight: still on the pad,
// moderate tumbling on ascent, a spike at deployment, gentle sway under
// canopy, still after landing.
func (s *Simulator) gyroAt(t float64) (x, y, z float64) {
	switch {
	case t < LiftoffTime:
		return s.noise(0.1), s.noise(0.1), s.noise(0.1)

	case t < DeploymentTime:
		return 10 + s.noise(5), 5 + s.noise(3), 15 + s.noise(8)

	case t < DescentTime:
		return 50 + s.noise(20), 40 + s.noise(15), 60 + s.noise(25)

	case t < LandingTime:
		return 5 + s.noise(2), 5 + s.noise(2), 10 + s.noise(4)

	default:
		return s.noise(0.5), s.noise(0.5), s.noise(0.5)
	}
}

// noise draws bounded gaussian noise, clamped at three sigma so a single
// outlier cannot fake a flight event.
func (s *Simulator) noise(sigma float64) float64 {
	if s.noiseLevel == 0 || sigma == 0 {
		return 0
	}
	n := s.rng.NormFloat64() * sigma
	limit := 3 * sigma
	return math.Max(-limit, math.Min(limit, n))
}
