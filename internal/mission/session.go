// Package mission tracks the state of one recording session: phase,
// alerts, running statistics and the recorded samples. A Session is an
// explicit object so several independent missions can coexist in one
// process; nothing in this package is global.
package mission

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// WithClock overrides the wall clock, for tests. The alert engine shares
// the same clock unless one was supplied via WithAlertEngine.
func WithClock(clock func() time.Time) func(*Session) {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithAlertEngine replaces the stock alert engine.
func WithAlertEngine(engine *AlertEngine) func(*Session) {
	return func(s *Session) {
		s.alerts = engine
	}
}

// Session is one mission from start to stop. Not safe for concurrent
// use: the tick loop is the only writer, by design.
type Session struct {
	clock func() time.Time

	runID     string
	startedAt time.Time
	stoppedAt time.Time

	samples []telemetry.Sample
	tracker PhaseTracker
	alerts  *AlertEngine
	stats   Stats

	lastSample telemetry.Sample
	hasSample  bool

	prevTime     float64
	prevAltitude float64
	hasPrev      bool
}

// NewSession creates an idle session; nothing is recorded until Start.
func NewSession(options ...func(*Session)) *Session {
	s := Session{clock: time.Now}

	for _, option := range options {
		option(&s)
	}

	if s.alerts == nil {
		s.alerts = NewAlertEngine(WithAlertClock(s.clock))
	}

	return &s
}

// Start begins a new mission: all mutable state, maxima and alert
// latches are reset first.
func (s *Session) Start() Alert {
	s.runID = uuid.NewString()
	s.startedAt = s.clock()
	s.stoppedAt = time.Time{}

	s.samples = nil
	s.tracker.Reset()
	s.stats.Reset()
	s.alerts.Reset()
	s.hasPrev = false

	return s.alerts.Record(SeverityInfo, "mission started")
}

// Stop ends the mission. Statistics and the elapsed counter freeze at
// this instant; recorded samples remain available for export.
func (s *Session) Stop() Alert {
	if !s.Active() {
		return Alert{}
	}

	s.stoppedAt = s.clock()
	return s.alerts.Record(SeverityInfo, "mission stopped")
}

// Active reports whether a mission is currently recording.
func (s *Session) Active() bool {
	return !s.startedAt.IsZero() && s.stoppedAt.IsZero()
}

// Elapsed returns the mission duration so far; frozen once stopped.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case !s.stoppedAt.IsZero():
		return s.stoppedAt.Sub(s.startedAt)
	default:
		return s.clock().Sub(s.startedAt)
	}
}

// Ingest folds one good packet into the session and returns any alerts
// that fired. Link accounting always updates; samples, maxima, phase and
// alerts only while the mission is active.
func (s *Session) Ingest(sample telemetry.Sample) []Alert {
	now := s.clock()
	s.stats.MarkReceived(now)
	s.lastSample = sample
	s.hasSample = true

	if !s.Active() {
		return nil
	}

	var speed float64
	if s.hasPrev && sample.Time > s.prevTime {
		speed = math.Abs(sample.Altitude-s.prevAltitude) / (sample.Time - s.prevTime)
	}
	s.prevTime = sample.Time
	s.prevAltitude = sample.Altitude
	s.hasPrev = true

	s.samples = append(s.samples, sample)
	s.stats.ObserveSample(sample.Altitude, speed)
	phase := s.tracker.Update(sample.Altitude)

	return s.alerts.Evaluate(Conditions{
		Sample:      sample,
		Phase:       phase,
		Elapsed:     s.Elapsed(),
		PacketsLost: s.stats.PacketsLost,
	})
}

// MarkLost accounts for n lost packets (failed, timed out or malformed
// reads) and re-evaluates the link predicates.
func (s *Session) MarkLost(n int64) []Alert {
	s.stats.MarkLost(n)

	if !s.Active() {
		return nil
	}

	return s.alerts.Evaluate(Conditions{
		Sample:          s.lastSample,
		Phase:           s.tracker.Phase(),
		Elapsed:         s.Elapsed(),
		SinceLastPacket: s.stats.SinceLastPacket(s.clock()),
		PacketsLost:     s.stats.PacketsLost,
	})
}

// RunID returns the unique identifier of the current mission, empty
// before the first Start.
func (s *Session) RunID() string {
	return s.runID
}

// StartedAt returns the mission start time, zero before the first Start.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Phase returns the highest phase reached this mission.
func (s *Session) Phase() Phase {
	return s.tracker.Phase()
}

// Stats returns a copy of the running statistics.
func (s *Session) Stats() Stats {
	return s.stats
}

// Connected reports the link indicator state.
func (s *Session) Connected() bool {
	return s.stats.Connected(s.clock())
}

// Samples returns a copy of the recorded samples.
func (s *Session) Samples() []telemetry.Sample {
	out := make([]telemetry.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// SampleCount returns the number of recorded samples.
func (s *Session) SampleCount() int {
	return len(s.samples)
}

// LastSample returns the most recently ingested sample, if any.
func (s *Session) LastSample() (telemetry.Sample, bool) {
	return s.lastSample, s.hasSample
}

// Alerts returns the mission alert log, oldest first.
func (s *Session) Alerts() []Alert {
	return s.alerts.Log()
}
