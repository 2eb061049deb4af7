package mission

import (
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// Severity grades an alert for the operator.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is one entry in the mission alert log.
type Alert struct {
	Severity  Severity
	Message   string
	Timestamp time.Time
}

// Conditions is the snapshot an alert predicate is evaluated against.
type Conditions struct {
	Sample          telemetry.Sample
	Phase           Phase
	Elapsed         time.Duration
	SinceLastPacket time.Duration
	PacketsLost     int64
}

// predicate is one threshold check with a one-shot latch key.
type predicate struct {
	id       string
	severity Severity
	message  string
	test     func(Conditions) bool
}

const (
	// DefaultAlertLimit bounds the alert log; the oldest entries are
	// dropped beyond it.
	DefaultAlertLimit = 200

	highAltitudeThreshold = 900 // meters
	lowAltitudeThreshold  = 100 // meters
	highRotationThreshold = 90  // deg/s
	silentLinkThreshold   = 5 * time.Second
)

func defaultPredicates() []predicate {
	return []predicate{
		{
			id:       "high-altitude",
			severity: SeverityWarning,
			message:  "approaching maximum altitude",
			test: func(c Conditions) bool {
				return c.Sample.Altitude > highAltitudeThreshold
			},
		},
		{
			id:       "low-altitude",
			severity: SeverityInfo,
			message:  "low altitude, landing phase",
			test: func(c Conditions) bool {
				return c.Sample.Altitude < lowAltitudeThreshold && c.Phase >= PhaseDescent
			},
		},
		{
			id:       "link-silent",
			severity: SeverityWarning,
			message:  "telemetry link silent",
			test: func(c Conditions) bool {
				return c.SinceLastPacket > silentLinkThreshold
			},
		},
		{
			id:       "packet-loss",
			severity: SeverityWarning,
			message:  "telemetry packets lost",
			test: func(c Conditions) bool {
				return c.PacketsLost > 0
			},
		},
		{
			id:       "high-rotation",
			severity: SeverityInfo,
			message:  "high rotation rate",
			test: func(c Conditions) bool {
				return c.Sample.RotationRate() > highRotationThreshold
			},
		},
	}
}

// AlertEngine evaluates a fixed list of threshold predicates against the
// latest telemetry. Each predicate fires at most once per mission: the
// latch map is cleared only by Reset.
type AlertEngine struct {
	predicates []predicate
	fired      map[string]bool

	log   []Alert
	limit int

	clock func() time.Time
}

// NewAlertEngine creates an engine with the stock predicate list.
func NewAlertEngine(options ...func(*AlertEngine)) *AlertEngine {
	e := AlertEngine{
		predicates: defaultPredicates(),
		fired:      make(map[string]bool),
		limit:      DefaultAlertLimit,
		clock:      time.Now,
	}

	for _, option := range options {
		option(&e)
	}

	return &e
}

// WithAlertLimit bounds the alert log length.
func WithAlertLimit(limit int) func(*AlertEngine) {
	return func(e *AlertEngine) {
		e.limit = limit
	}
}

// WithAlertClock overrides the wall clock, for tests.
func WithAlertClock(clock func() time.Time) func(*AlertEngine) {
	return func(e *AlertEngine) {
		e.clock = clock
	}
}

// Evaluate checks every predicate against the snapshot and returns the
// alerts that fired on this call. Latched predicates are skipped.
func (e *AlertEngine) Evaluate(c Conditions) []Alert {
	var fired []Alert
	for _, p := range e.predicates {
		if e.fired[p.id] || !p.test(c) {
			continue
		}

		e.fired[p.id] = true
		fired = append(fired, e.record(p.severity, p.message))
	}
	return fired
}

// Record appends an unlatched entry to the alert log, for operational
// events such as mission start and stop.
func (e *AlertEngine) Record(severity Severity, message string) Alert {
	return e.record(severity, message)
}

func (e *AlertEngine) record(severity Severity, message string) Alert {
	a := Alert{
		Severity:  severity,
		Message:   message,
		Timestamp: e.clock(),
	}

	e.log = append(e.log, a)
	if e.limit > 0 && len(e.log) > e.limit {
		e.log = e.log[len(e.log)-e.limit:]
	}
	return a
}

// Log returns a copy of the alert log, oldest first.
func (e *AlertEngine) Log() []Alert {
	out := make([]Alert, len(e.log))
	copy(out, e.log)
	return out
}

// Reset clears the log and every latch; called on mission start.
func (e *AlertEngine) Reset() {
	e.log = nil
	clear(e.fired)
}
