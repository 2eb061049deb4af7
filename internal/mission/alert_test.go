package mission

import (
	"fmt"
	"testing"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

func TestAlertEngine_LatchesOncePerMission(t *testing.T) {
	e := NewAlertEngine()

	c := Conditions{Sample: telemetry.Sample{Altitude: 950}}

	fired := e.Evaluate(c)
	if len(fired) != 1 {
		t.Fatalf("expected one alert, got %d", len(fired))
	}
	if fired[0].Severity != SeverityWarning {
		t.Errorf("expected %s, got %s", SeverityWarning, fired[0].Severity)
	}

	if fired := e.Evaluate(c); len(fired) != 0 {
		t.Errorf("latched predicate fired again: %v", fired)
	}

	e.Reset()
	if fired := e.Evaluate(c); len(fired) != 1 {
		t.Errorf("expected the latch to clear on reset, got %d alerts", len(fired))
	}
}

func TestAlertEngine_Predicates(t *testing.T) {
	tests := []struct {
		name       string
		conditions Conditions
		want       int
	}{
		{
			name:       "quiet cruise",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 500}, Phase: PhaseAscent},
			want:       0,
		},
		{
			name:       "high altitude",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 920}, Phase: PhaseAscent},
			want:       1,
		},
		{
			name:       "low altitude during ascent is normal",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 40}, Phase: PhaseAscent},
			want:       0,
		},
		{
			name:       "low altitude during descent",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 40}, Phase: PhaseDescent},
			want:       1,
		},
		{
			name:       "silent link",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 500}, SinceLastPacket: 6 * time.Second},
			want:       1,
		},
		{
			name:       "packet loss",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 500}, PacketsLost: 3},
			want:       1,
		},
		{
			name:       "high rotation",
			conditions: Conditions{Sample: telemetry.Sample{Altitude: 500, GyroX: 60, GyroY: 60, GyroZ: 60}},
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewAlertEngine()
			if fired := e.Evaluate(tt.conditions); len(fired) != tt.want {
				t.Errorf("expected %d alerts, got %d: %v", tt.want, len(fired), fired)
			}
		})
	}
}

func TestAlertEngine_LogIsBounded(t *testing.T) {
	e := NewAlertEngine(WithAlertLimit(3))

	for i := 0; i < 5; i++ {
		e.Record(SeverityInfo, fmt.Sprintf("event %d", i))
	}

	log := e.Log()
	if len(log) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(log))
	}
	if log[0].Message != "event 2" || log[2].Message != "event 4" {
		t.Errorf("expected the newest entries to survive, got %v", log)
	}
}

func TestAlertEngine_RecordDoesNotLatch(t *testing.T) {
	e := NewAlertEngine()

	e.Record(SeverityInfo, "mission started")
	e.Record(SeverityInfo, "mission started")

	if got := len(e.Log()); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
}
