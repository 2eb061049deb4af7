package mission

import (
	"testing"

	"github.com/parikshit-sat/cansat-ground/internal/source/flightsim"
)

func TestPhaseTracker_CanonicalTrajectory(t *testing.T) {
	var tracker PhaseTracker

	seen := make(map[Phase]bool)
	prev := PhasePreLaunch
	for ts := 0.0; ts < flightsim.Duration; ts += 0.5 {
		p := tracker.Update(flightsim.AltitudeAt(ts))

		if p < prev {
			t.Fatalf("t=%.1f: phase reverted from %s to %s", ts, prev, p)
		}
		seen[p] = true
		prev = p
	}

	for p := PhasePreLaunch; p <= PhaseLanding; p++ {
		if !seen[p] {
			t.Errorf("phase %s never reached on the canonical trajectory", p)
		}
	}
	if prev != PhaseLanding {
		t.Errorf("expected to finish in landing, got %s", prev)
	}
}

func TestPhaseTracker_Transitions(t *testing.T) {
	var tracker PhaseTracker

	steps := []struct {
		altitude float64
		want     Phase
	}{
		{0, PhasePreLaunch},
		{5, PhasePreLaunch},
		{50, PhaseAscent},
		{400, PhaseAscent},
		{600, PhaseAscent},
		{590, PhaseAscent},     // within noise margin of the peak
		{560, PhaseDeployment}, // dropped past the margin
		{500, PhaseDescent},    // dropped past the deployment window
		{120, PhaseDescent},
		{40, PhaseLanding},
		{45, PhaseLanding},
	}

	for i, step := range steps {
		if got := tracker.Update(step.altitude); got != step.want {
			t.Fatalf("step %d (altitude %.0f): expected %s, got %s", i, step.altitude, step.want, got)
		}
	}
}

func TestPhaseTracker_NoiseDoesNotFlicker(t *testing.T) {
	var tracker PhaseTracker

	// Jittery readings around a climbing trend must stay in ascent.
	for _, alt := range []float64{100, 98, 105, 102, 110, 107, 120} {
		if p := tracker.Update(alt); p != PhaseAscent {
			t.Fatalf("altitude %.0f: expected ascent, got %s", alt, p)
		}
	}
}

func TestPhaseTracker_Reset(t *testing.T) {
	var tracker PhaseTracker

	tracker.Update(600)
	tracker.Update(300)
	if tracker.Phase() != PhaseDescent {
		t.Fatalf("setup failed, phase %s", tracker.Phase())
	}

	tracker.Reset()
	if tracker.Phase() != PhasePreLaunch {
		t.Errorf("expected pre-launch after reset, got %s", tracker.Phase())
	}
	if tracker.PeakAltitude() != 0 {
		t.Errorf("expected zero peak after reset, got %.1f", tracker.PeakAltitude())
	}
	if p := tracker.Update(0); p != PhasePreLaunch {
		t.Errorf("expected pre-launch on the pad, got %s", p)
	}
}
