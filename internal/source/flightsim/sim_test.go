package flightsim

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestAltitudeBounds(t *testing.T) {
	sim := New(WithSeed(1))

	for ts := 0.0; ts < Duration; ts += 0.5 {
		sample := sim.SampleAt(ts)

		if sample.Altitude < 0 {
			t.Fatalf("t=%.1f: negative altitude %.2f", ts, sample.Altitude)
		}
		if sample.Altitude > MaxAltitude+10 {
			t.Fatalf("t=%.1f: altitude %.2f above bound", ts, sample.Altitude)
		}
	}
}

func TestAscentMonotonic(t *testing.T) {
	prev := -1.0
	for ts := LiftoffTime; ts <= DeploymentTime; ts += 1.0 {
		alt := AltitudeAt(float64(ts))
		if alt <= prev {
			t.Fatalf("t=%d: ascent altitude not increasing (%.2f -> %.2f)", ts, prev, alt)
		}
		prev = alt
	}
}

func TestPreLaunchAndLandingPinned(t *testing.T) {
	for _, ts := range []float64{0, 2.5, 4.9, LandingTime, 245, 249.5} {
		if alt := AltitudeAt(ts); alt != 0 {
			t.Errorf("t=%.1f: expected altitude 0, got %.2f", ts, alt)
		}
		if v := VelocityAt(ts); v != 0 {
			t.Errorf("t=%.1f: expected velocity 0, got %.2f", ts, v)
		}
	}
}

func TestDeploymentCollapsesVelocity(t *testing.T) {
	before := VelocityAt(DeploymentTime - 1)
	if before <= 0 {
		t.Fatalf("expected positive ascent velocity before deployment, got %.2f", before)
	}

	after := VelocityAt(DescentTime - 0.5)
	if math.Abs(after+5) > 0.01 {
		t.Errorf("expected settled descent velocity -5, got %.2f", after)
	}
}

func TestDescentReachesGround(t *testing.T) {
	peak := AltitudeAt(DeploymentTime)
	mid := AltitudeAt(180)
	if mid >= peak {
		t.Errorf("expected descent below apogee %.2f, got %.2f", peak, mid)
	}

	// Terminal rate holds through the descent window.
	d1 := AltitudeAt(150)
	d2 := AltitudeAt(160)
	rate := (d1 - d2) / 10
	if math.Abs(rate-5) > 0.01 {
		t.Errorf("expected ~5 m/s descent rate, got %.2f", rate)
	}
}

func TestNoiseIsBoundedAndPresent(t *testing.T) {
	sim := New(WithSeed(7))

	var differs bool
	base := AltitudeAt(60)
	for i := 0; i < 50; i++ {
		sample := sim.SampleAt(60)
		if sample.Altitude != base {
			differs = true
		}
		if math.Abs(sample.Altitude-base) > 3.0 {
			t.Fatalf("altitude noise beyond bound: base %.2f, got %.2f", base, sample.Altitude)
		}
	}
	if !differs {
		t.Error("expected noisy samples to differ from the ideal profile")
	}
}

func TestGyroRegimes(t *testing.T) {
	sim := New(WithSeed(3))

	pad := sim.SampleAt(2)
	if pad.RotationRate() > 2 {
		t.Errorf("pad rotation too high: %.2f deg/s", pad.RotationRate())
	}

	deploy := sim.SampleAt(122)
	if deploy.RotationRate() < 30 {
		t.Errorf("deployment rotation too low: %.2f deg/s", deploy.RotationRate())
	}
}

func TestNextAdvancesWithClock(t *testing.T) {
	now := time.Unix(1000, 0)
	sim := New(WithSeed(5), WithClock(func() time.Time { return now }), WithSpeedup(2))

	sample, err := sim.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if sample.Time != 0 {
		t.Errorf("expected t=0 at start, got %.2f", sample.Time)
	}

	now = now.Add(30 * time.Second)
	sample, err = sim.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if math.Abs(sample.Time-60) > 0.01 {
		t.Errorf("expected t=60 after 30s at 2x, got %.2f", sample.Time)
	}

	sim.Reset()
	sample, err = sim.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if sample.Time != 0 {
		t.Errorf("expected t=0 after reset, got %.2f", sample.Time)
	}
}
