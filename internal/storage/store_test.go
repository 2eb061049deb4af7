package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	s := NewSqliteStore(filepath.Join(t.TempDir(), "mission.db"))
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestStore_MissionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateMission(ctx, "run-1", "simulator", "flightsim", map[string]any{"speedup": 2})
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected a positive mission ID, got %d", id)
	}

	mis, err := s.Mission(ctx, id)
	if err != nil {
		t.Fatalf("Mission: %v", err)
	}
	if mis.RunID != "run-1" || mis.SourceType != "simulator" || mis.SourceID != "flightsim" {
		t.Errorf("unexpected mission: %+v", mis)
	}
	if mis.Config == nil || *mis.Config != `{"speedup":2}` {
		t.Errorf("unexpected config: %v", mis.Config)
	}

	byRun, err := s.MissionByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("MissionByRunID: %v", err)
	}
	if byRun.ID != id {
		t.Errorf("expected mission %d, got %d", id, byRun.ID)
	}
}

func TestStore_Missions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, runID := range []string{"run-1", "run-2"} {
		if _, err := s.CreateMission(ctx, runID, "serial", "/dev/ttyUSB0", nil); err != nil {
			t.Fatalf("CreateMission(%s): %v", runID, err)
		}
	}

	missions, err := s.Missions(ctx)
	if err != nil {
		t.Fatalf("Missions: %v", err)
	}
	if len(missions) != 2 {
		t.Fatalf("expected 2 missions, got %d", len(missions))
	}
	if missions[0].Config != nil {
		t.Errorf("expected nil config, got %q", *missions[0].Config)
	}
}

func TestStore_SamplesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateMission(ctx, "run-1", "simulator", "flightsim", nil)
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	want := testSamples()
	if err := s.StoreSamples(ctx, id, want); err != nil {
		t.Fatalf("StoreSamples: %v", err)
	}
	if err := s.StoreSamples(ctx, id, nil); err != nil {
		t.Fatalf("StoreSamples(empty): %v", err)
	}

	r, err := s.ReadSamples(ctx, id)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	defer r.Close()

	if r.Mission() == nil || r.Mission().RunID != "run-1" {
		t.Errorf("unexpected reader mission: %+v", r.Mission())
	}

	var got int
	for r.Next(ctx) {
		if r.Current() != want[got] {
			t.Errorf("sample %d: expected %+v, got %+v", got, want[got], r.Current())
		}
		got++
	}
	if err := r.Error(); err != nil {
		t.Fatalf("reader error: %v", err)
	}
	if got != len(want) {
		t.Errorf("expected %d samples, got %d", len(want), got)
	}
}

func TestStore_ReadSamplesTimeRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateMission(ctx, "run-1", "simulator", "flightsim", nil)
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}
	if err := s.StoreSamples(ctx, id, testSamples()); err != nil {
		t.Fatalf("StoreSamples: %v", err)
	}

	r, err := s.ReadSamples(ctx, id, WithTimeRange(0.75, 2))
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	defer r.Close()

	var got int
	for r.Next(ctx) {
		if r.Current().Time < 0.75 || r.Current().Time > 2 {
			t.Errorf("sample outside range: %+v", r.Current())
		}
		got++
	}
	if err := r.Error(); err != nil {
		t.Fatalf("reader error: %v", err)
	}
	if got != 1 {
		t.Errorf("expected 1 sample in range, got %d", got)
	}
}

func TestStore_ReadSamplesInvalidRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateMission(ctx, "run-1", "simulator", "flightsim", nil)
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	if _, err := s.ReadSamples(ctx, id, WithTimeRange(10, 5)); err == nil {
		t.Error("expected an error for an inverted time range")
	}
	if _, err := s.ReadSamples(ctx, 0); err == nil {
		t.Error("expected an error for a missing mission ID")
	}
}

func TestStore_AlertsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateMission(ctx, "run-1", "serial", "/dev/ttyUSB0", nil)
	if err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	base := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	want := []mission.Alert{
		{Severity: mission.SeverityInfo, Message: "mission started", Timestamp: base},
		{Severity: mission.SeverityWarning, Message: "approaching maximum altitude", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, a := range want {
		if err := s.StoreAlert(ctx, id, a); err != nil {
			t.Fatalf("StoreAlert: %v", err)
		}
	}

	got, err := s.Alerts(ctx, id)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Severity != want[i].Severity || got[i].Message != want[i].Message {
			t.Errorf("alert %d: expected %+v, got %+v", i, want[i], got[i])
		}
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("alert %d: expected timestamp %s, got %s", i, want[i].Timestamp, got[i].Timestamp)
		}
	}
}
