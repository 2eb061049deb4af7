package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
	"github.com/parikshit-sat/cansat-ground/internal/source"
	"github.com/parikshit-sat/cansat-ground/internal/storage"
	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

const (
	maxBatchSize    = 100
	shutdownTimeout = 5 * time.Second
)

// WithTickInterval sets the telemetry polling interval.
func WithTickInterval(interval time.Duration) func(*Recorder) {
	return func(r *Recorder) {
		r.tickInterval = interval
	}
}

// WithMissionDuration stops the mission after the given wall time.
func WithMissionDuration(duration time.Duration) func(*Recorder) {
	return func(r *Recorder) {
		r.missionDuration = duration
	}
}

// WithMaxBatchSize sets the maximum batch size of collected samples to
// store within a single database transaction.
func WithMaxBatchSize(size int) func(*Recorder) {
	return func(r *Recorder) {
		r.maxBatchSize = size
	}
}

// WithExportDir sets the directory receiving the CSV export written on
// mission stop.
func WithExportDir(dir string) func(*Recorder) {
	return func(r *Recorder) {
		r.exportDir = dir
	}
}

// Recorder drives one mission: it polls the telemetry source on a fixed
// tick, feeds the session state machine, persists samples in batches
// and exports the mission as CSV on stop.
type Recorder struct {
	source       source.Source
	sourceConfig any

	logger  *slog.Logger
	store   *storage.SqliteStore
	session *mission.Session

	tickInterval    time.Duration
	missionDuration time.Duration
	maxBatchSize    int
	exportDir       string

	missionID int64
	pending   []telemetry.Sample
}

// NewRecorder creates a Recorder over the given store and source.
func NewRecorder(store *storage.SqliteStore, src source.Source, sourceConfig any, logger *slog.Logger, options ...func(*Recorder)) *Recorder {
	r := Recorder{
		source:       src,
		sourceConfig: sourceConfig,
		logger:       logger,
		store:        store,
		session:      mission.NewSession(),
		tickInterval: defaultTickInterval,
		maxBatchSize: maxBatchSize,
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Run records one mission until the context is canceled, the configured
// duration elapses or the simulated flight completes.
func (r *Recorder) Run(ctx context.Context) error {
	sourceType, sourceID := r.source.Describe()

	startAlert := r.session.Start()

	missionID, err := r.store.CreateMission(ctx, r.session.RunID(), sourceType, sourceID, r.sourceConfig)
	if err != nil {
		return fmt.Errorf("creating mission record: %w", err)
	}
	r.missionID = missionID
	r.storeAlert(ctx, startAlert)

	r.logger.Info("mission started",
		slog.String("run", r.session.RunID()),
		slog.String("sourceType", sourceType),
		slog.String("sourceID", sourceID),
		slog.Duration("tickInterval", r.tickInterval))

	if r.missionDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.missionDuration)
		defer cancel()
	}

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.finish()

		case <-ticker.C:
			r.tick(ctx)

			if sim, ok := r.source.(interface{ Done() bool }); ok && sim.Done() {
				r.logger.Info("simulated flight complete")
				return r.finish()
			}
		}
	}
}

func (r *Recorder) tick(ctx context.Context) {
	sample, err := r.source.Next(ctx)
	switch {
	case err == nil:
		r.pending = append(r.pending, sample)
		r.handleAlerts(ctx, r.session.Ingest(sample))

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return

	case errors.Is(err, source.ErrNoData), errors.Is(err, telemetry.ErrBadFrame):
		r.logger.Warn("telemetry packet lost", slog.String("reason", err.Error()))
		r.handleAlerts(ctx, r.session.MarkLost(1))

	default:
		r.logger.Error("reading telemetry", slog.String("error", err.Error()))
		r.handleAlerts(ctx, r.session.MarkLost(1))
	}

	if len(r.pending) >= r.maxBatchSize {
		r.flush(ctx)
	}
}

func (r *Recorder) handleAlerts(ctx context.Context, alerts []mission.Alert) {
	for _, a := range alerts {
		r.logger.Log(ctx, alertLevel(a.Severity), a.Message,
			slog.String("severity", string(a.Severity)),
			slog.String("phase", r.session.Phase().String()))
		r.storeAlert(ctx, a)
	}
}

func (r *Recorder) storeAlert(ctx context.Context, a mission.Alert) {
	if err := r.store.StoreAlert(ctx, r.missionID, a); err != nil {
		r.logger.Error("storing alert", slog.String("error", err.Error()))
	}
}

func (r *Recorder) flush(ctx context.Context) {
	if len(r.pending) == 0 {
		return
	}

	if err := r.store.StoreSamples(ctx, r.missionID, r.pending); err != nil {
		r.logger.Error("storing samples", slog.String("error", err.Error()))
		return
	}
	r.pending = r.pending[:0]
}

// finish runs on a fresh context: the loop context is already done by
// the time the mission stops.
func (r *Recorder) finish() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopAlert := r.session.Stop()
	r.storeAlert(ctx, stopAlert)
	r.flush(ctx)

	stats := r.session.Stats()
	r.logger.Info("mission complete",
		slog.Group("stats",
			slog.Int("samples", r.session.SampleCount()),
			slog.Duration("elapsed", r.session.Elapsed()),
			slog.String("phase", r.session.Phase().String()),
			slog.Float64("maxAltitude", stats.MaxAltitude),
			slog.Float64("maxSpeed", stats.MaxSpeed),
			slog.Int64("packetsReceived", stats.PacketsReceived),
			slog.Int64("packetsLost", stats.PacketsLost),
		))

	samples := r.session.Samples()
	if len(samples) == 0 {
		return nil
	}

	path := filepath.Join(r.exportDir, storage.ExportFilename(r.session.StartedAt()))
	if err := storage.ExportCSV(path, samples); err != nil {
		return fmt.Errorf("exporting mission CSV: %w", err)
	}

	r.logger.Info("mission exported", slog.String("path", path))
	return nil
}

func alertLevel(severity mission.Severity) slog.Level {
	switch severity {
	case mission.SeverityWarning:
		return slog.LevelWarn
	case mission.SeverityCritical:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
