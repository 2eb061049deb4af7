package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// ReaderOption configures a SampleReader with filtering criteria.
type ReaderOption func(*SampleReader)

// WithFromTime excludes samples recorded before t seconds of mission
// time.
func WithFromTime(t float64) ReaderOption {
	return func(r *SampleReader) {
		r.fromTime = &t
	}
}

// WithToTime excludes samples recorded after t seconds of mission time.
func WithToTime(t float64) ReaderOption {
	return func(r *SampleReader) {
		r.toTime = &t
	}
}

// WithTimeRange bounds the reader to [from, to] seconds of mission
// time. Equivalent to applying WithFromTime and WithToTime.
func WithTimeRange(from, to float64) ReaderOption {
	return func(r *SampleReader) {
		r.fromTime = &from
		r.toTime = &to
	}
}

// SampleReader iterates over one mission's stored telemetry in mission
// time order. Each reader should only be used from a single goroutine.
type SampleReader struct {
	db        *sql.DB
	missionID int64
	mission   *Mission

	fromTime *float64
	toTime   *float64

	current telemetry.Sample
	rows    *sql.Rows
	err     error
}

func newSampleReader(ctx context.Context, db *sql.DB, missionID int64, opts ...ReaderOption) (*SampleReader, error) {
	r := &SampleReader{
		db:        db,
		missionID: missionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return r, nil
}

func (r *SampleReader) init(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection required")
	}
	if r.missionID <= 0 {
		return errors.New("mission ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading mission", fn: r.loadMission},
		{msg: "initializing filters", fn: r.initFilters},
		{msg: "initializing query", fn: r.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (r *SampleReader) loadMission(ctx context.Context) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectMissionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var mis Mission
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, r.missionID).Scan(&mis.ID, &mis.RunID, &mis.StartTime, &mis.SourceType, &mis.SourceID, &config); err != nil {
		return fmt.Errorf("querying mission: %w", err)
	}
	if config.Valid {
		mis.Config = &config.String
	}

	r.mission = &mis
	return
}

func (r *SampleReader) initFilters(ctx context.Context) (err error) {
	if r.fromTime != nil && r.toTime != nil {
		if *r.fromTime > *r.toTime {
			return fmt.Errorf("from time %f is after to time %f", *r.fromTime, *r.toTime)
		}
		return nil
	}

	stmt, err := r.db.PrepareContext(ctx, selectSampleRangeSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var fromTime, toTime sql.NullFloat64
	if err = stmt.QueryRowContext(ctx, r.missionID).Scan(&fromTime, &toTime); err != nil {
		return fmt.Errorf("scanning time range: %w", err)
	}

	if r.fromTime == nil {
		r.fromTime = &fromTime.Float64
	}
	if r.toTime == nil {
		r.toTime = &toTime.Float64
	}

	return nil
}

func (r *SampleReader) initQuery(ctx context.Context) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectSamplesSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if r.rows, err = stmt.QueryContext(ctx, r.missionID, r.fromTime, r.toTime); err != nil {
		return err
	}
	return nil
}

// Mission returns metadata about the mission this reader is accessing.
func (r *SampleReader) Mission() *Mission {
	return r.mission
}

// Next advances the iterator and returns true if there is another
// sample to read, false when the iteration is complete or an error
// occurred.
func (r *SampleReader) Next(ctx context.Context) bool {
	if r.err != nil || r.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	if !r.rows.Next() {
		return false
	}

	var s telemetry.Sample
	if r.err = r.rows.Scan(
		&s.Time,
		&s.Altitude,
		&s.Temperature,
		&s.Pressure,
		&s.Humidity,
		&s.GyroX,
		&s.GyroY,
		&s.GyroZ,
		&s.AccelX,
		&s.AccelY,
		&s.AccelZ,
		&s.Latitude,
		&s.Longitude,
	); r.err != nil {
		r.err = fmt.Errorf("scanning sample: %w", r.err)
		return false
	}

	r.current = s
	return true
}

// Current returns the sample at the iterator position. If called
// after Next returns false, the behavior is undefined.
func (r *SampleReader) Current() telemetry.Sample {
	return r.current
}

// Error returns any error that occurred during iteration.
func (r *SampleReader) Error() error {
	if r.err != nil {
		return r.err
	}
	if r.rows != nil {
		return r.rows.Err()
	}
	return nil
}

// Close releases the database resources held by the reader.
func (r *SampleReader) Close() error {
	if r.rows != nil {
		err := r.rows.Close()
		r.rows = nil
		return err
	}
	return nil
}
