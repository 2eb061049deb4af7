// Package storage persists missions, telemetry samples and alerts in a
// SQLite database, one file per recording session.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// SqliteStore handles database operations. Write and read connections
// are opened lazily and independently: the recorder only ever writes,
// the report tool only ever reads.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store over the SQLite database at dbPath.
// The schema is initialized on the first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateMission records the start of a mission and returns its database
// ID. config may be a string, raw bytes or any JSON-marshalable value;
// it is stored verbatim for later inspection.
func (s *SqliteStore) CreateMission(ctx context.Context, runID, sourceType, sourceID string, config any) (missionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertMissionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, runID, sourceType, sourceID, configData)
	if err != nil {
		err = fmt.Errorf("inserting mission: %w", err)
		return
	}

	missionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting mission ID: %w", err)
	}
	return
}

// Mission returns a mission by its database ID.
func (s *SqliteStore) Mission(ctx context.Context, id int64) (*Mission, error) {
	return s.queryMission(ctx, selectMissionSQL, id)
}

// MissionByRunID returns a mission by its run identifier.
func (s *SqliteStore) MissionByRunID(ctx context.Context, runID string) (*Mission, error) {
	return s.queryMission(ctx, selectMissionByRunSQL, runID)
}

func (s *SqliteStore) queryMission(ctx context.Context, query string, key any) (m *Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var mis Mission
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, key).Scan(&mis.ID, &mis.RunID, &mis.StartTime, &mis.SourceType, &mis.SourceID, &config); err != nil {
		err = fmt.Errorf("scanning mission: %w", err)
		return
	}
	if config.Valid {
		mis.Config = &config.String
	}

	return &mis, nil
}

// Missions returns every recorded mission, oldest first.
func (s *SqliteStore) Missions(ctx context.Context) (missions []*Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectMissionsSQL)
	if err != nil {
		err = fmt.Errorf("querying missions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var mis Mission
		var config sql.NullString
		if err = rows.Scan(&mis.ID, &mis.RunID, &mis.StartTime, &mis.SourceType, &mis.SourceID, &config); err != nil {
			err = fmt.Errorf("scanning mission: %w", err)
			return
		}
		if config.Valid {
			mis.Config = &config.String
		}
		missions = append(missions, &mis)
	}
	err = rows.Err()
	return
}

// StoreSamples inserts a batch of samples for a mission in a single
// transaction.
func (s *SqliteStore) StoreSamples(ctx context.Context, missionID int64, samples []telemetry.Sample) (err error) {
	if len(samples) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	valuesPlaceholder := "(?" + strings.Repeat(", ?", telemetry.NumFields) + ")"

	var sb strings.Builder
	sb.WriteString(insertSamplesSQL)

	values := make([]any, 0, len(samples)*(telemetry.NumFields+1))
	for i, sample := range samples {
		values = append(values, missionID)
		for _, v := range sample.Values() {
			values = append(values, v)
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valuesPlaceholder)
	}

	if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting samples: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// StoreAlert appends one alert log entry for a mission.
func (s *SqliteStore) StoreAlert(ctx context.Context, missionID int64, alert mission.Alert) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertAlertSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, missionID, alert.Timestamp.UTC(), string(alert.Severity), alert.Message); err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// Alerts returns the alert log of a mission, oldest first.
func (s *SqliteStore) Alerts(ctx context.Context, missionID int64) (alerts []mission.Alert, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectAlertsSQL, missionID)
	if err != nil {
		err = fmt.Errorf("querying alerts: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var a mission.Alert
		var severity string
		if err = rows.Scan(&a.Timestamp, &severity, &a.Message); err != nil {
			err = fmt.Errorf("scanning alert: %w", err)
			return
		}
		a.Severity = mission.Severity(severity)
		alerts = append(alerts, a)
	}
	err = rows.Err()
	return
}

// ReadSamples creates a SampleReader over one mission's telemetry. The
// returned reader must be closed after use.
func (s *SqliteStore) ReadSamples(ctx context.Context, missionID int64, opts ...ReaderOption) (*SampleReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSampleReader(ctx, db, missionID, opts...)
}

// Close closes both database connections. Safe to call more than once.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
