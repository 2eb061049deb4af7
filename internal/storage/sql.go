package storage

import (
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

const (
	insertMissionSQL = `
INSERT INTO missions (
                      run_id,
                      start_time,
                      source_type,
                      source_id,
                      config)
VALUES (?, CURRENT_TIMESTAMP, ?, ?, ?)`

	selectMissionSQL = `
SELECT
    id,
    run_id,
    start_time,
    source_type,
    source_id,
    config
FROM missions
WHERE
    id = ?`

	selectMissionByRunSQL = `
SELECT
    id,
    run_id,
    start_time,
    source_type,
    source_id,
    config
FROM missions
WHERE
    run_id = ?`

	selectMissionsSQL = `
SELECT
    id,
    run_id,
    start_time,
    source_type,
    source_id,
    config
FROM missions
ORDER BY start_time`

	insertAlertSQL = `
INSERT INTO alerts (mission_id,
                    created_at,
                    severity,
                    message)
VALUES (?, ?, ?, ?)`

	selectAlertsSQL = `
SELECT
    created_at,
    severity,
    message
FROM alerts
WHERE
    mission_id = ?
ORDER BY created_at, id`

	selectSampleRangeSQL = `
SELECT
    MIN(mission_time),
    MAX(mission_time)
FROM samples
WHERE
    mission_id = ?`

	selectSamplesSQL = `
SELECT
    mission_time,
    altitude,
    temperature,
    pressure,
    humidity,
    gyro_x,
    gyro_y,
    gyro_z,
    accel_x,
    accel_y,
    accel_z,
    latitude,
    longitude
FROM samples
WHERE
    mission_id = ?
    AND mission_time BETWEEN ? AND ?
ORDER BY mission_time, id`

	insertSamplesSQL = `
INSERT INTO samples (mission_id,
                     mission_time,
                     altitude,
                     temperature,
                     pressure,
                     humidity,
                     gyro_x,
                     gyro_y,
                     gyro_z,
                     accel_x,
                     accel_y,
                     accel_z,
                     latitude,
                     longitude)
VALUES `
)
