package storage

import (
	"time"
)

// Mission is one recorded mission as stored in the database.
type Mission struct {
	ID         int64
	RunID      string
	StartTime  time.Time
	SourceType string
	SourceID   string
	Config     *string
}
