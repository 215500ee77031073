package models

import "time"

// Checkpoint is the last successfully ingested date for a stream, read back
// on the next incremental run. It is the only input state the engine reads
// besides warehouse outputs.
type Checkpoint struct {
	StreamName string    `gorm:"primary_key;column:stream_name"`
	LastDate   time.Time `gorm:"not null;column:last_date"`
	LastKey    *string   `gorm:"column:last_key"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Checkpoint) TableName() string {
	return "checkpoint"
}

// RunLog is an audit-trail row, one insert per run/window/stream.
type RunLog struct {
	ID          uint      `gorm:"primary_key"`
	RunID       string    `gorm:"index;column:run_id"`
	StreamName  string    `gorm:"index;not null;column:stream_name"`
	RunAt       time.Time `gorm:"not null;column:run_at"`
	Rows        int       `gorm:"column:rows"`
	RowsErrored int       `gorm:"column:rows_errored"`
	Status      string    `gorm:"not null"`
	Error       *string
}

func (RunLog) TableName() string {
	return "run_log"
}
