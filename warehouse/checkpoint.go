package warehouse

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

// WriteCheckpoint records the last successfully ingested date for a
// stream. Only the incremental driver calls this; backfill and
// clear-and-reload never advance checkpoints (spec.md §4.5).
func WriteCheckpoint(ctx context.Context, db *gorm.DB, streamName string, lastDate time.Time) error {
	row := models.Checkpoint{StreamName: streamName, LastDate: lastDate}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stream_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_date"}),
		}).
		Create(&row).Error
	if err != nil {
		return utils.NewError(utils.WarehouseError, "write checkpoint", err)
	}
	return nil
}

// ReadCheckpoint returns the last successful date for a stream, or
// (zero-value, false) if none has ever been written.
func ReadCheckpoint(ctx context.Context, db *gorm.DB, streamName string) (time.Time, bool, error) {
	var row models.Checkpoint
	err := db.WithContext(ctx).Where("stream_name = ?", streamName).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, utils.NewError(utils.WarehouseError, "read checkpoint", err)
	}
	return row.LastDate, true, nil
}

// AppendRunLog inserts one audit-trail row per window per stream.
func AppendRunLog(ctx context.Context, db *gorm.DB, runID, streamName string, runAt time.Time, rows, rowsErrored int, status string, runErr error) error {
	row := models.RunLog{
		RunID:       runID,
		StreamName:  streamName,
		RunAt:       runAt,
		Rows:        rows,
		RowsErrored: rowsErrored,
		Status:      status,
	}
	if runErr != nil {
		msg := runErr.Error()
		row.Error = &msg
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "append run log", err)
	}
	return nil
}
