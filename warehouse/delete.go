package warehouse

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

// DeleteRange removes invoice_header rows (and their lines, via the
// cascade on invoice_line.invoice_key), receipt rows, and bill_movement
// rows dated in [from, to], for clear_and_reload (spec.md §4.5).
// bill_movement must be cleared alongside the invoice/receipt rows: it is
// the Reconciler's own history of raw bill allocations, keyed by voucher
// rather than by invoice_header, and a re-fetch that doesn't reproduce
// byte-identical voucher keys for the window would otherwise leave stale
// movements permanently polluting reconcile.Run. Checkpoint and run_log
// are untouched; this is a manual operation, not the incremental stream.
func DeleteRange(ctx context.Context, db *gorm.DB, from, to time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date >= ? AND date <= ?", from, to).Delete(&models.InvoiceHeader{}).Error; err != nil {
			return utils.NewError(utils.WarehouseError, "delete invoice headers in range", err)
		}
		if err := tx.Where("date >= ? AND date <= ?", from, to).Delete(&models.Receipt{}).Error; err != nil {
			return utils.NewError(utils.WarehouseError, "delete receipts in range", err)
		}
		if err := tx.Where("date >= ? AND date <= ?", from, to).Delete(&models.BillMovement{}).Error; err != nil {
			return utils.NewError(utils.WarehouseError, "delete bill movements in range", err)
		}
		return nil
	})
}
