package warehouse

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

// UpsertInvoice inserts or updates invoice_header by voucher_key and
// returns the row's invoice_key. The referenced customer is upserted first
// so the foreign key holds (spec.md §4.4.2).
func UpsertInvoice(ctx context.Context, tx *gorm.DB, header *models.InvoiceHeader, customerName string, gstin, pincode, city *string) (uint, error) {
	if err := UpsertCustomer(ctx, tx, header.CustomerID, customerName, gstin, pincode, city); err != nil {
		return 0, err
	}

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "voucher_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"voucher_type", "date", "customer_id", "salesperson_id",
				"subtotal", "tax", "total", "round_off",
				"narration", "reference_number", "is_cancelled",
			}),
		}).
		Create(header).Error
	if err != nil {
		return 0, utils.NewError(utils.WarehouseError, "upsert invoice header", err)
	}

	var stored models.InvoiceHeader
	if err := tx.WithContext(ctx).Where("voucher_key = ?", header.VoucherKey).First(&stored).Error; err != nil {
		return 0, utils.NewError(utils.WarehouseError, "read back invoice header", err)
	}
	return stored.InvoiceKey, nil
}

// ReplaceInvoiceLines deletes all existing lines for invoiceKey and inserts
// the supplied lines, per spec.md §4.4.3's "regenerated on each load"
// lifecycle for invoice_line.
func ReplaceInvoiceLines(ctx context.Context, tx *gorm.DB, invoiceKey uint, lines []models.InvoiceLine) error {
	if err := tx.WithContext(ctx).Where("invoice_key = ?", invoiceKey).Delete(&models.InvoiceLine{}).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "delete existing invoice lines", err)
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].InvoiceKey = invoiceKey
		lines[i].LineOrdinal = i
	}
	if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "insert invoice lines", err)
	}
	return nil
}

// ReplaceBillMovements deletes existing bill_movement rows for voucherKey
// and inserts the supplied ones, mirroring ReplaceInvoiceLines's lifecycle.
func ReplaceBillMovements(ctx context.Context, tx *gorm.DB, voucherKey string, movements []models.BillMovement) error {
	if err := tx.WithContext(ctx).Where("voucher_key = ?", voucherKey).Delete(&models.BillMovement{}).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "delete existing bill movements", err)
	}
	if len(movements) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Create(&movements).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "insert bill movements", err)
	}
	return nil
}

// UpsertReceipt inserts or updates receipt by receipt_key.
func UpsertReceipt(ctx context.Context, tx *gorm.DB, receipt *models.Receipt) error {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "receipt_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"date", "customer_id", "amount"}),
		}).
		Create(receipt).Error
	if err != nil {
		return utils.NewError(utils.WarehouseError, "upsert receipt", err)
	}
	return nil
}
