package warehouse

import (
	"context"

	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/voucherparser"
)

// WriteVoucher processes one voucher's header, lines, customer upsert, and
// (for Receipt vouchers) receipt mirror inside a single transaction, so a
// mid-voucher failure leaves the warehouse consistent (spec.md §4.4
// "Transaction discipline"). A failure here is a WarehouseError: it aborts
// this voucher only, the caller is expected to continue with the next one.
func WriteVoucher(ctx context.Context, db *gorm.DB, v voucherparser.Voucher) error {
	return db.Transaction(func(tx *gorm.DB) error {
		header := BuildInvoiceHeader(v)
		invoiceKey, err := UpsertInvoice(ctx, tx, header, v.Party, strPtr(v.PartyGSTIN), strPtr(v.PartyPincode), strPtr(v.PartyCity))
		if err != nil {
			return err
		}

		if err := ReplaceInvoiceLines(ctx, tx, invoiceKey, BuildInvoiceLines(v)); err != nil {
			return err
		}

		if err := ReplaceBillMovements(ctx, tx, v.VoucherKey, BuildBillMovements(v)); err != nil {
			return err
		}

		if v.VoucherType == "Receipt" {
			if err := UpsertReceipt(ctx, tx, BuildReceipt(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
