package warehouse

import (
	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/voucherparser"
)

func BuildInvoiceHeader(v voucherparser.Voucher) *models.InvoiceHeader {
	h := &models.InvoiceHeader{
		VoucherKey:  v.VoucherKey,
		VoucherType: v.VoucherType,
		Date:        v.Date,
		CustomerID:  v.Party,
		Subtotal:    v.Subtotal,
		Tax:         v.Tax,
		Total:       v.Total,
		RoundOff:    decimal.Zero,
		IsCancelled: v.IsCancelled,
	}
	if v.Narration != "" {
		h.Narration = &v.Narration
	}
	if v.ReferenceNumber != "" {
		h.ReferenceNumber = &v.ReferenceNumber
	}
	return h
}

// BuildInvoiceLines allocates voucher-level tax across inventory lines per
// spec.md §4.4.3: line_tax = round((line_basic/Σline_basic) × voucher_tax,
// 2), with the rounding residual absorbed by the last line so the lines
// sum exactly to voucher_tax.
func BuildInvoiceLines(v voucherparser.Voucher) []models.InvoiceLine {
	if len(v.InventoryLines) == 0 {
		return nil
	}

	sumBasic := decimal.Zero
	for _, l := range v.InventoryLines {
		sumBasic = sumBasic.Add(l.Amount)
	}

	lines := make([]models.InvoiceLine, len(v.InventoryLines))
	allocatedTax := decimal.Zero
	for i, l := range v.InventoryLines {
		var lineTax decimal.Decimal
		isLast := i == len(v.InventoryLines)-1
		if isLast {
			lineTax = v.Tax.Sub(allocatedTax)
		} else if !sumBasic.IsZero() {
			lineTax = l.Amount.Div(sumBasic).Mul(v.Tax).Round(2)
		}
		allocatedTax = allocatedTax.Add(lineTax)

		lines[i] = models.InvoiceLine{
			ItemName:  l.ItemName,
			Qty:       voucherparser.ParseQuantityRaw(l.BilledQtyRaw),
			UOM:       voucherparser.ParseUOM(l.BilledQtyRaw),
			Rate:      voucherparser.ParseQuantityRaw(l.RateRaw),
			Discount:  l.Discount,
			LineBasic: l.Amount,
			LineTax:   lineTax,
			LineTotal: l.Amount.Add(lineTax),
		}
	}
	return lines
}

// BuildBillMovements projects a voucher's raw bill allocations into the
// movement rows the Reconciler replays, preserving Tally's original sign
// (spec.md §4.6 step 1).
func BuildBillMovements(v voucherparser.Voucher) []models.BillMovement {
	if len(v.BillAllocations) == 0 {
		return nil
	}
	rows := make([]models.BillMovement, len(v.BillAllocations))
	for i, a := range v.BillAllocations {
		rows[i] = models.BillMovement{
			VoucherKey:       v.VoucherKey,
			Ledger:           v.Party,
			RefName:          a.RefName,
			Date:             v.Date,
			Amount:           a.Amount,
			BillType:         a.BillType,
			CreditPeriodDays: a.CreditPeriodDays,
		}
	}
	return rows
}

func BuildReceipt(v voucherparser.Voucher) *models.Receipt {
	return &models.Receipt{
		ReceiptKey: v.VoucherKey,
		Date:       v.Date,
		CustomerID: v.Party,
		Amount:     v.Total,
	}
}
