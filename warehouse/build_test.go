package warehouse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmdatafocus/tally-warehouse-sync/voucherparser"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// BuildInvoiceLines must allocate tax proportionally to each line's share of
// the voucher's total basic amount, rounding to 2 places, and absorb any
// rounding residual into the last line so the lines sum exactly to the
// voucher-level tax (spec.md §4.4.3).
func TestBuildInvoiceLines_AllocatesTaxProportionallyWithResidualOnLastLine(t *testing.T) {
	v := voucherparser.Voucher{
		VoucherKey: "v-1",
		Tax:        dec("18000.00"),
		InventoryLines: []voucherparser.InventoryLine{
			{ItemName: "Widget A", Amount: dec("33333.33"), BilledQtyRaw: "1 Nos", RateRaw: "33333.33"},
			{ItemName: "Widget B", Amount: dec("33333.33"), BilledQtyRaw: "1 Nos", RateRaw: "33333.33"},
			{ItemName: "Widget C", Amount: dec("33333.34"), BilledQtyRaw: "1 Nos", RateRaw: "33333.34"},
		},
	}

	lines := BuildInvoiceLines(v)
	require.Len(t, lines, 3)

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTax)
	}
	require.True(t, total.Equal(v.Tax), "line tax total %s must equal voucher tax %s", total, v.Tax)

	for i, l := range lines {
		require.True(t, l.LineTotal.Equal(l.LineBasic.Add(l.LineTax)), "line %d total mismatch", i)
	}
}

func TestBuildInvoiceLines_NoInventoryLinesReturnsNil(t *testing.T) {
	v := voucherparser.Voucher{VoucherKey: "v-2"}
	require.Nil(t, BuildInvoiceLines(v))
}

func TestBuildInvoiceLines_SingleLineGetsAllTax(t *testing.T) {
	v := voucherparser.Voucher{
		VoucherKey: "v-3",
		Tax:        dec("1800.00"),
		InventoryLines: []voucherparser.InventoryLine{
			{ItemName: "Solo Item", Amount: dec("10000.00"), BilledQtyRaw: "1 Nos", RateRaw: "10000.00"},
		},
	}
	lines := BuildInvoiceLines(v)
	require.Len(t, lines, 1)
	require.True(t, lines[0].LineTax.Equal(dec("1800.00")))
	require.True(t, lines[0].LineTotal.Equal(dec("11800.00")))
}

func TestBuildBillMovements_PreservesOriginalSignAndFields(t *testing.T) {
	period := 30
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	v := voucherparser.Voucher{
		VoucherKey: "v-4",
		Party:      "Acme Distributors",
		Date:       date,
		BillAllocations: []voucherparser.BillAllocation{
			{RefName: "BILL-1", Amount: dec("-118000.00"), BillType: "New Ref", CreditPeriodDays: &period},
		},
	}

	movements := BuildBillMovements(v)
	require.Len(t, movements, 1)
	m := movements[0]
	require.Equal(t, "v-4", m.VoucherKey)
	require.Equal(t, "Acme Distributors", m.Ledger)
	require.Equal(t, "BILL-1", m.RefName)
	require.True(t, m.Date.Equal(date))
	require.True(t, m.Amount.Equal(dec("-118000.00")))
	require.Equal(t, "New Ref", m.BillType)
	require.NotNil(t, m.CreditPeriodDays)
	require.Equal(t, 30, *m.CreditPeriodDays)
}

func TestBuildBillMovements_NoAllocationsReturnsNil(t *testing.T) {
	v := voucherparser.Voucher{VoucherKey: "v-5"}
	require.Nil(t, BuildBillMovements(v))
}
