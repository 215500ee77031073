package voucherparser

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a normalized record over one Tally voucher, after
// amount-resolution and sign normalization.
type Voucher struct {
	VoucherKey      string
	VoucherType     string
	VoucherNumber   string
	GUID            string
	Date            time.Time
	Party           string
	PartyGSTIN      string
	PartyPincode    string
	PartyCity       string

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal

	Narration       string
	ReferenceNumber string
	IsCancelled     bool

	InventoryLines  []InventoryLine
	BillAllocations []BillAllocation

	// AmountResolutionCase records which of §4.2's cases A-E produced
	// Subtotal/Total, so callers can log a warning on case E per spec.md §9.
	AmountResolutionCase rune
}

type InventoryLine struct {
	ItemName     string
	BilledQtyRaw string
	RateRaw      string
	Amount       decimal.Decimal
	Discount     decimal.Decimal
}

type BillAllocation struct {
	RefName          string
	Amount           decimal.Decimal
	BillType         string
	CreditPeriodDays *int
}
