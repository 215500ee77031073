package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningBill is the opening receivable/advance state loaded from Tally's
// ledger master, keyed by (ledger, ref_name). It is overwritten wholesale
// on every master load.
type OpeningBill struct {
	ID                uint   `gorm:"primary_key"`
	Ledger            string `gorm:"uniqueIndex:idx_opening_bill_key;not null"`
	RefName           string `gorm:"uniqueIndex:idx_opening_bill_key;not null;column:ref_name"`
	BillDate          *time.Time `gorm:"column:bill_date"`
	OpeningBalance    decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:opening_balance"`
	CreditPeriodDays  *int    `gorm:"column:credit_period_days"`
	IsAdvance         bool    `gorm:"default:false;column:is_advance"`
}

func (OpeningBill) TableName() string {
	return "opening_bill"
}

// BillMovement is one raw bill-allocation line emitted by a voucher
// (New Ref, Agst Ref, Advance, On Account), kept so the Reconciler can
// replay every movement for a (ledger, ref_name) without re-fetching or
// re-parsing past vouchers. Rows for a voucher are deleted and reinserted
// on each load, mirroring invoice_line's lifecycle.
type BillMovement struct {
	ID               uint      `gorm:"primary_key"`
	VoucherKey       string    `gorm:"index;not null;column:voucher_key"`
	Ledger           string    `gorm:"index;not null"`
	RefName          string    `gorm:"index;not null;column:ref_name"`
	Date             time.Time `gorm:"index;not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	BillType         string    `gorm:"not null;column:bill_type"`
	CreditPeriodDays *int      `gorm:"column:credit_period_days"`
}

func (BillMovement) TableName() string {
	return "bill_movement"
}

// BillReceivableFact is the current outstanding per bill, recomputed
// wholesale by the reconciler rather than mutated incrementally.
type BillReceivableFact struct {
	ID                uint       `gorm:"primary_key"`
	Ledger            string     `gorm:"uniqueIndex:idx_bill_receivable_key;not null"`
	RefName           string     `gorm:"uniqueIndex:idx_bill_receivable_key;not null;column:ref_name"`
	BillDate          *time.Time `gorm:"column:bill_date"`
	DueDate           *time.Time `gorm:"column:due_date"`
	OriginalAmount    decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:original_amount"`
	AdjustedAmount    decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:adjusted_amount"`
	PendingAmount     decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:pending_amount"`
	LastAdjustedDate  *time.Time `gorm:"column:last_adjusted_date"`
	AgingBucket       string     `gorm:"column:aging_bucket"`
	IsAdvance         bool       `gorm:"default:false;column:is_advance"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (BillReceivableFact) TableName() string {
	return "bill_receivable_fact"
}
