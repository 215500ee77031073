package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceHeader is one row per voucher of any type seen, keyed by the
// stable voucher_key derived by the parser. It is created on first sight
// and updated on every re-observation of the same voucher.
type InvoiceHeader struct {
	InvoiceKey       uint      `gorm:"primary_key;column:invoice_key"`
	VoucherKey       string    `gorm:"uniqueIndex;not null;column:voucher_key"`
	VoucherType      string    `gorm:"index;not null"`
	Date             time.Time `gorm:"index;not null"`
	CustomerID       string    `gorm:"index;not null;column:customer_id"`
	SalespersonID    *string   `gorm:"column:salesperson_id"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	Tax              decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	RoundOff         decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	Narration        *string
	ReferenceNumber  *string `gorm:"column:reference_number"`
	IsCancelled      bool    `gorm:"default:false;column:is_cancelled"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceKey;constraint:OnDelete:CASCADE"`
}

func (InvoiceHeader) TableName() string {
	return "invoice_header"
}

// InvoiceLine is an item-level breakdown row. Lines for a voucher are
// deleted then reinserted on each load; LineOrdinal preserves document
// order for the (invoice_key, line_ordinal) natural key.
type InvoiceLine struct {
	LineID      uint   `gorm:"primary_key;column:line_id"`
	InvoiceKey  uint   `gorm:"index;not null;column:invoice_key"`
	LineOrdinal int    `gorm:"not null;column:line_ordinal"`
	ItemID      *uint  `gorm:"column:item_id"`
	ItemName    string `gorm:"not null"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,3);default:0"`
	UOM         string
	Rate        decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	LineBasic   decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:line_basic"`
	LineTax     decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:line_tax"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(20,2);default:0;column:line_total"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (InvoiceLine) TableName() string {
	return "invoice_line"
}

// Receipt is the cashflow mirror of Receipt-type vouchers, kept separately
// from invoice_header so downstream cashflow queries don't have to filter
// voucher_type out of a mixed table.
type Receipt struct {
	ReceiptID  uint      `gorm:"primary_key;column:receipt_id"`
	ReceiptKey string    `gorm:"uniqueIndex;not null;column:receipt_key"`
	Date       time.Time `gorm:"index;not null"`
	CustomerID string    `gorm:"index;not null;column:customer_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Receipt) TableName() string {
	return "receipt"
}
