package voucherparser

import "github.com/shopspring/decimal"

// ParseQuantityRaw and ParseUOM are exported for the warehouse writer,
// which needs to turn a voucher's raw BILLEDQTY/RATE strings into typed
// invoice_line columns.
func ParseQuantityRaw(raw string) decimal.Decimal { return parseQuantityRaw(raw) }
func ParseUOM(raw string) string                  { return parseUOM(raw) }
func ParseAmount(raw string) decimal.Decimal      { return parseAmount(raw) }
