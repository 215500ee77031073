package voucherparser

import "github.com/shopspring/decimal"

var negatedOnPositiveTypes = map[string]bool{
	"Credit Note":  true,
	"Sales Return": true,
}

// normalizeSign applies the Credit Note / Sales Return sign flip from
// spec.md §4.2 and enforces the tax-identity invariants of §3.3: tax is
// always recomputed as total-subtotal after any flip, and non-tax-bearing
// voucher types collapse to subtotal=total, tax=0 (P4).
func normalizeSign(vchtype string, subtotal, total decimal.Decimal) (newSubtotal, newTax, newTotal decimal.Decimal) {
	if negatedOnPositiveTypes[vchtype] {
		if subtotal.IsPositive() || total.IsPositive() {
			subtotal = subtotal.Neg()
			total = total.Neg()
		}
	}

	if !ledgerSingleListTypes[vchtype] {
		return total, decimal.Zero, total
	}

	return subtotal, total.Sub(subtotal), total
}
