package voucherparser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ledgerSingleListTypes are the voucher types for which the party's amount
// lives under LEDGERENTRIES.LIST (single-L tag); every other type searches
// ALLLEDGERENTRIES.LIST (double-L tag). This voucher-type-aware branch is
// mandatory — picking the wrong tag silently yields zero tax (the
// "Vishwakarma" regression noted in spec.md §9). These are also treated as
// the tax-bearing set for P4 (non-invoice vouchers carry no tax split).
var ledgerSingleListTypes = map[string]bool{
	"Invoice":         true,
	"Sales":           true,
	"Credit Note":     true,
	"Sales Return":    true,
	"Purchase":        true,
	"Purchase Return": true,
	"Debit Note":      true,
}

const ledgerNamePrefixLen = 15

// resolveAmount implements spec.md §4.2's amount-resolution case table
// (A-E). It returns the resolved subtotal/total and which case fired, so
// callers can warn on case E per spec.md §9.
func resolveAmount(v *node, vchtype, party string, headerAmount decimal.Decimal) (subtotal, total decimal.Decimal, caseTag rune) {
	amtInventory, hasInventory := sumInventoryAmount(v)
	amtLedger, hasLedger := findLedgerAmount(v, vchtype, party)
	amtBillAlloc, hasBillAlloc := firstBillAllocAmount(v)

	switch {
	case hasInventory && (hasLedger || hasBillAlloc):
		subtotal = amtInventory
		if hasLedger {
			total = amtLedger.Abs()
		} else {
			total = amtBillAlloc
		}
		return subtotal, total, 'A'
	case hasLedger:
		total = amtLedger.Abs()
		return total, total, 'B'
	case hasBillAlloc:
		return amtBillAlloc, amtBillAlloc, 'C'
	case hasInventory:
		return amtInventory, amtInventory, 'D'
	default:
		return headerAmount, headerAmount, 'E'
	}
}

func sumInventoryAmount(v *node) (decimal.Decimal, bool) {
	entries := v.findAll("ALLINVENTORYENTRIES.LIST")
	if len(entries) == 0 {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(parseAmount(e.childText("AMOUNT")))
	}
	return sum, true
}

func findLedgerAmount(v *node, vchtype, party string) (decimal.Decimal, bool) {
	tag := "ALLLEDGERENTRIES.LIST"
	if ledgerSingleListTypes[vchtype] {
		tag = "LEDGERENTRIES.LIST"
	}
	for _, e := range v.findAll(tag) {
		name := e.childText("LEDGERNAME")
		if ledgerNameMatches(name, party) {
			return parseAmount(e.childText("AMOUNT")), true
		}
	}
	return decimal.Zero, false
}

func ledgerNameMatches(name, party string) bool {
	if strings.EqualFold(name, party) {
		return true
	}
	if len(name) >= ledgerNamePrefixLen && len(party) >= ledgerNamePrefixLen {
		return strings.EqualFold(name[:ledgerNamePrefixLen], party[:ledgerNamePrefixLen])
	}
	return false
}

func firstBillAllocAmount(v *node) (decimal.Decimal, bool) {
	allocs := v.findAll("BILLALLOCATIONS.LIST")
	if len(allocs) == 0 {
		return decimal.Zero, false
	}
	return parseAmount(allocs[0].childText("AMOUNT")), true
}
