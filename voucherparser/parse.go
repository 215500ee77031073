package voucherparser

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ParseResult carries the vouchers successfully extracted from one response
// document plus a count of voucher elements skipped due to malformed
// content (spec.md §7 ParseError: one bad voucher must not lose a window).
type ParseResult struct {
	Vouchers   []Voucher
	RowsErrored int
}

// Parse decodes a Tally voucher-register response and returns normalized
// voucher records in document order (spec.md §4.2's laziness requirement is
// satisfied in spirit: callers may range over Vouchers without the parser
// having mutated shared state, and nothing here requires more than one
// pass over the document).
func Parse(xmlText string, log *logrus.Logger) (ParseResult, error) {
	var root node
	if err := xml.Unmarshal([]byte(xmlText), &root); err != nil {
		return ParseResult{}, fmt.Errorf("voucherparser: response is not well-formed XML: %w", err)
	}

	now := time.Now().UTC()
	var result ParseResult
	for _, v := range root.findAll("VOUCHER") {
		voucher, err := parseOneVoucher(v, now, log)
		if err != nil {
			result.RowsErrored++
			if log != nil {
				log.WithFields(logrus.Fields{"module": "voucherparser"}).Warnf("skipping voucher: %v", err)
			}
			continue
		}
		result.Vouchers = append(result.Vouchers, voucher)
	}
	return result, nil
}

func parseOneVoucher(v *node, now time.Time, log *logrus.Logger) (Voucher, error) {
	vchtype := attrOrText(v, "VCHTYPE")
	if vchtype == "" {
		vchtype = v.childText("VOUCHERTYPENAME")
	}
	if vchtype == "" {
		return Voucher{}, fmt.Errorf("voucher element has no VCHTYPE")
	}

	vchnumber := attrOrText(v, "VCHNUMBER")
	if vchnumber == "" {
		vchnumber = v.childText("VOUCHERNUMBER")
	}
	guid := attrOrText(v, "GUID")
	remoteID := attrOrText(v, "REMOTEID")
	if guid == "" && remoteID != "" {
		guid = remoteID
	}

	party := strings.TrimSpace(firstNonEmpty(v.childText("PARTYLEDGERNAME"), v.childText("PARTYNAME")))
	date := parseTallyDate(v.childText("DATE"), now)
	dateKey := date.Format("20060102")

	headerAmount := parseAmount(v.childText("AMOUNT"))
	subtotal, total, caseTag := resolveAmount(v, vchtype, party, headerAmount)
	subtotal, tax, total := normalizeSign(vchtype, subtotal, total)
	key := voucherKey(vchtype, guid, remoteID, vchnumber, dateKey, party, total)

	if caseTag == 'E' && log != nil {
		log.WithFields(logrus.Fields{
			"module":      "voucherparser",
			"voucher_key": key,
		}).Warn("amount resolution fell back to header AMOUNT (case E); tax is likely lost")
	}

	voucher := Voucher{
		VoucherKey:           key,
		VoucherType:          vchtype,
		VoucherNumber:        vchnumber,
		GUID:                 guid,
		Date:                 date,
		Party:                party,
		PartyGSTIN:           firstNonEmpty(v.childText("PARTYGSTIN"), v.childText("BASICBUYERPARTYGSTIN")),
		PartyPincode:         firstNonEmpty(v.childText("PARTYPINCODE"), v.childText("BASICBUYERPINCODE")),
		PartyCity:            firstNonEmpty(v.childText("PARTYCITY"), v.childText("BASICBUYERSTATE")),
		Subtotal:             subtotal,
		Tax:                  tax,
		Total:                total,
		Narration:            v.childText("NARRATION"),
		ReferenceNumber:      firstNonEmpty(v.childText("REFERENCENUMBER"), v.childText("REFERENCE")),
		IsCancelled:          parseBool(v.childText("ISCANCELLED")),
		InventoryLines:       parseInventoryLines(v),
		BillAllocations:      parseBillAllocations(v),
		AmountResolutionCase: caseTag,
	}
	return voucher, nil
}

func parseInventoryLines(v *node) []InventoryLine {
	entries := v.findAll("ALLINVENTORYENTRIES.LIST")
	lines := make([]InventoryLine, 0, len(entries))
	for _, e := range entries {
		billedQty := e.childText("BILLEDQTY")
		rate := e.childText("RATE")
		lines = append(lines, InventoryLine{
			ItemName:     e.childText("STOCKITEMNAME"),
			BilledQtyRaw: billedQty,
			RateRaw:      rate,
			Amount:       parseAmount(e.childText("AMOUNT")),
			Discount:     parseAmount(e.childText("DISCOUNT")),
		})
	}
	return lines
}

func parseBillAllocations(v *node) []BillAllocation {
	entries := v.findAll("BILLALLOCATIONS.LIST")
	allocs := make([]BillAllocation, 0, len(entries))
	for _, e := range entries {
		var days *int
		if raw := e.childText("BILLCREDITPERIOD"); raw != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				days = &n
			}
		}
		allocs = append(allocs, BillAllocation{
			RefName:          e.childText("NAME"),
			Amount:           parseAmount(e.childText("AMOUNT")),
			BillType:         e.childText("BILLTYPE"),
			CreditPeriodDays: days,
		})
	}
	return allocs
}

func attrOrText(v *node, tag string) string {
	if a := v.attr(tag); a != "" {
		return a
	}
	return v.childText(tag)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
