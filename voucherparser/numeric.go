package voucherparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseAmount parses a Tally numeric string, stripping thousands
// separators and treating "(x)" as negation. Non-parsable values become
// zero rather than erroring, per spec.md §4.2.
func parseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

var leadingNumberPattern = regexp.MustCompile(`[-\d.,]+`)

// parseQuantityRaw extracts the leading numeric portion of strings like
// "2 Nos" or "35000 / Nos", discarding the trailing unit text.
func parseQuantityRaw(raw string) decimal.Decimal {
	m := leadingNumberPattern.FindString(raw)
	if m == "" {
		return decimal.Zero
	}
	return parseAmount(m)
}

// parseUOM extracts the unit-of-measure suffix from a raw quantity or rate
// string such as "2 Nos" or "35000 / Nos".
func parseUOM(raw string) string {
	parts := strings.SplitN(raw, "/", 2)
	last := strings.TrimSpace(parts[len(parts)-1])
	fields := strings.Fields(last)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"02-Jan-2006",
}

// parseTallyDate parses DATE text across the three tolerated formats,
// substituting today's date (UTC) on failure per spec.md §4.2 step 3.
func parseTallyDate(raw string, now time.Time) time.Time {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now.Truncate(24 * time.Hour)
}
