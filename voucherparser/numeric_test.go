package voucherparser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"118000.00", "118000"},
		{"(1180.00)", "-1180"},
		{"1,18,000.00", "118000"},
		{"", "0"},
		{"not-a-number", "0"},
	}
	for _, c := range cases {
		got := parseAmount(c.raw)
		require.True(t, got.Equal(decimal.RequireFromString(c.want)), "parseAmount(%q) = %s, want %s", c.raw, got, c.want)
	}
}

func TestParseQuantityRawAndUOM(t *testing.T) {
	cases := []struct {
		raw     string
		qty     string
		uom     string
	}{
		{"2 Nos", "2", "Nos"},
		{"35000 / Nos", "35000", "Nos"},
		{"-3.5 Kg", "-3.5", "Kg"},
	}
	for _, c := range cases {
		gotQty := parseQuantityRaw(c.raw)
		require.True(t, gotQty.Equal(decimal.RequireFromString(c.qty)), "parseQuantityRaw(%q) = %s, want %s", c.raw, gotQty, c.qty)
		require.Equal(t, c.uom, parseUOM(c.raw))
	}
}

func TestParseTallyDateFormats(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"20251011", time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"2025-10-11", time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"11-Oct-2025", time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"garbage", now},
	}
	for _, c := range cases {
		got := parseTallyDate(c.raw, now)
		require.True(t, got.Equal(c.want), "parseTallyDate(%q) = %s, want %s", c.raw, got, c.want)
	}
}
