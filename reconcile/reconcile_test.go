package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrDay(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func intPtr(n int) *int { return &n }

// the explicit opening + New Ref + two Agst Ref scenario: opening balance
// and a same-window New Ref for the same bill must not double-count in the
// pending total; original/adjusted/pending/due_date/last_adjusted_date must
// match original(100000) - adjusted(70000) = pending(30000).
func TestAggregate_OpeningAndNewRefDoNotDoubleCount(t *testing.T) {
	s := &billState{
		hasOpening:    true,
		openingAmount: dec("-50000.00"),
		isAdvance:     true,

		hasNewRef:   true,
		newRefTotal: dec("-100000.00"),
		newRefDate:  ptrDay(2025, time.June, 1),
		creditPeriod: intPtr(30),

		agstRefTotal: dec("70000.00"),
		agstRefMax:   ptrDay(2025, time.July, 15),
	}

	today := day(2025, time.August, 1)
	fact := aggregate(key{Ledger: "Acme Distributors", RefName: "BILL-1"}, s, today)
	require.NotNil(t, fact)

	require.True(t, fact.OriginalAmount.Equal(dec("100000.00")))
	require.True(t, fact.AdjustedAmount.Equal(dec("70000.00")))
	require.True(t, fact.PendingAmount.Equal(dec("30000.00")))
	require.NotNil(t, fact.DueDate)
	require.True(t, fact.DueDate.Equal(day(2025, time.July, 1)))
	require.NotNil(t, fact.LastAdjustedDate)
	require.True(t, fact.LastAdjustedDate.Equal(day(2025, time.July, 15)))
	require.True(t, fact.IsAdvance, "is_advance must carry through from opening_bill")
}

// A bill with no New Ref falls back to opening balance alone for both the
// signed pending total and the original-amount reconstruction.
func TestAggregate_OpeningOnlyNoNewRef(t *testing.T) {
	s := &billState{
		hasOpening:    true,
		openingAmount: dec("-25000.00"),
		openingDate:   ptrDay(2025, time.January, 1),
		creditPeriod:  intPtr(15),

		agstRefTotal: dec("10000.00"),
		agstRefMax:   ptrDay(2025, time.January, 20),
	}

	fact := aggregate(key{Ledger: "Acme Distributors", RefName: "BILL-OLD"}, s, day(2025, time.February, 1))
	require.NotNil(t, fact)
	require.True(t, fact.OriginalAmount.Equal(dec("35000.00")))
	require.True(t, fact.AdjustedAmount.Equal(dec("10000.00")))
	require.True(t, fact.PendingAmount.Equal(dec("15000.00")))
}

// A bill whose signed movements net to within the 0.01 threshold is fully
// settled and must be excluded from the fact table.
func TestAggregate_FullySettledBillExcludedByThreshold(t *testing.T) {
	s := &billState{
		hasNewRef:   true,
		newRefTotal: dec("-50000.00"),
		newRefDate:  ptrDay(2025, time.March, 1),

		agstRefTotal: dec("50000.00"),
		agstRefMax:   ptrDay(2025, time.March, 10),
	}

	fact := aggregate(key{Ledger: "Acme Distributors", RefName: "BILL-PAID"}, s, day(2025, time.April, 1))
	require.Nil(t, fact)
}

func TestAgingBucket(t *testing.T) {
	today := day(2025, time.August, 1)
	cases := []struct {
		name    string
		dueDate *time.Time
		want    string
	}{
		{"no due date", nil, "No Due Date"},
		{"due today", &today, "Not Due"},
		{"due in future", ptrDay(2025, time.August, 15), "Not Due"},
		{"1 day overdue", ptrDay(2025, time.July, 31), "0-30 Days"},
		{"30 days overdue", ptrDay(2025, time.July, 2), "0-30 Days"},
		{"31 days overdue", ptrDay(2025, time.July, 1), "31-60 Days"},
		{"60 days overdue", ptrDay(2025, time.June, 2), "31-60 Days"},
		{"61 days overdue", ptrDay(2025, time.June, 1), "61-90 Days"},
		{"90 days overdue", ptrDay(2025, time.May, 3), "61-90 Days"},
		{"91 days overdue", ptrDay(2025, time.May, 2), "90+ Days"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, agingBucket(today, c.dueDate))
		})
	}
}

func TestEarliest(t *testing.T) {
	a := ptrDay(2025, time.June, 1)
	b := ptrDay(2025, time.May, 1)
	require.True(t, earliest(a, b).Equal(*b))
	require.True(t, earliest(nil, b).Equal(*b))
	require.True(t, earliest(a, nil).Equal(*a))
	require.Nil(t, earliest(nil, nil))
}
