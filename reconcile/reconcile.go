package reconcile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

const (
	billTypeNewRef    = "New Ref"
	billTypeAgstRef   = "Agst Ref"
	billTypeAdvance   = "Advance"
	billTypeOnAccount = "On Account"
)

// key identifies one bill across opening balances and every movement
// recorded against it.
type key struct {
	Ledger  string
	RefName string
}

// billState accumulates the movements for one (ledger, ref_name) pair
// before the aggregate in spec.md §4.6 step 2 is computed.
type billState struct {
	hasOpening     bool
	openingAmount  decimal.Decimal
	openingDate    *time.Time
	creditPeriod   *int
	isAdvance      bool

	hasNewRef    bool
	newRefTotal  decimal.Decimal
	newRefDate   *time.Time

	agstRefTotal decimal.Decimal
	agstRefMax   *time.Time

	advanceTotal   decimal.Decimal
	onAccountTotal decimal.Decimal
}

// Run rebuilds bill_receivable_fact wholesale from opening_bill and every
// bill_movement row (spec.md §4.6): "this reconciler is recomputed after
// every reconciliation-eligible load; it is not mutated incrementally."
func Run(ctx context.Context, db *gorm.DB, today time.Time) error {
	states, err := collectStates(ctx, db)
	if err != nil {
		return err
	}

	var facts []models.BillReceivableFact
	for k, s := range states {
		fact := aggregate(k, s, today)
		if fact == nil {
			continue
		}
		facts = append(facts, *fact)
	}

	return replaceFacts(ctx, db, facts)
}

func collectStates(ctx context.Context, db *gorm.DB) (map[key]*billState, error) {
	states := make(map[key]*billState)

	stateFor := func(ledger, refName string) *billState {
		k := key{Ledger: ledger, RefName: refName}
		s, ok := states[k]
		if !ok {
			s = &billState{}
			states[k] = s
		}
		return s
	}

	var openings []models.OpeningBill
	if err := db.WithContext(ctx).Find(&openings).Error; err != nil {
		return nil, utils.NewError(utils.WarehouseError, "load opening bills", err)
	}
	for _, o := range openings {
		s := stateFor(o.Ledger, o.RefName)
		s.hasOpening = true
		s.openingAmount = o.OpeningBalance
		s.openingDate = o.BillDate
		s.creditPeriod = o.CreditPeriodDays
		s.isAdvance = o.IsAdvance
	}

	var movements []models.BillMovement
	if err := db.WithContext(ctx).Find(&movements).Error; err != nil {
		return nil, utils.NewError(utils.WarehouseError, "load bill movements", err)
	}
	for _, m := range movements {
		s := stateFor(m.Ledger, m.RefName)
		date := m.Date
		switch m.BillType {
		case billTypeNewRef:
			s.hasNewRef = true
			s.newRefTotal = s.newRefTotal.Add(m.Amount)
			if s.newRefDate == nil || date.Before(*s.newRefDate) {
				s.newRefDate = &date
			}
			if s.creditPeriod == nil {
				s.creditPeriod = m.CreditPeriodDays
			}
		case billTypeAgstRef:
			s.agstRefTotal = s.agstRefTotal.Add(m.Amount)
			if s.agstRefMax == nil || date.After(*s.agstRefMax) {
				s.agstRefMax = &date
			}
		case billTypeAdvance:
			s.advanceTotal = s.advanceTotal.Add(m.Amount)
		case billTypeOnAccount:
			s.onAccountTotal = s.onAccountTotal.Add(m.Amount)
		}
	}

	return states, nil
}

// aggregate implements spec.md §4.6 steps 2-4 for one bill. Returns nil
// when the bill's pending amount doesn't clear the 0.01 inclusion
// threshold (step 3).
func aggregate(k key, s *billState, today time.Time) *models.BillReceivableFact {
	var originalAmount decimal.Decimal
	if s.hasNewRef {
		originalAmount = s.newRefTotal.Abs()
	} else {
		originalAmount = s.openingAmount.Abs().Add(s.agstRefTotal.Abs())
	}
	adjustedAmount := s.agstRefTotal.Abs()

	// Opening balance represents the bill's state before tracking began: it
	// only enters the signed pending total when no New Ref was observed for
	// this bill, else it would double-count a bill that both opened with a
	// carried-forward balance and was then re-recorded via New Ref.
	originOrOpening := s.newRefTotal
	if !s.hasNewRef {
		originOrOpening = s.openingAmount
	}
	signedTotal := originOrOpening.Add(s.advanceTotal).Add(s.agstRefTotal)
	pendingAmount := signedTotal.Abs()

	if pendingAmount.LessThanOrEqual(decimal.NewFromFloat(0.01)) {
		return nil
	}

	billDate := earliest(s.newRefDate, s.openingDate)

	var dueDate *time.Time
	if billDate != nil && s.creditPeriod != nil {
		d := billDate.AddDate(0, 0, *s.creditPeriod)
		dueDate = &d
	}

	return &models.BillReceivableFact{
		Ledger:           k.Ledger,
		RefName:          k.RefName,
		BillDate:         billDate,
		DueDate:          dueDate,
		OriginalAmount:   originalAmount,
		AdjustedAmount:   adjustedAmount,
		PendingAmount:    pendingAmount,
		LastAdjustedDate: s.agstRefMax,
		AgingBucket:      agingBucket(today, dueDate),
		IsAdvance:        s.isAdvance,
	}
}

func earliest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Before(*b):
		return a
	default:
		return b
	}
}

// agingBucket derives the category from (today - due_date) per spec.md
// §4.6 step 4.
func agingBucket(today time.Time, dueDate *time.Time) string {
	if dueDate == nil {
		return "No Due Date"
	}
	if !today.After(*dueDate) {
		return "Not Due"
	}
	days := int(today.Sub(*dueDate).Hours() / 24)
	switch {
	case days <= 30:
		return "0-30 Days"
	case days <= 60:
		return "31-60 Days"
	case days <= 90:
		return "61-90 Days"
	default:
		return "90+ Days"
	}
}

func replaceFacts(ctx context.Context, db *gorm.DB, facts []models.BillReceivableFact) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM bill_receivable_fact").Error; err != nil {
			return utils.NewError(utils.WarehouseError, "clear bill receivable facts", err)
		}
		if len(facts) == 0 {
			return nil
		}
		const chunk = 200
		for start := 0; start < len(facts); start += chunk {
			end := start + chunk
			if end > len(facts) {
				end = len(facts)
			}
			if err := tx.Create(facts[start:end]).Error; err != nil {
				return utils.NewError(utils.WarehouseError, "insert bill receivable facts", err)
			}
		}
		return nil
	})
}
