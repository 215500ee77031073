package masterparser

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerGroup struct {
	GUID       string
	Name       string
	ParentName string
	AlterID    string
}

// LedgerParent is the per-ledger {name, parent_group} mapping spec.md §4.3
// asks for separately from the opening-bill allocations.
type LedgerParent struct {
	Name        string
	ParentGroup string
}

// OpeningAllocation is one (ledger, ref_name) opening bill row extracted
// from LEDGER/BILLALLOCATIONS.LIST in the ledgers master export.
type OpeningAllocation struct {
	Ledger           string
	RefName          string
	BillDate         *time.Time
	OpeningBalance   decimal.Decimal
	CreditPeriodDays *int
	IsAdvance        bool
}

type StockGroup struct {
	GUID       string
	Name       string
	ParentName string
	AlterID    string
}

type Unit struct {
	Name      string
	GSTRepUOM string
}

type Item struct {
	GUID      string
	Name      string
	ParentName string
	BaseUnits string
	HSNCode   string
}
