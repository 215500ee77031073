package masterparser

import (
	"encoding/xml"
	"fmt"
)

func parseRoot(xmlText string) (*node, error) {
	var root node
	if err := xml.Unmarshal([]byte(xmlText), &root); err != nil {
		return nil, fmt.Errorf("masterparser: response is not well-formed XML: %w", err)
	}
	return &root, nil
}

// ParseLedgerGroups extracts ledger groups and the per-ledger parent-group
// mapping plus opening bill allocations from a ledgers-master export.
// Hierarchy roots are ledger groups with an empty PARENT.
func ParseLedgerGroups(xmlText string) ([]LedgerGroup, []LedgerParent, []OpeningAllocation, error) {
	root, err := parseRoot(xmlText)
	if err != nil {
		return nil, nil, nil, err
	}

	var groups []LedgerGroup
	for _, g := range root.findAll("GROUP") {
		name := attrOrText(g, "NAME")
		if name == "" {
			continue
		}
		groups = append(groups, LedgerGroup{
			GUID:       attrOrText(g, "GUID"),
			Name:       name,
			ParentName: g.childText("PARENT"),
			AlterID:    g.childText("ALTERID"),
		})
	}

	var ledgerParents []LedgerParent
	var openingAllocs []OpeningAllocation
	for _, l := range root.findAll("LEDGER") {
		ledgerName := attrOrText(l, "NAME")
		if ledgerName == "" {
			continue
		}
		ledgerParents = append(ledgerParents, LedgerParent{
			Name:        ledgerName,
			ParentGroup: l.childText("PARENT"),
		})

		for _, bill := range l.findAll("BILLALLOCATIONS.LIST") {
			openingAllocs = append(openingAllocs, OpeningAllocation{
				Ledger:           ledgerName,
				RefName:          bill.childText("NAME"),
				BillDate:         parseDatePtr(bill.childText("BILLDATE")),
				OpeningBalance:   parseAmount(bill.childText("OPENINGBALANCE")),
				CreditPeriodDays: parseIntPtr(bill.childText("BILLCREDITPERIOD")),
				IsAdvance:        parseBool(bill.childText("ISADVANCE")),
			})
		}
	}

	return groups, ledgerParents, openingAllocs, nil
}

// ParseStockGroups extracts Tally's hierarchical stock-item grouping.
func ParseStockGroups(xmlText string) ([]StockGroup, error) {
	root, err := parseRoot(xmlText)
	if err != nil {
		return nil, err
	}
	var groups []StockGroup
	for _, g := range root.findAll("STOCKGROUP") {
		name := attrOrText(g, "NAME")
		if name == "" {
			continue
		}
		groups = append(groups, StockGroup{
			GUID:       attrOrText(g, "GUID"),
			Name:       name,
			ParentName: g.childText("PARENT"),
			AlterID:    g.childText("ALTERID"),
		})
	}
	return groups, nil
}

// ParseUnits extracts units-of-measure masters.
func ParseUnits(xmlText string) ([]Unit, error) {
	root, err := parseRoot(xmlText)
	if err != nil {
		return nil, err
	}
	var units []Unit
	for _, u := range root.findAll("UNIT") {
		name := attrOrText(u, "NAME")
		if name == "" {
			continue
		}
		units = append(units, Unit{
			Name:      name,
			GSTRepUOM: u.childText("GSTREPUOM"),
		})
	}
	return units, nil
}

// ParseItems extracts stock items, preferring the latest
// HSNDETAILS.LIST/HSNCODE over a direct HSNCODE tag per spec.md §4.3.
func ParseItems(xmlText string) ([]Item, error) {
	root, err := parseRoot(xmlText)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, it := range root.findAll("STOCKITEM") {
		name := attrOrText(it, "NAME")
		if name == "" {
			continue
		}
		hsn := ""
		if detail := it.findLast("HSNDETAILS.LIST"); detail != nil {
			hsn = detail.childText("HSNCODE")
		}
		if hsn == "" {
			hsn = it.childText("HSNCODE")
		}
		items = append(items, Item{
			GUID:       attrOrText(it, "GUID"),
			Name:       name,
			ParentName: it.childText("PARENT"),
			BaseUnits:  it.childText("BASEUNITS"),
			HSNCode:    hsn,
		})
	}
	return items, nil
}
