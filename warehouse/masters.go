package warehouse

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mmdatafocus/tally-warehouse-sync/masterparser"
	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

const masterUpsertBatchSize = 200

// UpsertLedgerGroups loads Tally's chart-of-accounts groups in chunks of
// masterUpsertBatchSize (spec.md §4.4.5's "write in batches, not row by
// row"). Rows are keyed by name: name is the declared conflict column, and
// guid, parent_name and alter_id are the columns updated on conflict. The
// GUID is stored but is not the declared conflict column, and an existing
// row's name is never updated.
func UpsertLedgerGroups(ctx context.Context, db *gorm.DB, groups []masterparser.LedgerGroup) error {
	rows := make([]models.LedgerGroupDim, len(groups))
	for i, g := range groups {
		rows[i] = models.LedgerGroupDim{
			GUID:       strPtr(g.GUID),
			Name:       g.Name,
			ParentName: strPtr(g.ParentName),
			AlterID:    strPtr(g.AlterID),
		}
	}
	return upsertBatched(ctx, db, rows, []string{"name"},
		[]string{"guid", "parent_name", "alter_id"})
}

// UpsertStockGroups loads Tally's hierarchical stock-item grouping.
func UpsertStockGroups(ctx context.Context, db *gorm.DB, groups []masterparser.StockGroup) error {
	rows := make([]models.StockGroupDim, len(groups))
	for i, g := range groups {
		rows[i] = models.StockGroupDim{
			GUID:       strPtr(g.GUID),
			Name:       g.Name,
			ParentName: strPtr(g.ParentName),
			AlterID:    strPtr(g.AlterID),
		}
	}
	return upsertBatched(ctx, db, rows, []string{"name"},
		[]string{"guid", "parent_name", "alter_id"})
}

// UpsertUnits loads units-of-measure masters, keyed by name since Tally
// units carry no GUID.
func UpsertUnits(ctx context.Context, db *gorm.DB, units []masterparser.Unit) error {
	rows := make([]models.UomDim, len(units))
	for i, u := range units {
		rows[i] = models.UomDim{
			Name:      u.Name,
			GSTRepUOM: strPtr(u.GSTRepUOM),
		}
	}
	return upsertBatched(ctx, db, rows, []string{"name"}, []string{"gst_rep_uom"})
}

// UpsertItems loads stock-item masters. brand is derived, not parsed: it is
// the name of the root ancestor of the item's stock group in the
// stock_group_dim hierarchy, mirroring stock_masters.py's compute_brands()
// (Tally has no dedicated "brand" tag; brand is modeled as the top-level
// stock group). UpsertStockGroups must have already run in this master load
// for the lookup to see the current hierarchy.
func UpsertItems(ctx context.Context, db *gorm.DB, items []masterparser.Item) error {
	parents, err := loadStockGroupParents(ctx, db)
	if err != nil {
		return err
	}

	rows := make([]models.ItemDim, len(items))
	for i, it := range items {
		rows[i] = models.ItemDim{
			GUID:       strPtr(it.GUID),
			Name:       it.Name,
			ParentName: strPtr(it.ParentName),
			BaseUnits:  strPtr(it.BaseUnits),
			HSNCode:    strPtr(it.HSNCode),
			Brand:      strPtr(rootStockGroup(it.ParentName, parents)),
		}
	}
	return upsertBatched(ctx, db, rows, []string{"name"},
		[]string{"guid", "parent_name", "base_units", "hsn_code", "brand"})
}

// loadStockGroupParents returns the name -> parent_name map of every stock
// group, for rootStockGroup to walk.
func loadStockGroupParents(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	var groups []models.StockGroupDim
	if err := db.WithContext(ctx).Find(&groups).Error; err != nil {
		return nil, utils.NewError(utils.WarehouseError, "load stock groups for brand resolution", err)
	}
	parents := make(map[string]string, len(groups))
	for _, g := range groups {
		if g.ParentName != nil {
			parents[g.Name] = *g.ParentName
		}
	}
	return parents, nil
}

// rootStockGroup walks the stock-group hierarchy from name up to its root,
// capped at len(parents)+1 hops to tolerate a cyclical or malformed export
// instead of looping forever.
func rootStockGroup(name string, parents map[string]string) string {
	if name == "" {
		return ""
	}
	current := name
	for i := 0; i < len(parents)+1; i++ {
		parent, ok := parents[current]
		if !ok || parent == "" {
			return current
		}
		current = parent
	}
	return current
}

// ReplaceOpeningBills overwrites opening_bill wholesale, matching spec.md
// §4.3's "opening bills are a snapshot, not an append log" — the previous
// master load's rows are stale the moment a new one lands.
func ReplaceOpeningBills(ctx context.Context, db *gorm.DB, allocs []masterparser.OpeningAllocation) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM opening_bill").Error; err != nil {
			return utils.NewError(utils.WarehouseError, "clear opening bills", err)
		}
		if len(allocs) == 0 {
			return nil
		}
		rows := make([]models.OpeningBill, len(allocs))
		for i, a := range allocs {
			rows[i] = models.OpeningBill{
				Ledger:           a.Ledger,
				RefName:          a.RefName,
				BillDate:         a.BillDate,
				OpeningBalance:   a.OpeningBalance,
				CreditPeriodDays: a.CreditPeriodDays,
				IsAdvance:        a.IsAdvance,
			}
		}
		for start := 0; start < len(rows); start += masterUpsertBatchSize {
			end := min(start+masterUpsertBatchSize, len(rows))
			if err := tx.Create(rows[start:end]).Error; err != nil {
				return utils.NewError(utils.WarehouseError, "insert opening bills", err)
			}
		}
		return nil
	})
}

// upsertBatched writes rows in fixed-size chunks via an upsert clause keyed
// on conflictCols, so a master reload of thousands of ledgers doesn't issue
// one round trip per row.
func upsertBatched[T any](ctx context.Context, db *gorm.DB, rows []T, conflictCols, updateCols []string) error {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		cols[i] = clause.Column{Name: c}
	}
	onConflict := clause.OnConflict{Columns: cols, DoUpdates: clause.AssignmentColumns(updateCols)}

	for start := 0; start < len(rows); start += masterUpsertBatchSize {
		end := min(start+masterUpsertBatchSize, len(rows))
		batch := rows[start:end]
		if err := db.WithContext(ctx).Clauses(onConflict).Create(&batch).Error; err != nil {
			return utils.NewError(utils.WarehouseError, "upsert master batch", err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
