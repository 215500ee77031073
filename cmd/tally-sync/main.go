package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/config"
	"github.com/mmdatafocus/tally-warehouse-sync/masterparser"
	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/reconcile"
	"github.com/mmdatafocus/tally-warehouse-sync/syncdriver"
	"github.com/mmdatafocus/tally-warehouse-sync/tallyclient"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
	"github.com/mmdatafocus/tally-warehouse-sync/warehouse"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := config.GetLogger()

	// Startup failures here are unrecoverable: there is no request to fail
	// gracefully yet, so this crashes loudly rather than limping on without
	// a database or source configuration.
	tallyCfg, err := config.LoadTallyConfig()
	utils.ErrorPanic(err)
	utils.ErrorPanic(config.ConnectDatabaseWithRetry())
	db := config.GetDB()
	models.MigrateTable(db)

	client := tallyclient.NewClient(tallyCfg, log)
	driver := syncdriver.New(db, client, log, tallyCfg)

	ctx := context.Background()

	switch os.Args[1] {
	case "run":
		runCmd(ctx, driver)
	case "backfill":
		backfillCmd(ctx, driver, os.Args[2:])
	case "clear-and-reload":
		clearAndReloadCmd(ctx, driver, os.Args[2:])
	case "sync-masters":
		syncMastersCmd(ctx, db, client, tallyCfg, os.Args[2:])
	case "reconcile-bills":
		if err := reconcile.Run(ctx, db, time.Now().UTC()); err != nil {
			fmt.Fprintln(os.Stderr, "reconcile-bills failed:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tally-sync <command> [flags]

commands:
  run                                    incremental run
  backfill <from> <to> [flags]           historical load
  clear-and-reload <from> <to> [flags]   delete then reload a window
  sync-masters [flags]                   load ledger groups, stock groups, items, units, opening bills
      --from-source                      fetch masters from the live Tally instance (default)
      --from-file <path>                 parse masters from a saved combined export file instead
      --dry-run                          parse and log counts but write nothing
      --preview N                        print the first N rows of each master kind and write nothing
  reconcile-bills                        rebuild bill_receivable_fact`)
}

// runCmd supports an optional --schedule cron expression so the incremental
// path can run in-process rather than assuming an external cron daemon
// (spec.md §6.3's operator surface, extended per SPEC_FULL.md §6 to make
// scheduling a first-class option the way the corpus does for recurring
// jobs).
func runCmd(ctx context.Context, driver *syncdriver.Driver) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	schedule := fs.String("schedule", "", "optional cron expression; if set, runs forever on this schedule instead of once")
	fs.Parse(os.Args[2:])

	execute := func() {
		if err := driver.RunIncremental(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "incremental run failed:", err)
		}
	}

	if *schedule == "" {
		execute()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, execute); err != nil {
		fmt.Fprintln(os.Stderr, "invalid --schedule:", err)
		os.Exit(1)
	}
	c.Run()
}

func backfillCmd(ctx context.Context, driver *syncdriver.Driver, args []string) {
	from, to, dayByDay, dryRun, parallel := parseWindowFlags("backfill", args)
	mode := syncdriver.ModeRange
	if dayByDay {
		mode = syncdriver.ModeDayByDay
	}
	if err := driver.WithConcurrency(parallel).RunBackfill(ctx, from, to, mode, dryRun); err != nil {
		fmt.Fprintln(os.Stderr, "backfill failed:", err)
		os.Exit(1)
	}
}

func clearAndReloadCmd(ctx context.Context, driver *syncdriver.Driver, args []string) {
	from, to, dayByDay, dryRun, parallel := parseWindowFlags("clear-and-reload", args)
	mode := syncdriver.ModeRange
	if dayByDay {
		mode = syncdriver.ModeDayByDay
	}
	if err := driver.WithConcurrency(parallel).ClearAndReload(ctx, from, to, mode, dryRun); err != nil {
		fmt.Fprintln(os.Stderr, "clear-and-reload failed:", err)
		os.Exit(1)
	}
}

func parseWindowFlags(name string, args []string) (from, to time.Time, dayByDay, dryRun bool, parallel int) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dayByDayFlag := fs.Bool("day-by-day", false, "fetch in batches of SYNC_BATCH_DAYS days (default 15), one request per batch, instead of the whole range in one request")
	dryRunFlag := fs.Bool("dry-run", false, "parse and log but do not write")
	parallelFlag := fs.Int("parallel", 1, "number of day-batches to fetch concurrently in --day-by-day mode")
	fs.Parse(args)

	positional := fs.Args()
	if len(positional) < 2 {
		fmt.Fprintf(os.Stderr, "%s requires <from> <to> dates (YYYY-MM-DD)\n", name)
		os.Exit(1)
	}

	var err error
	from, err = time.Parse("2006-01-02", positional[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid from date:", err)
		os.Exit(1)
	}
	to, err = time.Parse("2006-01-02", positional[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid to date:", err)
		os.Exit(1)
	}
	return from, to, *dayByDayFlag, *dryRunFlag, *parallelFlag
}

// syncMastersOptions controls the sync-masters CLI surface (spec.md §6.3):
// where the export text comes from, and whether it is only inspected rather
// than written.
type syncMastersOptions struct {
	fromFile string
	dryRun   bool
	preview  int
}

func parseSyncMastersFlags(args []string) syncMastersOptions {
	fs := flag.NewFlagSet("sync-masters", flag.ExitOnError)
	fromSource := fs.Bool("from-source", false, "fetch masters from the live Tally instance (default)")
	fromFile := fs.String("from-file", "", "parse masters from a saved combined export file instead of the live source")
	dryRun := fs.Bool("dry-run", false, "parse and log counts but do not write")
	preview := fs.Int("preview", 0, "print the first N rows of each master kind and do not write")
	fs.Parse(args)

	if *fromSource && *fromFile != "" {
		fmt.Fprintln(os.Stderr, "sync-masters: --from-source and --from-file are mutually exclusive")
		os.Exit(1)
	}

	return syncMastersOptions{fromFile: *fromFile, dryRun: *dryRun, preview: *preview}
}

func syncMastersCmd(ctx context.Context, db *gorm.DB, client *tallyclient.Client, cfg *config.TallyConfig, args []string) {
	opts := parseSyncMastersFlags(args)
	if err := syncMasters(ctx, db, client, cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, "sync-masters failed:", err)
		os.Exit(1)
	}
}

// syncMasters loads every master kind C3 knows how to parse and upserts
// each into its dimension table, per spec.md §4.3/§4.4.5. With
// opts.fromFile set, the export text is read once from disk instead of
// fetched live: a combined "All Masters" export carries GROUP, LEDGER,
// STOCKGROUP, STOCKITEM and UNIT elements together under one TALLYMESSAGE,
// and every masterparser function locates its own tags by recursive search,
// so the same text serves all four parses. opts.dryRun and opts.preview
// both stop short of writing; preview additionally prints a sample of what
// was parsed.
func syncMasters(ctx context.Context, db *gorm.DB, client *tallyclient.Client, cfg *config.TallyConfig, opts syncMastersOptions) error {
	ledgerXML, stockGroupXML, itemXML, unitXML, err := loadMasterExports(ctx, client, cfg, opts.fromFile)
	if err != nil {
		return err
	}

	groups, _, openingAllocs, err := masterparser.ParseLedgerGroups(ledgerXML)
	if err != nil {
		return fmt.Errorf("parse ledger groups: %w", err)
	}
	stockGroups, err := masterparser.ParseStockGroups(stockGroupXML)
	if err != nil {
		return fmt.Errorf("parse stock groups: %w", err)
	}
	items, err := masterparser.ParseItems(itemXML)
	if err != nil {
		return fmt.Errorf("parse stock items: %w", err)
	}
	units, err := masterparser.ParseUnits(unitXML)
	if err != nil {
		return fmt.Errorf("parse units: %w", err)
	}

	if opts.preview > 0 {
		previewMasters(opts.preview, groups, openingAllocs, stockGroups, items, units)
	}
	if opts.dryRun || opts.preview > 0 {
		fmt.Printf("sync-masters (no write): %d ledger groups, %d opening bills, %d stock groups, %d items, %d units\n",
			len(groups), len(openingAllocs), len(stockGroups), len(items), len(units))
		return nil
	}

	if err := warehouse.UpsertLedgerGroups(ctx, db, groups); err != nil {
		return err
	}
	if err := warehouse.ReplaceOpeningBills(ctx, db, openingAllocs); err != nil {
		return err
	}
	if err := warehouse.UpsertStockGroups(ctx, db, stockGroups); err != nil {
		return err
	}
	if err := warehouse.UpsertItems(ctx, db, items); err != nil {
		return err
	}
	return warehouse.UpsertUnits(ctx, db, units)
}

// loadMasterExports returns the ledger, stock-group, stock-item and unit
// export texts to parse. With fromFile set, all four are the same combined
// export read once from disk; otherwise each is fetched from the live
// source with its own request, matching Tally's per-report TDL collection.
func loadMasterExports(ctx context.Context, client *tallyclient.Client, cfg *config.TallyConfig, fromFile string) (ledgerXML, stockGroupXML, itemXML, unitXML string, err error) {
	if fromFile != "" {
		raw, err := os.ReadFile(fromFile)
		if err != nil {
			return "", "", "", "", fmt.Errorf("read masters export file: %w", err)
		}
		text := string(raw)
		return text, text, text, text, nil
	}

	ledgerXML, err = client.FetchMasters(ctx, tallyclient.MasterKindLedgers, cfg.MastersTimeout)
	if err != nil {
		return "", "", "", "", fmt.Errorf("fetch ledgers: %w", err)
	}
	stockGroupXML, err = client.FetchMasters(ctx, tallyclient.MasterKindStockGroups, cfg.MastersTimeout)
	if err != nil {
		return "", "", "", "", fmt.Errorf("fetch stock groups: %w", err)
	}
	itemXML, err = client.FetchMasters(ctx, tallyclient.MasterKindStockItems, cfg.MastersTimeout)
	if err != nil {
		return "", "", "", "", fmt.Errorf("fetch stock items: %w", err)
	}
	unitXML, err = client.FetchMasters(ctx, tallyclient.MasterKindUnits, cfg.MastersTimeout)
	if err != nil {
		return "", "", "", "", fmt.Errorf("fetch units: %w", err)
	}
	return ledgerXML, stockGroupXML, itemXML, unitXML, nil
}

func previewMasters(n int, groups []masterparser.LedgerGroup, openingAllocs []masterparser.OpeningAllocation, stockGroups []masterparser.StockGroup, items []masterparser.Item, units []masterparser.Unit) {
	fmt.Printf("-- ledger groups (showing up to %d of %d) --\n", n, len(groups))
	for _, g := range firstN(groups, n) {
		fmt.Printf("%+v\n", g)
	}
	fmt.Printf("-- opening bills (showing up to %d of %d) --\n", n, len(openingAllocs))
	for _, o := range firstN(openingAllocs, n) {
		fmt.Printf("%+v\n", o)
	}
	fmt.Printf("-- stock groups (showing up to %d of %d) --\n", n, len(stockGroups))
	for _, g := range firstN(stockGroups, n) {
		fmt.Printf("%+v\n", g)
	}
	fmt.Printf("-- items (showing up to %d of %d) --\n", n, len(items))
	for _, it := range firstN(items, n) {
		fmt.Printf("%+v\n", it)
	}
	fmt.Printf("-- units (showing up to %d of %d) --\n", n, len(units))
	for _, u := range firstN(units, n) {
		fmt.Printf("%+v\n", u)
	}
}

func firstN[T any](rows []T, n int) []T {
	if n >= len(rows) {
		return rows
	}
	return rows[:n]
}
