package syncdriver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/config"
	"github.com/mmdatafocus/tally-warehouse-sync/tallyclient"
	"github.com/mmdatafocus/tally-warehouse-sync/voucherparser"
	"github.com/mmdatafocus/tally-warehouse-sync/warehouse"
)

// invoiceStream is the checkpoint/run_log stream name for the voucher
// ingestion path. The engine currently drives one stream; a second named
// stream for masters could be added without touching this constant.
const invoiceStream = "invoices"

// batchPause separates consecutive day-batches in day-by-day mode, per
// spec.md §4.5's "pause briefly (≤1s) between batches" — grounded in
// tally_db_loader/sync.py's sleep(0.5) and sales_lines_from_vreg.py's
// time.sleep(1).
const batchPause = 500 * time.Millisecond

// defaultBatchDays is used when SyncBatchDays is not positive. It caps how
// many days one fetch spans in day-by-day mode before the driver must split
// into another batch (spec.md §4.5).
const defaultBatchDays = 15

// Driver runs C5's date-windowed operations against one Tally instance and
// one warehouse connection.
type Driver struct {
	db          *gorm.DB
	client      *tallyclient.Client
	log         *logrus.Logger
	cfg         *config.TallyConfig
	batchDays   int
	concurrency int
}

func New(db *gorm.DB, client *tallyclient.Client, log *logrus.Logger, cfg *config.TallyConfig) *Driver {
	batchDays := cfg.SyncBatchDays
	if batchDays <= 0 {
		batchDays = defaultBatchDays
	}
	return &Driver{db: db, client: client, log: log, cfg: cfg, batchDays: batchDays, concurrency: 1}
}

// WithConcurrency enables parallel day-batches in day-by-day backfill mode,
// bounded at n concurrent fetch-and-write cycles. Each batch runs its own
// request, its own parser pass, and its own per-voucher transactions off
// the shared *gorm.DB connection pool, satisfying spec.md §5's "each batch
// uses its own database connection" condition for safe parallelism.
func (d *Driver) WithConcurrency(n int) *Driver {
	if n < 1 {
		n = 1
	}
	d.concurrency = n
	return d
}

// BackfillMode selects whether run_backfill issues one fetch for the whole
// window (ModeRange) or one fetch per batch of up to batchDays contiguous
// days (ModeDayByDay). Day-by-day mode does not issue a separate request for
// each single day within a batch.
type BackfillMode string

const (
	ModeRange     BackfillMode = "range"
	ModeDayByDay  BackfillMode = "day_by_day"
)

// windowResult tallies one fetch-and-write window, for both logging and the
// run_log row the caller appends afterward.
type windowResult struct {
	rows        int
	rowsErrored int
	err         error
}

// RunIncremental reads the "invoices" checkpoint, defaulting to April 1 of
// the current fiscal year if absent, fetches [checkpoint-1day, today] to
// absorb late source-side edits, writes the result, and on success advances
// the checkpoint to today. The checkpoint is only advanced once the entire
// window's writes have committed (spec.md §5 "each run MUST complete its
// writes before advancing the checkpoint").
func (d *Driver) RunIncremental(ctx context.Context) error {
	runID := uuid.NewString()
	now := time.Now().UTC()
	today := truncateToDay(now)

	from, found, err := warehouse.ReadCheckpoint(ctx, d.db, invoiceStream)
	if err != nil {
		return err
	}
	if !found {
		from = fiscalYearStart(today)
	} else {
		from = from.AddDate(0, 0, -1)
	}

	res := d.fetchAndWrite(ctx, from, today, false)
	status := statusFor(res)
	if logErr := warehouse.AppendRunLog(ctx, d.db, runID, invoiceStream, now, res.rows, res.rowsErrored, status, res.err); logErr != nil {
		config.LogError(d.log, "syncdriver", "RunIncremental", "append run log", runID, logErr)
	}
	if res.err != nil {
		return res.err
	}

	return warehouse.WriteCheckpoint(ctx, d.db, invoiceStream, today)
}

// RunBackfill fetches [from, to] in either one request (ModeRange) or one
// request per batch of up to d.batchDays contiguous days (ModeDayByDay; a
// batch is not split into one request per day), never
// touching the incremental checkpoint (spec.md §4.5 "Checkpoints are not
// updated by backfill"). dryRun parses and logs but never writes.
func (d *Driver) RunBackfill(ctx context.Context, from, to time.Time, mode BackfillMode, dryRun bool) error {
	return d.runWindowed(ctx, from, to, mode, dryRun)
}

// ClearAndReload deletes warehouse rows dated in [from, to] then runs
// RunBackfill over the same window (spec.md §4.5). Like RunBackfill, it
// never touches the incremental checkpoint.
func (d *Driver) ClearAndReload(ctx context.Context, from, to time.Time, mode BackfillMode, dryRun bool) error {
	if !dryRun {
		if err := warehouse.DeleteRange(ctx, d.db, from, to); err != nil {
			return err
		}
	}
	return d.runWindowed(ctx, from, to, mode, dryRun)
}

func (d *Driver) runWindowed(ctx context.Context, from, to time.Time, mode BackfillMode, dryRun bool) error {
	runID := uuid.NewString()
	now := time.Now().UTC()

	if mode == ModeRange {
		res := d.fetchAndWrite(ctx, from, to, dryRun)
		return d.logAndReturn(ctx, runID, now, res)
	}

	batches := dayBatches(from, to, d.batchDays)

	var res windowResult
	if d.concurrency > 1 {
		res = d.runBatchesParallel(ctx, batches, dryRun)
	} else {
		res = d.runBatchesSequential(ctx, batches, dryRun)
	}

	return d.logAndReturn(ctx, runID, now, res)
}

// dayBatches splits [from, to] into contiguous windows of at most
// batchDays days each (spec.md §4.5 "batch every 15 contiguous days").
func dayBatches(from, to time.Time, batchDays int) [][2]time.Time {
	var batches [][2]time.Time
	start := from
	for !start.After(to) {
		end := start.AddDate(0, 0, batchDays-1)
		if end.After(to) {
			end = to
		}
		batches = append(batches, [2]time.Time{start, end})
		start = end.AddDate(0, 0, 1)
	}
	return batches
}

func (d *Driver) runBatchesSequential(ctx context.Context, batches [][2]time.Time, dryRun bool) windowResult {
	var total windowResult
	for i, b := range batches {
		d.log.WithFields(logrus.Fields{
			"module": "syncdriver",
			"from":   b[0].Format("2006-01-02"),
			"to":     b[1].Format("2006-01-02"),
		}).Info("backfill batch")

		res := d.fetchAndWrite(ctx, b[0], b[1], dryRun)
		total.rows += res.rows
		total.rowsErrored += res.rowsErrored
		if res.err != nil && total.err == nil {
			total.err = res.err
		}

		if i < len(batches)-1 {
			select {
			case <-ctx.Done():
				total.err = ctx.Err()
				return total
			case <-time.After(batchPause):
			}
		}
	}
	return total
}

// runBatchesParallel runs up to d.concurrency batches concurrently via
// errgroup, each issuing its own source request and its own per-voucher
// transactions (spec.md §5's concurrency condition). No inter-batch pause
// applies here: the pause exists to be gentle on the source between
// sequential requests, which parallel dispatch does not do.
func (d *Driver) runBatchesParallel(ctx context.Context, batches [][2]time.Time, dryRun bool) windowResult {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	var mu sync.Mutex
	var total windowResult

	for _, b := range batches {
		b := b
		g.Go(func() error {
			res := d.fetchAndWrite(gctx, b[0], b[1], dryRun)
			mu.Lock()
			total.rows += res.rows
			total.rowsErrored += res.rowsErrored
			if res.err != nil && total.err == nil {
				total.err = res.err
			}
			mu.Unlock()
			return res.err
		})
	}

	_ = g.Wait()
	return total
}

func (d *Driver) logAndReturn(ctx context.Context, runID string, runAt time.Time, res windowResult) error {
	status := statusFor(res)
	if logErr := warehouse.AppendRunLog(ctx, d.db, runID, invoiceStream, runAt, res.rows, res.rowsErrored, status, res.err); logErr != nil {
		config.LogError(d.log, "syncdriver", "logAndReturn", "append run log", runID, logErr)
	}
	return res.err
}

// fetchAndWrite issues one source request for [from, to], parses it,
// filters client-side to the requested range (spec.md §4.5 "defense in
// depth against source variants that ignore parameters"), and writes each
// voucher. Receipt-typed vouchers are re-projected into the receipt table
// from the same parse pass rather than a second source request — the
// "receipt stream reuse cache" is this batch's own parsed vouchers, scoped
// to this call and discarded once it returns.
func (d *Driver) fetchAndWrite(ctx context.Context, from, to time.Time, dryRun bool) windowResult {
	text, err := d.client.FetchVouchers(ctx, from, to, d.cfg.VoucherTimeout)
	if err != nil {
		return windowResult{err: err}
	}

	parsed, err := voucherparser.Parse(text, d.log)
	if err != nil {
		return windowResult{err: err}
	}

	rows, rowsErrored := 0, parsed.RowsErrored
	for _, v := range parsed.Vouchers {
		if v.Date.Before(from) || v.Date.After(to) {
			continue
		}
		if dryRun {
			rows++
			continue
		}
		if err := warehouse.WriteVoucher(ctx, d.db, v); err != nil {
			rowsErrored++
			config.LogError(d.log, "syncdriver", "fetchAndWrite", "write voucher", v.VoucherKey, err)
			continue
		}
		rows++
	}

	return windowResult{rows: rows, rowsErrored: rowsErrored}
}

func statusFor(res windowResult) string {
	switch {
	case res.err != nil:
		return "error"
	case res.rowsErrored > 0:
		return "partial"
	default:
		return "ok"
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// fiscalYearStart returns April 1 of the fiscal year containing today,
// where the fiscal year runs April through March (spec.md §4.5), grounded
// in the source's get_checkpoint() default.
func fiscalYearStart(today time.Time) time.Time {
	year := today.Year()
	if today.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, today.Location())
}
