package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/convert"
	"github.com/LeonarddeR/ReaDaisy/internal/daisy"
	"github.com/LeonarddeR/ReaDaisy/internal/ledger"
	"github.com/LeonarddeR/ReaDaisy/internal/logging"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/plan"
	"github.com/LeonarddeR/ReaDaisy/internal/staging"
)

// lockFileName guards the output root against concurrent runs.
const lockFileName = ".readaisy.lock"

// Options configures a batch run.
type Options struct {
	InputRoot     string
	OutputRoot    string
	Workers       int
	Overwrite     bool
	StagingMaxAge time.Duration
	Logger        *slog.Logger
	Ledger        *ledger.Store // nil disables run history
}

// BookResult is the outcome of one book unit, or of a source directory
// that failed before its books could be enumerated (Title empty).
type BookResult struct {
	Index     int
	Title     string
	SourceDir string
	OutputDir string
	Segments  int
	Length    float64
	Err       error
}

// Summary aggregates a whole batch run.
type Summary struct {
	RunID       string
	Directories int
	Results     []BookResult
	Converted   int
	Failed      int
	TotalLength float64
}

type sourcedUnit struct {
	dir  string
	unit *book.Unit
}

// Run discovers every DAISY book directory under the input root and
// converts each book into the output root. Books are numbered
// consecutively across source directories and padding widths are fixed
// batch-wide before any output is written. A failing book or source
// directory is recorded in the summary without aborting its siblings.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := logging.WithComponent(opts.Logger, "batch")
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	if err := os.MkdirAll(opts.OutputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	lock := flock.New(filepath.Join(opts.OutputRoot, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another conversion is already writing to %s", opts.OutputRoot)
	}
	defer func() { _ = lock.Unlock() }()

	if opts.StagingMaxAge > 0 {
		staging.CleanStale(opts.OutputRoot, opts.StagingMaxAge, logger)
	}

	dirs, err := Discover(opts.InputRoot)
	if err != nil {
		return nil, fmt.Errorf("discover books: %w", err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: no navigation documents under %s", book.ErrNoBooksFound, opts.InputRoot)
	}
	logger.Info("discovered book directories", logging.Int("count", len(dirs)))

	var (
		loaded   []sourcedUnit
		dirFails []BookResult
	)
	for _, dir := range dirs {
		units, err := loadUnits(dir)
		if err != nil {
			logger.Error("skipping source directory", logging.String("dir", dir), logging.Error(err))
			dirFails = append(dirFails, BookResult{SourceDir: dir, Err: err})
			continue
		}
		for _, unit := range units {
			loaded = append(loaded, sourcedUnit{dir: dir, unit: unit})
		}
	}

	// Renumber across the whole batch, then resolve name collisions and
	// padding against the final indices.
	units := make([]*book.Unit, len(loaded))
	for i, su := range loaded {
		su.unit.Index = i + 1
		units[i] = su.unit
	}
	book.Name(units)
	widths := plan.BatchWidths(units)

	var runID string
	if opts.Ledger != nil {
		runID, err = opts.Ledger.BeginRun(ctx, opts.InputRoot, opts.OutputRoot)
		if err != nil {
			logger.Warn("run history disabled for this run", logging.Error(err))
			runID = ""
		}
	}

	converter := convert.New(opts.OutputRoot, opts.Overwrite, opts.Logger)
	results := make([]BookResult, len(loaded))
	var group errgroup.Group
	group.SetLimit(workers)
	for i, su := range loaded {
		i, su := i, su
		group.Go(func() error {
			res, err := converter.Book(ctx, su.dir, su.unit, widths)
			results[i] = BookResult{
				Index:     su.unit.Index,
				Title:     su.unit.Title(),
				SourceDir: su.dir,
				OutputDir: res.Dir,
				Segments:  res.Segments,
				Length:    res.Length,
				Err:       err,
			}
			return nil
		})
	}
	_ = group.Wait()

	for i := range dirFails {
		dirFails[i].Index = len(loaded) + i + 1
	}
	results = append(results, dirFails...)

	summary := &Summary{RunID: runID, Directories: len(dirs), Results: results}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			continue
		}
		summary.Converted++
		summary.TotalLength += res.Length
	}

	if opts.Ledger != nil && runID != "" {
		recordRun(ctx, opts.Ledger, runID, summary, logger)
	}
	logger.Info("batch finished",
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed),
		logging.Float64("seconds", summary.TotalLength),
	)
	return summary, nil
}

// loadUnits parses one DAISY directory into its book units.
func loadUnits(dir string) ([]*book.Unit, error) {
	b, err := daisy.Load(dir)
	if err != nil {
		return nil, err
	}
	model, err := nav.Parse(b.NCC, b.Library)
	if err != nil {
		return nil, err
	}
	return book.Split(model)
}

func recordRun(ctx context.Context, store *ledger.Store, runID string, summary *Summary, logger *slog.Logger) {
	for _, res := range summary.Results {
		entry := ledger.Book{
			RunID:    runID,
			Index:    res.Index,
			Title:    res.Title,
			Dir:      res.OutputDir,
			Segments: res.Segments,
			Seconds:  res.Length,
			Status:   ledger.StatusConverted,
		}
		if res.Err != nil {
			entry.Status = ledger.StatusFailed
			entry.Error = res.Err.Error()
			if entry.Title == "" {
				entry.Title = filepath.Base(res.SourceDir)
			}
		}
		if err := store.RecordBook(ctx, entry); err != nil {
			logger.Warn("record book history", logging.Error(err))
		}
	}
	total := summary.Converted + summary.Failed
	if err := store.FinishRun(ctx, runID, total, summary.Failed); err != nil {
		logger.Warn("finish run history", logging.Error(err))
	}
}
