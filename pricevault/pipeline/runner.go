package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault/catalog"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/ellavondegurechaff/pricevault/pricevault/ingest"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/ellavondegurechaff/pricevault/pricevault/notify"
	"github.com/ellavondegurechaff/pricevault/pricevault/prices"
	"github.com/ellavondegurechaff/pricevault/pricevault/services"
)

var ErrRunInProgress = errors.New("another run is in progress")

// Run phases reported on failure. Refresh failures report the refresher's
// own phase instead.
const (
	PhaseOpen       = "Open"
	PhaseRefresh    = "Refresh"
	PhaseImport     = "Import"
	PhaseMergeDelta = "MergeDelta"
)

// Files names the inputs of a run inside the Source.
type Files struct {
	BulkPrices  string
	DailyPrices string
	// Reference is skipped by Bootstrap and Daily when empty.
	Reference string
	TmpDir    string
}

type Options struct {
	Source         services.Source
	Files          Files
	Ingest         ingest.Options
	RequiredTables []string
	CacheSize      int
	Notifier       notify.Notifier
}

// Report is the outcome of one run.
type Report struct {
	Run       string
	Phase     string
	Processed int
	Rows      int64
	Took      time.Duration
	Err       error
}

// Runner owns every pipeline component over one store and runs them one at
// a time.
type Runner struct {
	db        *database.DB
	source    services.Source
	files     Files
	notifier  notify.Notifier
	importer  *ingest.Importer
	delta     *ingest.DeltaApplier
	refresher *catalog.Refresher
	resolver  *catalog.Resolver
	names     *catalog.NameIndex
	reader    *prices.Reader
	running   atomic.Bool
}

func New(db *database.DB, opts Options) *Runner {
	history := repositories.NewPriceHistoryRepository()
	cards := repositories.NewCardRepository()

	r := &Runner{
		db:        db,
		source:    opts.Source,
		files:     opts.Files,
		notifier:  opts.Notifier,
		importer:  ingest.NewImporter(db.BunDB(), history, opts.Ingest),
		delta:     ingest.NewDeltaApplier(db.BunDB(), history, opts.Ingest),
		refresher: catalog.NewRefresher(db, opts.RequiredTables),
		resolver:  catalog.NewResolver(db.BunDB(), cards, opts.CacheSize),
		names:     catalog.NewNameIndex(db.BunDB(), cards),
	}
	if r.notifier == nil {
		r.notifier = notify.Nop{}
	}
	r.reader = prices.NewReader(db.BunDB(), history, cards, r.resolver)

	r.refresher.OnCopy(r.resolver.EnsureIndex)
	r.refresher.OnCommit(r.resolver.Purge)
	r.refresher.OnCommit(r.names.Reset)
	return r
}

func (r *Runner) Resolver() *catalog.Resolver { return r.resolver }
func (r *Runner) Names() *catalog.NameIndex   { return r.names }
func (r *Runner) Prices() *prices.Reader      { return r.reader }

// Bootstrap refreshes the catalog and imports the full snapshot.
func (r *Runner) Bootstrap(ctx context.Context) (Report, error) {
	return r.BootstrapFrom(ctx, r.files.BulkPrices)
}

// BootstrapFrom is Bootstrap with the snapshot named explicitly.
func (r *Runner) BootstrapFrom(ctx context.Context, name string) (Report, error) {
	return r.run(ctx, "bootstrap", func(ctx context.Context, rep *Report) error {
		if r.files.Reference != "" {
			if err := r.refresh(ctx, rep, r.files.Reference); err != nil {
				return err
			}
		}
		return r.importSnapshot(ctx, rep, name)
	})
}

// Daily refreshes the catalog and merges the daily delta.
func (r *Runner) Daily(ctx context.Context) (Report, error) {
	return r.run(ctx, "daily", func(ctx context.Context, rep *Report) error {
		if r.files.Reference != "" {
			if err := r.refresh(ctx, rep, r.files.Reference); err != nil {
				return err
			}
		}
		return r.applyDelta(ctx, rep, r.files.DailyPrices)
	})
}

// Refresh replaces the catalog with the reference dataset name.
func (r *Runner) Refresh(ctx context.Context, name string) (Report, error) {
	return r.run(ctx, "refresh", func(ctx context.Context, rep *Report) error {
		return r.refresh(ctx, rep, name)
	})
}

// Apply merges the delta snapshot name into the history.
func (r *Runner) Apply(ctx context.Context, name string) (Report, error) {
	return r.run(ctx, "apply", func(ctx context.Context, rep *Report) error {
		return r.applyDelta(ctx, rep, name)
	})
}

// Import loads the full snapshot name, replacing the rows it contains.
func (r *Runner) Import(ctx context.Context, name string) (Report, error) {
	return r.run(ctx, "import", func(ctx context.Context, rep *Report) error {
		return r.importSnapshot(ctx, rep, name)
	})
}

// Close releases the name index and the notifier. The store is owned by
// the caller.
func (r *Runner) Close(ctx context.Context) error {
	r.notifier.Close(ctx)
	return r.names.Close()
}

func (r *Runner) run(ctx context.Context, name string, fn func(context.Context, *Report) error) (Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Report{Run: name, Err: ErrRunInProgress}, ErrRunInProgress
	}
	defer r.running.Store(false)

	logger.LogRun("Run started", slog.String("run", name))
	start := time.Now()
	rep := Report{Run: name}
	err := fn(ctx, &rep)
	rep.Took = time.Since(start)

	if err != nil {
		rep.Err = &errs.RunError{Run: name, Phase: rep.Phase, Processed: rep.Processed, Err: err}
		logger.LogError("Run failed", err,
			slog.String("run", name),
			slog.String("phase", rep.Phase),
			slog.Int("processed", rep.Processed),
		)
	} else {
		logger.LogRun("Run finished",
			slog.String("run", name),
			slog.Int("processed", rep.Processed),
			slog.Int64("rows", rep.Rows),
			slog.Duration("took", rep.Took),
		)
	}

	if nerr := r.notifier.Notify(ctx, rep.Event()); nerr != nil {
		logger.LogError("Failed to send run notification", nerr, slog.String("run", name))
	}
	return rep, rep.Err
}

func (r *Runner) refresh(ctx context.Context, rep *Report, name string) error {
	rep.Phase = PhaseOpen
	path, cleanup, err := services.LocalPath(ctx, r.source, name, r.files.TmpDir)
	if err != nil {
		return err
	}
	defer cleanup()

	rep.Phase = PhaseRefresh
	res, err := r.refresher.Refresh(ctx, path)
	rep.Rows += res.Rows
	if err != nil {
		if res.Phase != catalog.PhaseIdle {
			rep.Phase = res.Phase.String()
		}
		return err
	}
	return nil
}

func (r *Runner) importSnapshot(ctx context.Context, rep *Report, name string) error {
	rep.Phase = PhaseOpen
	rc, err := r.source.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	rep.Phase = PhaseImport
	stats, err := r.importer.ImportSnapshot(ctx, rc)
	rep.Processed += stats.Processed
	return err
}

func (r *Runner) applyDelta(ctx context.Context, rep *Report, name string) error {
	rep.Phase = PhaseOpen
	rc, err := r.source.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	rep.Phase = PhaseMergeDelta
	stats, err := r.delta.ApplyDelta(ctx, rc)
	rep.Processed += stats.Processed
	return err
}

// Event renders the report for a notifier.
func (rep Report) Event() notify.Event {
	e := notify.Event{
		Title: fmt.Sprintf("%s finished", rep.Run),
		Time:  time.Now(),
		Fields: []notify.Field{
			{Name: "Processed", Value: strconv.Itoa(rep.Processed)},
			{Name: "Took", Value: rep.Took.Round(time.Millisecond).String()},
		},
	}
	if rep.Rows > 0 {
		e.Fields = append(e.Fields, notify.Field{Name: "Catalog rows", Value: strconv.FormatInt(rep.Rows, 10)})
	}
	if rep.Err != nil {
		e.Title = fmt.Sprintf("%s failed", rep.Run)
		e.Failed = true
		e.Fields = append(e.Fields,
			notify.Field{Name: "Phase", Value: rep.Phase},
			notify.Field{Name: "Error", Value: rep.Err.Error()},
		)
	}
	return e
}
