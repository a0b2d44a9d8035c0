package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/uptrace/bun"
)

// DeltaApplier merges an incremental snapshot into existing histories.
type DeltaApplier struct {
	db   database.TxBeginner
	repo repositories.PriceHistoryRepository
	opts Options
}

func NewDeltaApplier(db database.TxBeginner, repo repositories.PriceHistoryRepository, opts Options) *DeltaApplier {
	return &DeltaApplier{
		db:   db,
		repo: repo,
		opts: opts.withDefaults(),
	}
}

// ApplyDelta reads the whole delta from r, then merges it. A malformed
// delta fails before the store is touched.
func (a *DeltaApplier) ApplyDelta(ctx context.Context, r io.Reader) (Stats, error) {
	records, err := ReadAll(r)
	if err != nil {
		return Stats{}, err
	}
	return a.Apply(ctx, records)
}

// Apply merges records into price_history in order, in one transaction.
// Each uuid's stored tree is read (absent means empty), merged with the
// incoming tree and written back unless the result is byte-identical.
// Any failure rolls back every record of the run.
func (a *DeltaApplier) Apply(ctx context.Context, records []Record) (Stats, error) {
	start := time.Now()
	var stats Stats

	err := database.WithTransaction(ctx, a.db, func(ctx context.Context, tx bun.Tx) error {
		if err := a.repo.EnsureTable(ctx, tx); err != nil {
			return storageErr("create history table", err)
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			written, err := a.applyOne(ctx, tx, rec)
			if err != nil {
				return err
			}
			stats.Processed++
			if written {
				stats.Written++
			} else {
				stats.Unchanged++
			}
			if stats.Processed%a.opts.ProgressEvery == 0 {
				logger.LogRun("Merged price records", slog.Int("count", stats.Processed))
			}
		}
		return nil
	})
	stats.Took = time.Since(start)
	if err != nil {
		return stats, storageErr("commit delta", err)
	}

	logger.LogRun("Delta committed",
		slog.Int("records", stats.Processed),
		slog.Int("written", stats.Written),
		slog.Int("unchanged", stats.Unchanged),
		slog.Duration("took", stats.Took),
	)
	return stats, nil
}

func (a *DeltaApplier) applyOne(ctx context.Context, tx bun.IDB, rec Record) (bool, error) {
	existing := pricetree.Empty()
	var stored string
	found := false

	row, err := a.repo.Get(ctx, tx, rec.UUID)
	switch {
	case err == nil:
		existing, err = pricetree.Decode([]byte(row.PriceJSON))
		if err != nil {
			return false, &errs.StorageError{Op: fmt.Sprintf("decode stored history %s", rec.UUID), Err: err}
		}
		stored, found = row.PriceJSON, true
	case errs.IsNotFound(err):
	default:
		return false, storageErr("read history", err)
	}

	merged := string(pricetree.Merge(existing, rec.Tree).Encode())
	if found && merged == stored {
		return false, nil
	}
	if err := a.repo.Upsert(ctx, tx, &models.PriceHistory{UUID: rec.UUID, PriceJSON: merged}); err != nil {
		return false, storageErr("upsert history", err)
	}
	return true, nil
}
