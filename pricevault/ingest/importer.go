package ingest

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/uptrace/bun"
)

// Importer loads a full snapshot into the history table.
type Importer struct {
	db   database.TxBeginner
	repo repositories.PriceHistoryRepository
	opts Options
}

func NewImporter(db database.TxBeginner, repo repositories.PriceHistoryRepository, opts Options) *Importer {
	return &Importer{
		db:   db,
		repo: repo,
		opts: opts.withDefaults(),
	}
}

// ImportSnapshot streams r into price_history inside one transaction and
// commits only once the whole document has been read. A record whose uuid
// is already stored replaces it.
func (i *Importer) ImportSnapshot(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	stream := NewSnapshotStream(r)
	var stats Stats

	err := database.WithTransaction(ctx, i.db, func(ctx context.Context, tx bun.Tx) error {
		if err := i.repo.EnsureTable(ctx, tx); err != nil {
			return storageErr("create history table", err)
		}

		batch := make([]*models.PriceHistory, 0, i.opts.BatchSize)
		flush := func() error {
			if err := i.repo.UpsertBatch(ctx, tx, batch); err != nil {
				return storageErr("insert batch", err)
			}
			stats.Written += len(batch)
			batch = batch[:0]
			return nil
		}

		for uuid, tree := range stream.All() {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch = append(batch, &models.PriceHistory{
				UUID:      uuid,
				PriceJSON: string(tree.Encode()),
			})
			stats.Processed++

			if len(batch) >= i.opts.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
			if stats.Processed%i.opts.ProgressEvery == 0 {
				logger.LogRun("Imported price records",
					slog.Int("count", stats.Processed),
					slog.Int64("offset", stream.Offset()),
				)
			}
		}
		if err := stream.Err(); err != nil {
			return err
		}
		return flush()
	})
	stats.Took = time.Since(start)
	if err != nil {
		return stats, storageErr("commit import", err)
	}

	logger.LogRun("Snapshot import committed",
		slog.Int("records", stats.Processed),
		slog.Duration("took", stats.Took),
	)
	return stats, nil
}
