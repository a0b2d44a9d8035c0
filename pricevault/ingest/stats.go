package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
)

// Stats describes one import or delta run. On failure Processed still holds
// the number of records staged before the error, although none of them
// were committed.
type Stats struct {
	Processed int
	Written   int
	Unchanged int
	Took      time.Duration
}

type Options struct {
	BatchSize     int
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = config.DefaultBatchSize
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = config.DefaultProgressEvery
	}
	return o
}

// storageErr leaves typed pipeline errors and context errors alone and
// wraps anything else as a StorageError.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var (
		ioErr *errs.IOError
		pErr  *errs.ParseError
		sErr  *errs.StorageError
	)
	if errors.As(err, &ioErr) || errors.As(err, &pErr) || errors.As(err, &sErr) {
		return err
	}
	return &errs.StorageError{Op: op, Err: err}
}
