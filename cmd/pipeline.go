package cmd

import (
	"context"
	"flag"

	"github.com/ellavondegurechaff/pricevault/pricevault/pipeline"
	"github.com/google/subcommands"
)

type importCmd struct {
	noRefresh bool
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "load a full price snapshot into an empty or existing store"
}
func (*importCmd) Usage() string {
	return `pricevault import [-no-refresh] [<snapshot>]

  Refreshes the catalog from the configured reference dataset, then imports
  the bulk snapshot (sources.bulk_prices unless <snapshot> is given).
  Existing rows for the same uuid are replaced.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noRefresh, "no-refresh", false, "Skip the catalog refresh.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		name := a.cfg.Sources.BulkPrices
		if f.NArg() == 1 {
			name = f.Arg(0)
		}
		var (
			rep pipeline.Report
			err error
		)
		if c.noRefresh {
			rep, err = a.runner.Import(ctx, name)
		} else {
			rep, err = a.runner.BootstrapFrom(ctx, name)
		}
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	})
}

type updateCmd struct {
	noRefresh bool
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "run the daily refresh and delta merge" }
func (*updateCmd) Usage() string {
	return `pricevault update [-no-refresh]

  Refreshes the catalog, then merges the daily snapshot
  (sources.daily_prices) into the stored histories.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noRefresh, "no-refresh", false, "Skip the catalog refresh.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		var (
			rep pipeline.Report
			err error
		)
		if c.noRefresh {
			rep, err = a.runner.Apply(ctx, a.cfg.Sources.DailyPrices)
		} else {
			rep, err = a.runner.Daily(ctx)
		}
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	})
}

type refreshCmd struct{}

func (*refreshCmd) Name() string { return "refresh" }
func (*refreshCmd) Synopsis() string {
	return "replace the catalog tables from a reference dataset"
}
func (*refreshCmd) Usage() string {
	return `pricevault refresh [<reference.sqlite>]

  Replaces every catalog table with those of the reference dataset
  (sources.reference unless given). Price histories are kept.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		name := a.cfg.Sources.Reference
		if f.NArg() == 1 {
			name = f.Arg(0)
		}
		rep, err := a.runner.Refresh(ctx, name)
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	})
}

type applyCmd struct{}

func (*applyCmd) Name() string     { return "apply" }
func (*applyCmd) Synopsis() string { return "merge one delta snapshot into the histories" }
func (*applyCmd) Usage() string {
	return `pricevault apply <snapshot>
`
}

func (*applyCmd) SetFlags(*flag.FlagSet) {}

func (*applyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		rep, err := a.runner.Apply(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		printReport(rep)
		return nil
	})
}
