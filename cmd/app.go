package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault"
	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/ingest"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/ellavondegurechaff/pricevault/pricevault/notify"
	"github.com/ellavondegurechaff/pricevault/pricevault/pipeline"
	"github.com/ellavondegurechaff/pricevault/pricevault/services"
	"github.com/google/subcommands"
)

var configPath = flag.String("config", "config.toml", "path to config")

// Command output goes here; logs go to stderr.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")

	c.Register(&importCmd{}, "pipeline")
	c.Register(&updateCmd{}, "pipeline")
	c.Register(&refreshCmd{}, "pipeline")
	c.Register(&applyCmd{}, "pipeline")

	c.Register(&resolveCmd{}, "lookup")
	c.Register(&pricesCmd{}, "lookup")
	c.Register(&namesCmd{}, "lookup")
}

type app struct {
	cfg    *pricevault.Config
	db     *database.DB
	runner *pipeline.Runner
}

// openApp loads the config, sets up logging and opens the store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := pricevault.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.Setup(cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource, stderr))

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	src, err := newSource(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	runner := pipeline.New(db, pipeline.Options{
		Source: src,
		Files: pipeline.Files{
			BulkPrices:  cfg.Sources.BulkPrices,
			DailyPrices: cfg.Sources.DailyPrices,
			Reference:   cfg.Sources.Reference,
			TmpDir:      cfg.Sources.TmpDir,
		},
		Ingest: ingest.Options{
			BatchSize:     cfg.Pipeline.BatchSize,
			ProgressEvery: cfg.Pipeline.ProgressEvery,
		},
		RequiredTables: cfg.Catalog.RequiredTables,
		CacheSize:      cfg.Catalog.ResolverCacheSize,
		Notifier:       notifier,
	})
	return &app{cfg: cfg, db: db, runner: runner}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.runner.Close(ctx); err != nil {
		logger.LogError("Failed to close runner", err)
	}
	if err := a.db.Close(); err != nil {
		logger.LogError("Failed to close store", err)
	}
}

func newSource(ctx context.Context, cfg *pricevault.Config) (services.Source, error) {
	if cfg.Sources.Kind != config.SourceKindSpaces {
		return services.NewFileSource(cfg.Sources.Dir), nil
	}
	return services.NewSpacesSource(ctx, services.SpacesOptions{
		Key:      cfg.Spaces.Key,
		Secret:   cfg.Spaces.Secret,
		Region:   cfg.Spaces.Region,
		Bucket:   cfg.Spaces.Bucket,
		Root:     cfg.Spaces.Root,
		Endpoint: cfg.Spaces.Endpoint,
	})
}

func newNotifier(cfg *pricevault.Config) (notify.Notifier, error) {
	if cfg.Notify.WebhookURL == "" {
		return notify.Nop{}, nil
	}
	return notify.NewWebhook(cfg.Notify.WebhookURL)
}

// withApp opens the app, runs fn and maps its error to an exit status.
func withApp(ctx context.Context, fn func(context.Context, *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	if err := fn(ctx, a); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printReport(rep pipeline.Report) {
	fmt.Fprintf(stdout, "%s: %d records", rep.Run, rep.Processed)
	if rep.Rows > 0 {
		fmt.Fprintf(stdout, ", %d catalog rows", rep.Rows)
	}
	fmt.Fprintf(stdout, " in %s\n", rep.Took.Round(time.Millisecond))
}
