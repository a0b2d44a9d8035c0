package pricevault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig is what an empty config file decodes to.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	DB       database.DBConfig `toml:"db"`
	Sources  SourcesConfig     `toml:"sources"`
	Spaces   SpacesConfig      `toml:"spaces"`
	Pipeline PipelineConfig    `toml:"pipeline"`
	Catalog  CatalogConfig     `toml:"catalog"`
	Notify   NotifyConfig      `toml:"notify"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type SourcesConfig struct {
	Kind        string `toml:"kind"`
	Dir         string `toml:"dir"`
	BulkPrices  string `toml:"bulk_prices"`
	DailyPrices string `toml:"daily_prices"`
	Reference   string `toml:"reference"`
	TmpDir      string `toml:"tmp_dir"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Root     string `toml:"root"`
	Endpoint string `toml:"endpoint"`
}

type PipelineConfig struct {
	BatchSize     int `toml:"batch_size"`
	ProgressEvery int `toml:"progress_every"`
}

type CatalogConfig struct {
	RequiredTables    []string `toml:"required_tables"`
	ResolverCacheSize int      `toml:"resolver_cache_size"`
}

type NotifyConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

func (c *Config) applyDefaults() {
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.DB.Path == "" {
		c.DB.Path = filepath.Join(config.DefaultDataDir, config.DefaultStoreFile)
	}
	if c.DB.BusyTimeoutMS <= 0 {
		c.DB.BusyTimeoutMS = config.DefaultBusyTimeoutMS
	}
	if c.Sources.Kind == "" {
		c.Sources.Kind = config.SourceKindFile
	}
	if c.Sources.Dir == "" {
		c.Sources.Dir = config.DefaultDataDir
	}
	if c.Sources.BulkPrices == "" {
		c.Sources.BulkPrices = config.DefaultBulkPrices
	}
	if c.Sources.DailyPrices == "" {
		c.Sources.DailyPrices = config.DefaultDailyPrices
	}
	if c.Sources.Reference == "" {
		c.Sources.Reference = config.DefaultReference
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = config.DefaultBatchSize
	}
	if c.Pipeline.ProgressEvery <= 0 {
		c.Pipeline.ProgressEvery = config.DefaultProgressEvery
	}
	if len(c.Catalog.RequiredTables) == 0 {
		c.Catalog.RequiredTables = []string{config.CardsTable}
	}
	if c.Catalog.ResolverCacheSize <= 0 {
		c.Catalog.ResolverCacheSize = config.DefaultResolverCacheSize
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Sources.Kind {
	case config.SourceKindFile:
	case config.SourceKindSpaces:
		if c.Spaces.Bucket == "" {
			return fmt.Errorf("sources.kind = %q requires spaces.bucket", c.Sources.Kind)
		}
	default:
		return fmt.Errorf("unknown sources.kind %q", c.Sources.Kind)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}
