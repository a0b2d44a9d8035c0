package pricevault

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, filepath.Join("data", "AllData.sqlite"), cfg.DB.Path)
	require.Equal(t, config.SourceKindFile, cfg.Sources.Kind)
	require.Equal(t, "AllPricesToday.json", cfg.Sources.DailyPrices)
	require.Equal(t, []string{"cards"}, cfg.Catalog.RequiredTables)
	require.Equal(t, 500, cfg.Pipeline.BatchSize)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
[log]
level = "debug"
format = "json"

[db]
path = "/var/lib/pricevault/AllData.sqlite"
busy_timeout_ms = 100

[sources]
kind = "spaces"

[spaces]
region = "nyc3"
bucket = "mtgjson"

[pipeline]
batch_size = 50

[notify]
webhook_url = "https://discord.com/api/webhooks/1/abc"
`))
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 100, cfg.DB.BusyTimeoutMS)
	require.Equal(t, "mtgjson", cfg.Spaces.Bucket)
	require.Equal(t, 50, cfg.Pipeline.BatchSize)
	require.Equal(t, 50000, cfg.Pipeline.ProgressEvery)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown source kind", body: "[sources]\nkind = \"ftp\"\n"},
		{name: "spaces without bucket", body: "[sources]\nkind = \"spaces\"\n"},
		{name: "unknown log format", body: "[log]\nformat = \"xml\"\n"},
		{name: "malformed toml", body: "[log\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
