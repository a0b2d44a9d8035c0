package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/stretchr/testify/require"
)

// NewStore opens a fresh store with the history table in a temp dir.
func NewStore(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(context.Background(), database.DBConfig{
		Path: filepath.Join(t.TempDir(), "AllData.sqlite"),
	})
	require.NoError(t, err, "failed to open test store")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitializeSchema(context.Background()))
	return db
}

// SeedHistory writes rows (uuid -> price_json) verbatim.
func SeedHistory(t *testing.T, db *database.DB, rows map[string]string) {
	t.Helper()

	for uuid, js := range rows {
		_, err := db.BunDB().ExecContext(context.Background(),
			"INSERT INTO price_history (uuid, price_json) VALUES (?, ?)", uuid, js)
		require.NoError(t, err, "failed to seed %s", uuid)
	}
}

// DumpHistory returns every history row keyed by uuid.
func DumpHistory(t *testing.T, db *database.DB) map[string]string {
	t.Helper()

	rows, err := db.BunDB().QueryContext(context.Background(),
		"SELECT uuid, price_json FROM price_history ORDER BY uuid")
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var uuid, js string
		require.NoError(t, rows.Scan(&uuid, &js))
		out[uuid] = js
	}
	require.NoError(t, rows.Err())
	return out
}

// Tables lists the user tables of the store, sorted.
func Tables(t *testing.T, db *database.DB) []string {
	t.Helper()

	var names []string
	err := db.BunDB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	).Scan(context.Background(), &names)
	require.NoError(t, err)
	return names
}
