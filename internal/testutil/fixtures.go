package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// ReferenceCard is one row of a fixture catalog.
type ReferenceCard struct {
	UUID    string
	Name    string
	SetCode string
	Number  string
}

// DefaultCards is a small catalog spanning two sets.
var DefaultCards = []ReferenceCard{
	{UUID: "a1b2c3d4-0000-0000-0000-000000000001", Name: "Lightning Bolt", SetCode: "LEA", Number: "161"},
	{UUID: "a1b2c3d4-0000-0000-0000-000000000002", Name: "Llanowar Elves", SetCode: "LEA", Number: "210"},
	{UUID: "a1b2c3d4-0000-0000-0000-000000000003", Name: "Lightning Helix", SetCode: "RAV", Number: "213"},
}

// ReferenceSchema mirrors the parts of AllPrintings.sqlite the pipeline
// touches: cards, sets, an index and a view.
var ReferenceSchema = []string{
	`CREATE TABLE cards (uuid VARCHAR(36) NOT NULL, name TEXT, setCode TEXT, number TEXT, rarity TEXT)`,
	`CREATE TABLE sets (code TEXT NOT NULL, name TEXT)`,
	`CREATE INDEX cards_name ON cards(name)`,
	`CREATE VIEW set_sizes AS SELECT setCode, COUNT(*) AS n FROM cards GROUP BY setCode`,
}

// WriteReference builds a reference dataset holding cards, plus any extra
// statements, and returns its path.
func WriteReference(t *testing.T, dir, name string, cards []ReferenceCard, extra ...string) string {
	t.Helper()

	stmts := append([]string{}, ReferenceSchema...)
	path := WriteRawReference(t, dir, name, stmts...)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	sets := map[string]bool{}
	for _, c := range cards {
		_, err := db.Exec("INSERT INTO cards (uuid, name, setCode, number, rarity) VALUES (?, ?, ?, ?, 'common')",
			c.UUID, c.Name, c.SetCode, c.Number)
		require.NoError(t, err)
		if !sets[c.SetCode] {
			sets[c.SetCode] = true
			_, err := db.Exec("INSERT INTO sets (code, name) VALUES (?, ?)", c.SetCode, c.SetCode)
			require.NoError(t, err)
		}
	}
	for _, s := range extra {
		_, err := db.Exec(s)
		require.NoError(t, err, "fixture statement %q", s)
	}
	return path
}

// WriteRawReference creates a SQLite file from stmts alone.
func WriteRawReference(t *testing.T, dir, name string, stmts ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, "fixture statement %q", s)
	}
	return path
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
