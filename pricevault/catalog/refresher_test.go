package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ellavondegurechaff/pricevault/internal/testutil"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var seededHistory = map[string]string{
	"a1b2c3d4-0000-0000-0000-000000000001": `{"paper":{"tcgplayer":{"retail":{"normal":{"2025-09-20":1.00}}}}}`,
	"orphan":                               `{"mtgo":{"cardhoarder":{"retail":{"normal":{"2025-01-01":0.01}}}}}`,
}

func countRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.BunDB().NewRaw("SELECT COUNT(*) FROM ?", bun.Ident(table)).Scan(context.Background(), &n))
	return n
}

func hasObject(t *testing.T, db *database.DB, typ, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.BunDB().NewRaw(
		"SELECT COUNT(*) FROM main.sqlite_master WHERE type = ? AND name = ?", typ, name,
	).Scan(context.Background(), &n))
	return n > 0
}

func attached(t *testing.T, db *database.DB) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.BunDB().NewRaw("SELECT name FROM pragma_database_list").Scan(context.Background(), &names))
	return names
}

func TestRefresh_ReplacesCatalogAndPreservesHistory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := testutil.NewStore(t)
	testutil.SeedHistory(t, db, seededHistory)
	before := testutil.DumpHistory(t, db)

	resolver := NewResolver(db.BunDB(), repositories.NewCardRepository(), 16)
	r := NewRefresher(db, nil)
	r.OnCopy(resolver.EnsureIndex)

	res, err := r.Refresh(ctx, testutil.WriteReference(t, dir, "v1.sqlite", testutil.DefaultCards))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"cards", "sets"}, res.Copied)
	require.EqualValues(t, 3+2, res.Rows)
	require.Empty(t, res.Dropped)
	require.Equal(t, PhaseIdle, r.Phase())

	require.Equal(t, []string{"cards", "price_history", "sets"}, testutil.Tables(t, db))
	require.Equal(t, 3, countRows(t, db, "cards"))
	require.True(t, hasObject(t, db, "index", "cards_name"))
	require.True(t, hasObject(t, db, "index", "idx_cards_set_number"))
	require.True(t, hasObject(t, db, "view", "set_sizes"))
	require.Equal(t, before, testutil.DumpHistory(t, db))
	require.NotContains(t, attached(t, db), "refdata")

	// A second reference without sets: the old sets table must go.
	v2 := testutil.WriteRawReference(t, dir, "v2.sqlite",
		`CREATE TABLE cards (uuid TEXT NOT NULL, name TEXT, setCode TEXT, number TEXT)`,
		`INSERT INTO cards VALUES ('new-uuid', 'Black Lotus', 'LEA', '232')`,
	)
	res, err = r.Refresh(ctx, v2)
	require.NoError(t, err)
	require.Equal(t, []string{"cards"}, res.Copied)
	require.ElementsMatch(t, []string{"set_sizes", "cards_name", "idx_cards_set_number", "cards", "sets"}, res.Dropped)

	require.Equal(t, []string{"cards", "price_history"}, testutil.Tables(t, db))
	require.Equal(t, 1, countRows(t, db, "cards"))
	require.False(t, hasObject(t, db, "view", "set_sizes"))
	require.Equal(t, before, testutil.DumpHistory(t, db))
}

func TestRefresh_SchemaMismatchKeepsOldCatalog(t *testing.T) {
	tests := []struct {
		name  string
		stmts []string
	}{
		{
			name:  "cards table missing",
			stmts: []string{`CREATE TABLE sets (code TEXT)`},
		},
		{
			name:  "cards lacks number",
			stmts: []string{`CREATE TABLE cards (uuid TEXT, name TEXT, setCode TEXT)`},
		},
		{
			name: "reference ships a history table",
			stmts: []string{
				`CREATE TABLE cards (uuid TEXT, name TEXT, setCode TEXT, number TEXT)`,
				`CREATE TABLE price_history (uuid TEXT PRIMARY KEY, price_json TEXT)`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			db := testutil.NewStore(t)
			testutil.SeedHistory(t, db, seededHistory)
			r := NewRefresher(db, []string{"cards"})

			_, err := r.Refresh(ctx, testutil.WriteReference(t, dir, "v1.sqlite", testutil.DefaultCards))
			require.NoError(t, err)
			history := testutil.DumpHistory(t, db)
			tables := testutil.Tables(t, db)

			res, err := r.Refresh(ctx, testutil.WriteRawReference(t, dir, "bad.sqlite", tt.stmts...))
			var sm *errs.SchemaMismatch
			require.True(t, errors.As(err, &sm), "got %v", err)
			require.Equal(t, PhaseAttachNewSource, res.Phase)

			require.Equal(t, tables, testutil.Tables(t, db))
			require.Equal(t, 3, countRows(t, db, "cards"))
			require.Equal(t, history, testutil.DumpHistory(t, db))
			require.NotContains(t, attached(t, db), "refdata")
		})
	}
}

func TestRefresh_CopyFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := testutil.NewStore(t)
	testutil.SeedHistory(t, db, seededHistory)
	r := NewRefresher(db, nil)

	_, err := r.Refresh(ctx, testutil.WriteReference(t, dir, "v1.sqlite", testutil.DefaultCards))
	require.NoError(t, err)
	tables := testutil.Tables(t, db)
	history := testutil.DumpHistory(t, db)

	committed := false
	r.OnCopy(func(ctx context.Context, idb bun.IDB) error {
		return errors.New("disk full")
	})
	r.OnCommit(func() { committed = true })

	v2 := testutil.WriteReference(t, dir, "v2.sqlite", testutil.DefaultCards[:1])
	res, err := r.Refresh(ctx, v2)

	var se *errs.StorageError
	require.True(t, errors.As(err, &se), "got %v", err)
	require.Equal(t, "CopyTables", se.Phase)
	require.Equal(t, PhaseCopyTables, res.Phase)
	require.Empty(t, res.Copied)
	require.False(t, committed)

	require.Equal(t, tables, testutil.Tables(t, db))
	require.Equal(t, 3, countRows(t, db, "cards"))
	require.True(t, hasObject(t, db, "index", "cards_name"))
	require.Equal(t, history, testutil.DumpHistory(t, db))
	require.NotContains(t, attached(t, db), "refdata")
}

func TestRefresh_MissingReference(t *testing.T) {
	db := testutil.NewStore(t)
	r := NewRefresher(db, nil)

	_, err := r.Refresh(context.Background(), t.TempDir()+"/nope.sqlite")
	var ioErr *errs.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	require.Equal(t, []string{"price_history"}, testutil.Tables(t, db))
}

func TestRefresh_NotADatabase(t *testing.T) {
	dir := t.TempDir()
	db := testutil.NewStore(t)
	r := NewRefresher(db, nil)

	path := testutil.WriteFile(t, dir, "AllPrintings.sqlite", strings.Repeat("not a database ", 128))
	_, err := r.Refresh(context.Background(), path)
	var se *errs.StorageError
	require.True(t, errors.As(err, &se), "got %v", err)
	require.NotContains(t, attached(t, db), "refdata")
}

func TestPhase_String(t *testing.T) {
	want := []string{"Idle", "EnumerateOldObjects", "DropOldObjects", "AttachNewSource", "CopyTables", "Detach"}
	for i, w := range want {
		if got := Phase(i).String(); got != w {
			t.Errorf("Phase(%d).String() = %q, want %q", i, got, w)
		}
	}
}
