package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ellavondegurechaff/pricevault/internal/testutil"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories/mock"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/mock/gomock"
)

const bulkSnapshot = `{
  "meta": {"date": "2025-09-21", "version": "5.2.2"},
  "data": {
    "u1": {"paper": {"tcgplayer": {"retail": {"normal": {"2025-09-20": 1.00, "2025-09-21": 1.10}}}}},
    "u2": {"paper": {"cardkingdom": {"buylist": {"foil": {"2025-09-21": 0.50}}}}},
    "u3": {"mtgo": {"cardhoarder": {"retail": {"normal": {"2025-09-21": 0.02}}}}}
  }
}`

func TestImportSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	imp := NewImporter(db.BunDB(), repositories.NewPriceHistoryRepository(), Options{BatchSize: 2, ProgressEvery: 1})

	stats, err := imp.ImportSnapshot(ctx, strings.NewReader(bulkSnapshot))
	require.NoError(t, err)
	require.Equal(t, 3, stats.Processed)
	require.Equal(t, 3, stats.Written)

	require.Equal(t, map[string]string{
		"u1": `{"paper":{"tcgplayer":{"retail":{"normal":{"2025-09-20":1.00,"2025-09-21":1.10}}}}}`,
		"u2": `{"paper":{"cardkingdom":{"buylist":{"foil":{"2025-09-21":0.50}}}}}`,
		"u3": `{"mtgo":{"cardhoarder":{"retail":{"normal":{"2025-09-21":0.02}}}}}`,
	}, testutil.DumpHistory(t, db))
}

func TestImportSnapshot_DuplicateKeyLastWins(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	imp := NewImporter(db.BunDB(), repositories.NewPriceHistoryRepository(), Options{BatchSize: 10})

	_, err := imp.ImportSnapshot(ctx, strings.NewReader(`{"data": {"u1": {"a": 1}, "u1": {"b": 2}}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"u1": `{"b":2}`}, testutil.DumpHistory(t, db))
}

func TestImportSnapshot_CreatesTable(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	_, err := db.BunDB().ExecContext(ctx, "DROP TABLE price_history")
	require.NoError(t, err)

	imp := NewImporter(db.BunDB(), repositories.NewPriceHistoryRepository(), Options{})
	stats, err := imp.ImportSnapshot(ctx, strings.NewReader(`{"data": {"u1": {"a": 1}}}`))
	require.NoError(t, err)
	require.Equal(t, 1, stats.Processed)
}

func TestImportSnapshot_MalformedLeavesNothing(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	testutil.SeedHistory(t, db, map[string]string{"old": `{"x":1}`})
	before := testutil.DumpHistory(t, db)

	imp := NewImporter(db.BunDB(), repositories.NewPriceHistoryRepository(), Options{BatchSize: 1})
	stats, err := imp.ImportSnapshot(ctx, strings.NewReader(`{"data": {"u1": {"a": 1}, "u2": {"a": 2}, "u3": {"a": `))

	var pe *errs.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	require.Equal(t, 2, pe.Record)
	require.Equal(t, 2, stats.Processed)
	require.Equal(t, before, testutil.DumpHistory(t, db))
}

func TestImportSnapshot_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	store := repositories.NewPriceHistoryRepository()

	repo := mock.NewMockPriceHistoryRepository(gomock.NewController(t))
	repo.EXPECT().EnsureTable(gomock.Any(), gomock.Any()).DoAndReturn(store.EnsureTable)
	calls := 0
	repo.EXPECT().UpsertBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, idb bun.IDB, rows []*models.PriceHistory) error {
			calls++
			if calls == 2 {
				return errors.New("disk I/O error")
			}
			return store.UpsertBatch(ctx, idb, rows)
		}).
		Times(2)

	imp := NewImporter(db.BunDB(), repo, Options{BatchSize: 2})
	_, err := imp.ImportSnapshot(ctx, strings.NewReader(bulkSnapshot+"\n"))

	var se *errs.StorageError
	require.True(t, errors.As(err, &se), "got %v", err)
	require.Empty(t, testutil.DumpHistory(t, db))
}
