package prices

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/internal/testutil"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/stretchr/testify/require"
)

const boltHistory = `{"paper":{"tcgplayer":{"retail":{"normal":{"2025-09-21":2.10,"2025-09-19":1.95,"2025-09-20":2.00},"foil":{"2025-09-20":"9.99"}}}}}`

type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, setCode, number string) (string, error) {
	if uuid, ok := s[setCode+"/"+number]; ok {
		return uuid, nil
	}
	return "", &errs.NotFoundError{Entity: "card", Key: setCode + "/" + number}
}

func newReader(t *testing.T) *Reader {
	t.Helper()
	db := testutil.NewStore(t)
	testutil.SeedHistory(t, db, map[string]string{"bolt": boltHistory})
	_, err := db.BunDB().ExecContext(context.Background(),
		`CREATE TABLE cards (uuid TEXT NOT NULL, name TEXT, setCode TEXT, number TEXT)`)
	require.NoError(t, err)
	_, err = db.BunDB().ExecContext(context.Background(), `INSERT INTO cards VALUES
		('bolt', 'Lightning Bolt', 'LEA', '161'),
		('elves', 'Llanowar Elves', 'LEA', '210')`)
	require.NoError(t, err)

	return NewReader(
		db.BunDB(),
		repositories.NewPriceHistoryRepository(),
		repositories.NewCardRepository(),
		stubResolver{"LEA/161": "bolt", "LEA/210": "elves"},
	)
}

func TestReader_Card(t *testing.T) {
	ctx := context.Background()
	r := newReader(t)

	card, err := r.Card(ctx, "elves")
	require.NoError(t, err)
	require.Equal(t, "Llanowar Elves", card.Name)
	require.Equal(t, "210", card.Number)

	_, err = r.Card(ctx, "missing")
	var nf *errs.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "card", nf.Entity)
	require.Equal(t, "missing", nf.Key)
}

func TestReader_History(t *testing.T) {
	ctx := context.Background()
	r := newReader(t)

	tree, err := r.History(ctx, "bolt")
	require.NoError(t, err)
	require.Equal(t, 4, tree.LeafCount())

	_, err = r.History(ctx, "missing")
	require.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestReader_ByPrinting(t *testing.T) {
	ctx := context.Background()
	r := newReader(t)

	uuid, tree, err := r.ByPrinting(ctx, "LEA", "161")
	require.NoError(t, err)
	require.Equal(t, "bolt", uuid)
	require.False(t, tree.IsEmpty())

	// Known printing, never priced.
	_, _, err = r.ByPrinting(ctx, "LEA", "210")
	var nf *errs.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "price history", nf.Entity)

	_, _, err = r.ByPrinting(ctx, "XXX", "1")
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "card", nf.Entity)
}

func TestSelect(t *testing.T) {
	tree, err := pricetree.Decode([]byte(boltHistory))
	require.NoError(t, err)

	got, err := Select(tree, `$.paper.tcgplayer.retail.normal["2025-09-20"]`)
	require.NoError(t, err)
	require.Equal(t, json.Number("2.00"), got)

	got, err = Select(tree, "$.paper.tcgplayer.retail.foil")
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"2025-09-20": "9.99"}, got)

	_, err = Select(tree, "$.mtgo.cardkingdom")
	require.Error(t, err)
}

func TestSeries(t *testing.T) {
	tree, err := pricetree.Decode([]byte(boltHistory))
	require.NoError(t, err)

	points, err := Series(tree, "paper", "tcgplayer", "retail", "normal")
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.Equal(t, "2025-09-19 1.95", points[0].String())
	require.Equal(t, "2025-09-21 2.1", points[2].String())

	last, ok := Latest(points)
	require.True(t, ok)
	require.Equal(t, "2.1", last.Price.String())

	foil, err := Series(tree, "paper", "tcgplayer", "retail", "foil")
	require.NoError(t, err)
	require.Equal(t, "9.99", foil[0].Price.String())

	_, ok = Latest(nil)
	require.False(t, ok)
}

func TestSeries_Errors(t *testing.T) {
	tree, err := pricetree.Decode([]byte(boltHistory))
	require.NoError(t, err)

	_, err = Series(tree, "paper", "cardmarket")
	require.True(t, errs.IsNotFound(err))

	_, err = Series(tree, "paper", "tcgplayer", "retail", "normal", "2025-09-20")
	require.True(t, errs.IsNotFound(err), "a leaf is not a series")

	_, err = Series(tree, "paper", "tcgplayer")
	require.Error(t, err)
	require.False(t, errs.IsNotFound(err))
}
