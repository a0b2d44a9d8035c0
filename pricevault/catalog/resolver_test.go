package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/pricevault/internal/testutil"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories/mock"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	resolver := NewResolver(db.BunDB(), repositories.NewCardRepository(), 16)
	r := NewRefresher(db, nil)
	r.OnCopy(resolver.EnsureIndex)
	r.OnCommit(resolver.Purge)

	_, err := r.Refresh(ctx, testutil.WriteReference(t, t.TempDir(), "AllPrintings.sqlite", testutil.DefaultCards))
	require.NoError(t, err)

	tests := []struct {
		name    string
		set     string
		number  string
		want    string
		wantErr bool
	}{
		{name: "exact", set: "LEA", number: "161", want: testutil.DefaultCards[0].UUID},
		{name: "lower-case set code", set: "rav", number: "213", want: testutil.DefaultCards[2].UUID},
		{name: "padded input", set: " lea ", number: " 210 ", want: testutil.DefaultCards[1].UUID},
		{name: "unknown number", set: "LEA", number: "999", wantErr: true},
		{name: "unknown set", set: "XXX", number: "161", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(ctx, tt.set, tt.number)
			if tt.wantErr {
				require.True(t, errs.IsNotFound(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_NotFoundUntilRefreshAddsIt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := testutil.NewStore(t)
	resolver := NewResolver(db.BunDB(), repositories.NewCardRepository(), 16)
	r := NewRefresher(db, nil)
	r.OnCommit(resolver.Purge)

	_, err := r.Refresh(ctx, testutil.WriteReference(t, dir, "v1.sqlite", testutil.DefaultCards[:1]))
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, "RAV", "213")
	require.True(t, errs.IsNotFound(err))

	_, err = r.Refresh(ctx, testutil.WriteReference(t, dir, "v2.sqlite", testutil.DefaultCards))
	require.NoError(t, err)

	got, err := resolver.Resolve(ctx, "RAV", "213")
	require.NoError(t, err)
	require.Equal(t, testutil.DefaultCards[2].UUID, got)
}

func TestResolver_CachesAndPurges(t *testing.T) {
	ctx := context.Background()
	cards := mock.NewMockCardRepository(gomock.NewController(t))
	cards.EXPECT().
		GetBySetNumber(gomock.Any(), gomock.Any(), "LEA", "161").
		Return(&models.Card{UUID: "u1"}, nil).
		Times(2)

	resolver := NewResolver(nil, cards, 4)
	for i := 0; i < 3; i++ {
		got, err := resolver.Resolve(ctx, "lea", "161")
		require.NoError(t, err)
		require.Equal(t, "u1", got)
	}

	resolver.Purge()
	_, err := resolver.Resolve(ctx, "LEA", "161")
	require.NoError(t, err)
}

func TestResolver_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	cards := mock.NewMockCardRepository(gomock.NewController(t))
	cards.EXPECT().
		GetBySetNumber(gomock.Any(), gomock.Any(), "LEA", "1").
		Return(nil, &errs.NotFoundError{Entity: "card", Key: "LEA/1"}).
		Times(2)

	resolver := NewResolver(nil, cards, 4)
	for i := 0; i < 2; i++ {
		_, err := resolver.Resolve(ctx, "LEA", "1")
		var nf *errs.NotFoundError
		require.True(t, errors.As(err, &nf))
	}
}

func TestResolver_EnsureIndexFallsBackOnDuplicates(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewStore(t)
	resolver := NewResolver(db.BunDB(), repositories.NewCardRepository(), 16)
	r := NewRefresher(db, nil)
	r.OnCopy(resolver.EnsureIndex)

	dupes := append([]testutil.ReferenceCard{}, testutil.DefaultCards...)
	dupes = append(dupes, testutil.ReferenceCard{UUID: "variant", Name: "Lightning Bolt", SetCode: "LEA", Number: "161"})

	_, err := r.Refresh(ctx, testutil.WriteReference(t, t.TempDir(), "dupes.sqlite", dupes))
	require.NoError(t, err)
	require.True(t, hasObject(t, db, "index", "idx_cards_set_number"))

	got, err := resolver.Resolve(ctx, "LEA", "161")
	require.NoError(t, err)
	require.Equal(t, testutil.DefaultCards[0].UUID, got)
}
