package prices

import (
	"context"
	"fmt"

	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/uptrace/bun"
)

// UUIDResolver turns a human-facing printing key into a uuid.
type UUIDResolver interface {
	Resolve(ctx context.Context, setCode, number string) (string, error)
}

// Reader is the read path over stored price histories.
type Reader struct {
	db       bun.IDB
	history  repositories.PriceHistoryRepository
	cards    repositories.CardRepository
	resolver UUIDResolver
}

func NewReader(
	db bun.IDB,
	history repositories.PriceHistoryRepository,
	cards repositories.CardRepository,
	resolver UUIDResolver,
) *Reader {
	return &Reader{
		db:       db,
		history:  history,
		cards:    cards,
		resolver: resolver,
	}
}

// Card returns the catalog row of uuid.
func (r *Reader) Card(ctx context.Context, uuid string) (*models.Card, error) {
	card, err := r.cards.GetByUUID(ctx, r.db, uuid)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, &errs.NotFoundError{Entity: "card", Key: uuid}
		}
		return nil, fmt.Errorf("failed to read card %s: %w", uuid, err)
	}
	return card, nil
}

// History returns the full price tree of uuid. A uuid that has never been
// priced is an *errs.NotFoundError.
func (r *Reader) History(ctx context.Context, uuid string) (pricetree.Tree, error) {
	row, err := r.history.Get(ctx, r.db, uuid)
	if err != nil {
		if errs.IsNotFound(err) {
			return pricetree.Tree{}, &errs.NotFoundError{Entity: "price history", Key: uuid}
		}
		return pricetree.Tree{}, fmt.Errorf("failed to read history of %s: %w", uuid, err)
	}
	tree, err := pricetree.Decode([]byte(row.PriceJSON))
	if err != nil {
		return pricetree.Tree{}, fmt.Errorf("stored history of %s is corrupt: %w", uuid, err)
	}
	return tree, nil
}

// ByPrinting resolves setCode/number and returns the uuid with its history.
func (r *Reader) ByPrinting(ctx context.Context, setCode, number string) (string, pricetree.Tree, error) {
	uuid, err := r.resolver.Resolve(ctx, setCode, number)
	if err != nil {
		return "", pricetree.Tree{}, err
	}
	tree, err := r.History(ctx, uuid)
	return uuid, tree, err
}
