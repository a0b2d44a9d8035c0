package repositories

import (
	"context"
	"strings"

	"github.com/ellavondegurechaff/pricevault/internal/domain/logger"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/uptrace/bun"
)

const cardEntity = "card"

// CardRepository is the read side of the catalog cards table.
type CardRepository interface {
	GetBySetNumber(ctx context.Context, idb bun.IDB, setCode, number string) (*models.Card, error)
	GetByUUID(ctx context.Context, idb bun.IDB, uuid string) (*models.Card, error)
	Names(ctx context.Context, idb bun.IDB) ([]string, error)
}

type cardRepository struct {
	*BaseRepository
}

var _ CardRepository = &cardRepository{}

func NewCardRepository() CardRepository {
	return &cardRepository{BaseRepository: NewBaseRepository()}
}

// GetBySetNumber returns the printing at setCode/number. When the catalog
// carries duplicates the first inserted row wins.
func (r *cardRepository) GetBySetNumber(ctx context.Context, idb bun.IDB, setCode, number string) (*models.Card, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.Card)
	err := idb.NewSelect().
		Model(card).
		Where(`c."setCode" = ?`, setCode).
		Where("c.number = ?", number).
		OrderExpr("c.rowid ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithKey("get_by_set_number", cardEntity, setCode+"/"+number, err)
	}
	return card, nil
}

func (r *cardRepository) GetByUUID(ctx context.Context, idb bun.IDB, uuid string) (*models.Card, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.Card)
	err := idb.NewSelect().
		Model(card).
		Where("c.uuid = ?", uuid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithKey("get_by_uuid", cardEntity, uuid, err)
	}
	return card, nil
}

// Names lists the distinct card names, sorted, skipping blanks.
func (r *cardRepository) Names(ctx context.Context, idb bun.IDB) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ql := logger.NewQueryLogger("names", cardEntity)
	var names []string
	err := idb.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("DISTINCT c.name").
		Where("c.name IS NOT NULL").
		OrderExpr("c.name ASC").
		Scan(ctx, &names)
	ql.Log(err, int64(len(names)))
	if err != nil {
		return nil, r.HandleError("names", cardEntity, err)
	}

	out := names[:0]
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out, nil
}
