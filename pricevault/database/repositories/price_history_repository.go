package repositories

import (
	"context"

	"github.com/ellavondegurechaff/pricevault/internal/domain/logger"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/uptrace/bun"
)

const priceHistoryEntity = "price_history"

// PriceHistoryRepository reads and writes history rows. Every method takes
// the bun.IDB to run on so the same calls work against the store or inside
// a run's transaction.
type PriceHistoryRepository interface {
	EnsureTable(ctx context.Context, idb bun.IDB) error
	Get(ctx context.Context, idb bun.IDB, uuid string) (*models.PriceHistory, error)
	Upsert(ctx context.Context, idb bun.IDB, row *models.PriceHistory) error
	UpsertBatch(ctx context.Context, idb bun.IDB, rows []*models.PriceHistory) error
	Count(ctx context.Context, idb bun.IDB) (int, error)
}

type priceHistoryRepository struct {
	*BaseRepository
}

var _ PriceHistoryRepository = &priceHistoryRepository{}

func NewPriceHistoryRepository() PriceHistoryRepository {
	return &priceHistoryRepository{BaseRepository: NewBaseRepository()}
}

func (r *priceHistoryRepository) EnsureTable(ctx context.Context, idb bun.IDB) error {
	ql := logger.NewQueryLogger("ensure_table", priceHistoryEntity)
	err := database.EnsureHistoryTable(ctx, idb)
	ql.Log(err, 0)
	return r.HandleError("ensure_table", priceHistoryEntity, err)
}

func (r *priceHistoryRepository) Get(ctx context.Context, idb bun.IDB, uuid string) (*models.PriceHistory, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	row := new(models.PriceHistory)
	err := idb.NewSelect().
		Model(row).
		Where("uuid = ?", uuid).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithKey("get", priceHistoryEntity, uuid, err)
	}
	return row, nil
}

// Upsert inserts row or replaces the stored tree for its uuid.
func (r *priceHistoryRepository) Upsert(ctx context.Context, idb bun.IDB, row *models.PriceHistory) error {
	return r.UpsertBatch(ctx, idb, []*models.PriceHistory{row})
}

// UpsertBatch writes rows in one statement. A uuid repeated within rows
// ends up with the last occurrence.
func (r *priceHistoryRepository) UpsertBatch(ctx context.Context, idb bun.IDB, rows []*models.PriceHistory) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ql := logger.NewQueryLogger("upsert", priceHistoryEntity, len(rows))
	res, err := idb.NewInsert().
		Model(&rows).
		On("CONFLICT (uuid) DO UPDATE").
		Set("price_json = EXCLUDED.price_json").
		Exec(ctx)

	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	ql.Log(err, affected)
	return r.HandleError("upsert", priceHistoryEntity, err)
}

func (r *priceHistoryRepository) Count(ctx context.Context, idb bun.IDB) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := idb.NewSelect().
		Model((*models.PriceHistory)(nil)).
		Count(ctx)
	return count, r.HandleError("count", priceHistoryEntity, err)
}
