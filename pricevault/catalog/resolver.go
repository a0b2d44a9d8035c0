package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

// Resolver maps a printing's set code and collector number to its uuid.
type Resolver struct {
	db    bun.IDB
	cards repositories.CardRepository
	cache *lru.Cache
}

func NewResolver(db bun.IDB, cards repositories.CardRepository, cacheSize int) *Resolver {
	if cacheSize <= 0 {
		cacheSize = config.DefaultResolverCacheSize
	}
	cache, _ := lru.New(cacheSize)
	return &Resolver{
		db:    db,
		cards: cards,
		cache: cache,
	}
}

func resolverKey(setCode, number string) string {
	return setCode + "/" + number
}

// Resolve returns the uuid printed as number in setCode. Set codes are
// matched upper-cased, the way the catalog stores them. A miss is an
// *errs.NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, setCode, number string) (string, error) {
	setCode = strings.ToUpper(strings.TrimSpace(setCode))
	number = strings.TrimSpace(number)

	key := resolverKey(setCode, number)
	if v, ok := r.cache.Get(key); ok {
		return v.(string), nil
	}

	card, err := r.cards.GetBySetNumber(ctx, r.db, setCode, number)
	if err != nil {
		return "", err
	}
	r.cache.Add(key, card.UUID)
	return card.UUID, nil
}

// Purge forgets every cached lookup. Called after each refresh.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// EnsureIndex creates the (setCode, number) index lookups rely on. If the
// catalog holds duplicate printings a unique index is impossible, so a
// plain one is created instead.
func (r *Resolver) EnsureIndex(ctx context.Context, idb bun.IDB) error {
	_, err := idb.ExecContext(ctx,
		"CREATE UNIQUE INDEX IF NOT EXISTS ? ON ? (?, ?)",
		bun.Ident(config.CardsSetNumberIndex), bun.Ident(config.CardsTable), bun.Ident("setCode"), bun.Ident("number"),
	)
	if err == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") {
		return fmt.Errorf("failed to create %s: %w", config.CardsSetNumberIndex, err)
	}

	slog.Warn("Catalog has duplicate printings, using a non-unique index",
		slog.String("type", "db"),
		slog.String("index", config.CardsSetNumberIndex),
		slog.Any("error", err),
	)
	_, err = idb.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS ? ON ? (?, ?)",
		bun.Ident(config.CardsSetNumberIndex), bun.Ident(config.CardsTable), bun.Ident("setCode"), bun.Ident("number"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", config.CardsSetNumberIndex, err)
	}
	return nil
}
