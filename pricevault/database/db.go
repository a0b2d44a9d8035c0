package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault/database/models"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
)

type DBConfig struct {
	Path          string `toml:"path"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
}

// DB is the single-writer handle on the price store. It holds exactly one
// connection so that ATTACH, transactions and reads issued by a run all see
// the same session.
type DB struct {
	sqlDB *sql.DB
	bunDB *bun.DB
	path  string
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqldb, err := sql.Open(driverName, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("database unreachable at %s: %w", cfg.Path, err)
	}

	logger.LogSystem("Store opened", slog.String("path", cfg.Path))
	return &DB{
		sqlDB: sqldb,
		bunDB: bun.NewDB(sqldb, sqlitedialect.New()),
		path:  cfg.Path,
	}, nil
}

// buildDSN turns the config into a modernc DSN. WAL keeps concurrent readers
// on the last committed state while a run is writing.
func buildDSN(cfg DBConfig) string {
	busy := cfg.BusyTimeoutMS
	if busy <= 0 {
		busy = 5000
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	// SQLite decodes percent escapes in URI filenames, and the driver splits
	// the DSN at the first '?', so the path has to be escaped.
	return "file:" + (&url.URL{Path: cfg.Path}).EscapedPath() + "?" + q.Encode()
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Path() string {
	return db.path
}

// Conn pins the store's connection. Callers must Close it before issuing
// any other query on db.
func (db *DB) Conn(ctx context.Context) (bun.Conn, error) {
	return db.bunDB.Conn(ctx)
}

// ExecWithLog runs query on idb and logs it with its duration.
func ExecWithLog(ctx context.Context, idb bun.IDB, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := idb.ExecContext(ctx, query, args...)
	logger.LogQuery(query, time.Since(start), err)
	return result, err
}

func (db *DB) Close() error {
	if db.bunDB != nil {
		return db.bunDB.Close()
	}
	return nil
}

// InitializeSchema creates the history table. Catalog tables are never
// created here; they arrive with a reference refresh.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := EnsureHistoryTable(ctx, db.bunDB); err != nil {
		return err
	}
	logger.LogSystem("Schema ready", slog.String("path", db.path))
	return nil
}

// EnsureHistoryTable creates price_history on idb if it does not exist.
func EnsureHistoryTable(ctx context.Context, idb bun.IDB) error {
	_, err := idb.NewCreateTable().
		Model((*models.PriceHistory)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create price history table: %w", err)
	}
	return nil
}

// TableExists reports whether schema.name is a table. Names compare
// case-insensitively, as SQLite resolves them.
func TableExists(ctx context.Context, idb bun.IDB, schema, name string) (bool, error) {
	if schema == "" {
		schema = "main"
	}
	var count int
	err := idb.NewRaw(
		"SELECT COUNT(*) FROM ?.sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE",
		bun.Ident(schema), name,
	).Scan(ctx, &count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s.%s: %w", schema, name, err)
	}
	return count > 0, nil
}
