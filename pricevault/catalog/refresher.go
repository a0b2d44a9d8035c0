package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/database"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/ellavondegurechaff/pricevault/pricevault/logger"
	"github.com/uptrace/bun"
)

type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseEnumerateOldObjects
	PhaseDropOldObjects
	PhaseAttachNewSource
	PhaseCopyTables
	PhaseDetach
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseEnumerateOldObjects:
		return "EnumerateOldObjects"
	case PhaseDropOldObjects:
		return "DropOldObjects"
	case PhaseAttachNewSource:
		return "AttachNewSource"
	case PhaseCopyTables:
		return "CopyTables"
	case PhaseDetach:
		return "Detach"
	}
	return fmt.Sprintf("Phase(%d)", int32(p))
}

// requiredCardColumns are what the resolver and name index read.
var requiredCardColumns = []string{"uuid", "setCode", "number"}

// RefreshResult describes a refresh. Phase is the last phase entered, which
// on failure is the phase that failed.
type RefreshResult struct {
	Dropped []string
	Copied  []string
	Rows    int64
	Phase   Phase
	Took    time.Duration
}

// CopyHook runs inside the refresh transaction after the new catalog has
// been copied. An error rolls the whole refresh back.
type CopyHook func(ctx context.Context, idb bun.IDB) error

type schemaObject struct {
	Type    string         `bun:"type"`
	Name    string         `bun:"name"`
	TblName string         `bun:"tbl_name"`
	SQL     sql.NullString `bun:"sql"`
}

// Refresher swaps the catalog tables of the store for those of a reference
// dataset. Everything but the history table is replaced.
type Refresher struct {
	db             *database.DB
	requiredTables []string
	copyHooks      []CopyHook
	commitHooks    []func()
	phase          atomic.Int32
}

func NewRefresher(db *database.DB, requiredTables []string) *Refresher {
	if len(requiredTables) == 0 {
		requiredTables = []string{config.CardsTable}
	}
	return &Refresher{
		db:             db,
		requiredTables: requiredTables,
	}
}

// OnCopy registers a hook run in the refresh transaction after the copy.
func (r *Refresher) OnCopy(hook CopyHook) {
	r.copyHooks = append(r.copyHooks, hook)
}

// OnCommit registers fn to run after a refresh has committed.
func (r *Refresher) OnCommit(fn func()) {
	r.commitHooks = append(r.commitHooks, fn)
}

func (r *Refresher) Phase() Phase {
	return Phase(r.phase.Load())
}

func (r *Refresher) enter(p Phase, msg string, attrs ...any) {
	r.phase.Store(int32(p))
	logger.LogPhase(p.String(), msg, attrs...)
}

// Refresh replaces the catalog with the tables of the SQLite file at
// referencePath. The drop and the copy commit together; on any failure the
// previous catalog is left exactly as it was. The reference is attached on
// a pinned connection first because SQLite refuses ATTACH and DETACH inside
// a transaction, and it is always detached before returning.
func (r *Refresher) Refresh(ctx context.Context, referencePath string) (res RefreshResult, err error) {
	start := time.Now()
	defer func() {
		res.Phase = r.Phase()
		res.Took = time.Since(start)
		if err == nil {
			r.phase.Store(int32(PhaseIdle))
		}
	}()

	if _, statErr := os.Stat(referencePath); statErr != nil {
		// ATTACH would silently create an empty database.
		return res, &errs.IOError{Path: referencePath, Err: statErr}
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return res, &errs.StorageError{Op: "acquire connection", Phase: PhaseAttachNewSource.String(), Err: err}
	}
	defer conn.Close()

	r.enter(PhaseAttachNewSource, "Attaching reference dataset", slog.String("path", referencePath))
	if err := detachStale(ctx, conn); err != nil {
		return res, &errs.StorageError{Op: "detach stale reference", Phase: PhaseAttachNewSource.String(), Err: err}
	}
	if _, err := database.ExecWithLog(ctx, conn, "ATTACH DATABASE ? AS ?", referencePath, bun.Ident(config.ReferenceSchema)); err != nil {
		return res, &errs.StorageError{Op: "attach reference", Phase: PhaseAttachNewSource.String(), Err: err}
	}
	defer func() {
		reached := r.Phase()
		r.enter(PhaseDetach, "Detaching reference dataset")
		_, derr := database.ExecWithLog(context.WithoutCancel(ctx), conn, "DETACH DATABASE ?", bun.Ident(config.ReferenceSchema))
		switch {
		case err != nil:
			r.phase.Store(int32(reached))
			if derr != nil {
				logger.LogError("Failed to detach reference dataset", derr, slog.String("phase", PhaseDetach.String()))
			}
		case derr != nil:
			err = &errs.StorageError{Op: "detach reference", Phase: PhaseDetach.String(), Err: derr}
		}
	}()

	refObjects, err := r.validate(ctx, conn)
	if err != nil {
		return res, err
	}

	err = database.WithTransaction(ctx, conn, func(ctx context.Context, tx bun.Tx) error {
		r.enter(PhaseEnumerateOldObjects, "Enumerating catalog objects")
		old, err := enumerateCatalog(ctx, tx)
		if err != nil {
			return &errs.StorageError{Op: "enumerate catalog", Phase: PhaseEnumerateOldObjects.String(), Err: err}
		}

		r.enter(PhaseDropOldObjects, "Dropping old catalog objects", slog.Int("count", len(old)))
		for _, obj := range old {
			if err := dropObject(ctx, tx, obj); err != nil {
				return &errs.StorageError{Op: "drop " + obj.Type + " " + obj.Name, Phase: PhaseDropOldObjects.String(), Err: err}
			}
			res.Dropped = append(res.Dropped, obj.Name)
		}

		r.enter(PhaseCopyTables, "Copying reference tables", slog.Int("objects", len(refObjects)))
		for _, obj := range refObjects {
			n, err := copyObject(ctx, tx, obj)
			if err != nil {
				return &errs.StorageError{Op: "copy " + obj.Type + " " + obj.Name, Phase: PhaseCopyTables.String(), Err: err}
			}
			if obj.Type == "table" {
				res.Copied = append(res.Copied, obj.Name)
				res.Rows += n
			}
		}

		for _, hook := range r.copyHooks {
			if err := hook(ctx, tx); err != nil {
				return &errs.StorageError{Op: "after copy", Phase: PhaseCopyTables.String(), Err: err}
			}
		}
		return nil
	})
	if err != nil {
		var se *errs.StorageError
		if !errors.As(err, &se) {
			err = &errs.StorageError{Op: "commit refresh", Phase: r.Phase().String(), Err: err}
		}
		// Rolled back: nothing was dropped or copied.
		res.Dropped, res.Copied, res.Rows = nil, nil, 0
		return res, err
	}

	for _, fn := range r.commitHooks {
		fn()
	}
	logger.LogRun("Catalog refreshed",
		slog.Int("dropped", len(res.Dropped)),
		slog.Int("copied", len(res.Copied)),
		slog.Int64("rows", res.Rows),
	)
	return res, nil
}

// validate checks the attached reference and returns the objects to copy:
// tables first, then indexes and views, each in creation order.
func (r *Refresher) validate(ctx context.Context, conn bun.IDB) ([]schemaObject, error) {
	var objs []schemaObject
	err := conn.NewRaw(fmt.Sprintf(`SELECT type, name, tbl_name, sql FROM %s.sqlite_master
		WHERE name NOT LIKE 'sqlite_%%' AND type IN ('table', 'index', 'view')
		ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'index' THEN 1 ELSE 2 END, rowid`, config.ReferenceSchema),
	).Scan(ctx, &objs)
	if err != nil {
		return nil, &errs.StorageError{Op: "read reference schema", Phase: PhaseAttachNewSource.String(), Err: err}
	}

	for _, o := range objs {
		if strings.EqualFold(o.TblName, config.HistoryTable) {
			return nil, &errs.SchemaMismatch{Object: o.Name, Reason: "reference dataset must not define the history table"}
		}
	}
	for _, name := range r.requiredTables {
		ok, err := database.TableExists(ctx, conn, config.ReferenceSchema, name)
		if err != nil {
			return nil, &errs.StorageError{Op: "read reference schema", Phase: PhaseAttachNewSource.String(), Err: err}
		}
		if !ok {
			return nil, &errs.SchemaMismatch{Object: name, Reason: "missing from reference dataset"}
		}
	}

	hasCards, err := database.TableExists(ctx, conn, config.ReferenceSchema, config.CardsTable)
	if err != nil {
		return nil, &errs.StorageError{Op: "read reference schema", Phase: PhaseAttachNewSource.String(), Err: err}
	}
	if hasCards {
		var cols []string
		err := conn.NewRaw("SELECT name FROM pragma_table_info(?, ?)", config.CardsTable, config.ReferenceSchema).
			Scan(ctx, &cols)
		if err != nil {
			return nil, &errs.StorageError{Op: "read cards columns", Phase: PhaseAttachNewSource.String(), Err: err}
		}
		for _, want := range requiredCardColumns {
			if !slices.ContainsFunc(cols, func(c string) bool { return strings.EqualFold(c, want) }) {
				return nil, &errs.SchemaMismatch{Object: config.CardsTable + "." + want, Reason: "column missing from reference dataset"}
			}
		}
	}
	return objs, nil
}

// enumerateCatalog lists every object of the store that belongs to the
// catalog, i.e. everything not attached to the history table.
func enumerateCatalog(ctx context.Context, idb bun.IDB) ([]schemaObject, error) {
	var objs []schemaObject
	err := idb.NewRaw(`SELECT type, name, tbl_name, sql FROM main.sqlite_master
		WHERE name NOT LIKE 'sqlite_%' AND tbl_name != ?
		ORDER BY CASE type WHEN 'view' THEN 0 WHEN 'trigger' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name`,
		config.HistoryTable,
	).Scan(ctx, &objs)
	return objs, err
}

func dropObject(ctx context.Context, idb bun.IDB, obj schemaObject) error {
	var kind string
	switch obj.Type {
	case "view":
		kind = "VIEW"
	case "trigger":
		kind = "TRIGGER"
	case "index":
		kind = "INDEX"
	case "table":
		kind = "TABLE"
	default:
		return fmt.Errorf("unknown object type %q", obj.Type)
	}
	_, err := database.ExecWithLog(ctx, idb, "DROP "+kind+" IF EXISTS main.?", bun.Ident(obj.Name))
	return err
}

// copyObject recreates obj in main from its own DDL; tables also get their
// rows. It returns the number of rows copied.
func copyObject(ctx context.Context, idb bun.IDB, obj schemaObject) (int64, error) {
	if !obj.SQL.Valid || obj.SQL.String == "" {
		return 0, nil
	}
	// No args: bun passes the DDL through untouched.
	if _, err := database.ExecWithLog(ctx, idb, obj.SQL.String); err != nil {
		return 0, err
	}
	if obj.Type != "table" {
		return 0, nil
	}
	result, err := database.ExecWithLog(ctx, idb,
		fmt.Sprintf("INSERT INTO main.? SELECT * FROM %s.?", config.ReferenceSchema),
		bun.Ident(obj.Name), bun.Ident(obj.Name),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// detachStale drops a reference left attached by an interrupted refresh.
func detachStale(ctx context.Context, conn bun.IDB) error {
	var names []string
	if err := conn.NewRaw("SELECT name FROM pragma_database_list").Scan(ctx, &names); err != nil {
		return err
	}
	if !slices.Contains(names, config.ReferenceSchema) {
		return nil
	}
	_, err := database.ExecWithLog(ctx, conn, "DETACH DATABASE ?", bun.Ident(config.ReferenceSchema))
	return err
}
