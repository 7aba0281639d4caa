package engine

import (
	"sort"
	"sync"

	"github.com/sdsql/sdsql/internal/storage"
	"github.com/sdsql/sdsql/internal/wire"
)

// database is a mapping table_name → *Table, per spec.md §3.
type database struct {
	Tables map[string]*Table
}

// Engine owns the process-wide catalog (spec.md §5: "process-wide
// mutable state ... shared, mutated under a lock") and its persistence
// backend. Tables are written to the backend by CreateTable and by
// Commit; DML executed outside a transaction changes only the
// in-memory tables, and UseDatabase replaces them with what the
// backend holds. A single RWMutex
// guards the whole catalog: spec.md §5 permits "writer-exclusive,
// reader-shared" as sufficient, and SDSQL's catalog is small enough
// that finer-grained locking would add complexity without a
// measurable benefit.
type Engine struct {
	mu        sync.RWMutex
	databases map[string]*database
	storage   storage.Backend

	txnSeq uint64
}

// New returns an Engine backed by store, with its catalog primed from
// any databases store already knows about (spec.md §3: "Tables live
// until dropped or their database is dropped" implies durability
// across a server restart).
func New(store storage.Backend) (*Engine, error) {
	e := &Engine{databases: make(map[string]*database), storage: store}
	names, err := store.ListDatabases()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		e.databases[name] = &database{Tables: make(map[string]*Table)}
	}
	return e, nil
}

// DatabaseNames returns the names of every known database, sorted for
// deterministic output.
func (e *Engine) DatabaseNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.databases))
	for name := range e.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func columnsToSnapshot(cols []wire.ColumnDef) []storage.ColumnSnapshot {
	out := make([]storage.ColumnSnapshot, len(cols))
	for i, c := range cols {
		out[i] = storage.ColumnSnapshot{Name: c.Name, Type: uint8(c.Type), IsPrimary: c.IsPrimary}
	}
	return out
}

func columnsFromSnapshot(cols []storage.ColumnSnapshot) []wire.ColumnDef {
	out := make([]wire.ColumnDef, len(cols))
	for i, c := range cols {
		out[i] = wire.ColumnDef{Name: c.Name, Type: wire.DataType(c.Type), IsPrimary: c.IsPrimary}
	}
	return out
}

func tableToSnapshot(t *Table) *storage.TableSnapshot {
	pkIdx := t.PrimaryKeyIndex()
	snap := &storage.TableSnapshot{
		Name:    t.Name,
		Columns: columnsToSnapshot(t.Columns),
		Rows:    t.Rows,
	}
	if pkIdx >= 0 {
		snap.HasPK = true
		snap.PKColumn = t.Columns[pkIdx].Name
	}
	return snap
}

func tableFromSnapshot(snap *storage.TableSnapshot) *Table {
	rows := snap.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Name: snap.Name, Columns: columnsFromSnapshot(snap.Columns), Rows: rows}
}
