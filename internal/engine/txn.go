package engine

import (
	"fmt"
	"sync/atomic"
)

// LogEntryKind tags the kind of change recorded in a transaction's
// undo log, per spec.md §3.
type LogEntryKind int

const (
	LogInsert LogEntryKind = iota
	LogUpdate
	LogDelete
)

// LogEntry is one undo record. RowIndex is always the position within
// Table.Rows the change occurred at, recorded at the moment of the
// change; replaying the log in exact reverse order keeps every
// RowIndex valid even though later entries in the same transaction may
// have inserted or removed rows at other positions in between.
type LogEntry struct {
	Kind     LogEntryKind
	Table    string
	RowIndex int
	OldRow   []string
	NewRow   []string
}

// Txn is one session's in-flight transaction, per spec.md §3. It is
// owned by the caller (the server's per-connection handler) rather
// than by the Engine, since transaction state is scoped per session
// while the Engine's catalog is process-wide.
type Txn struct {
	ID       uint64
	Database string
	log      []LogEntry
}

// Begin opens a new transaction against dbName. It only validates that
// dbName exists; enforcing "at most one active transaction per
// session" and "a database must be selected" is the caller's
// responsibility, since the Engine has no notion of sessions.
func (e *Engine) Begin(dbName string) (*Txn, error) {
	if !e.DatabaseExists(dbName) {
		return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, dbName)
	}
	id := atomic.AddUint64(&e.txnSeq, 1)
	return &Txn{ID: id, Database: dbName}, nil
}

func (t *Txn) append(entry LogEntry) { t.log = append(t.log, entry) }

// Commit persists every table of the transaction's database to
// storage (truncate-and-rewrite, per spec.md §4.5 and DESIGN.md's
// resolution of that Open Question) and discards the log. If any
// table fails to persist, Commit returns a wrapped ErrCommitFailed and
// the caller should warn that on-disk state may be inconsistent with
// the committed intent; the in-memory state is left as committed
// regardless, since the mutations already happened directly against
// the live tables.
func (e *Engine) Commit(txn *Txn) error {
	e.mu.RLock()
	db, ok := e.databases[txn.Database]
	if !ok {
		e.mu.RUnlock()
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, txn.Database)
	}
	tables := make([]*Table, 0, len(db.Tables))
	for _, t := range db.Tables {
		tables = append(tables, t)
	}
	e.mu.RUnlock()

	var failures []string
	for _, t := range tables {
		if err := e.storage.SaveTable(txn.Database, tableToSnapshot(t)); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", t.Name, err))
		}
	}
	txn.log = nil
	if len(failures) > 0 {
		return fmt.Errorf("%w: %v", ErrCommitFailed, failures)
	}
	return nil
}

// Rollback undoes every change recorded in txn's log, in reverse
// order, then discards the log, per spec.md §4.5.
func (e *Engine) Rollback(txn *Txn) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	db, ok := e.databases[txn.Database]
	if !ok {
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, txn.Database)
	}

	for i := len(txn.log) - 1; i >= 0; i-- {
		entry := txn.log[i]
		t, exists := db.Tables[entry.Table]
		if !exists {
			continue
		}
		switch entry.Kind {
		case LogInsert:
			t.Rows = removeAt(t.Rows, entry.RowIndex)
		case LogDelete:
			t.Rows = insertAt(t.Rows, entry.RowIndex, entry.OldRow)
		case LogUpdate:
			if entry.RowIndex >= 0 && entry.RowIndex < len(t.Rows) {
				t.Rows[entry.RowIndex] = entry.OldRow
			}
		}
	}
	txn.log = nil
	return nil
}

func removeAt(rows [][]string, idx int) [][]string {
	if idx < 0 || idx >= len(rows) {
		return rows
	}
	out := make([][]string, 0, len(rows)-1)
	out = append(out, rows[:idx]...)
	out = append(out, rows[idx+1:]...)
	return out
}

func insertAt(rows [][]string, idx int, row []string) [][]string {
	if idx < 0 || idx > len(rows) {
		idx = len(rows)
	}
	out := make([][]string, 0, len(rows)+1)
	out = append(out, rows[:idx]...)
	out = append(out, row)
	out = append(out, rows[idx:]...)
	return out
}
