package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend is SDSQL's default persistence backend: one directory
// per database, one JSON artifact per table holding both its metadata
// (columns) and its data (rows) together — spec.md §6 describes these
// as separate "metadata" and "data" artifacts, but since SDSQL's
// tables have no secondary structures that would make splitting them
// worthwhile, a single combined file is the natural reduction (see
// DESIGN.md). A transaction log, when active, is a newline-delimited
// JSON file.
type FileBackend struct {
	root string
}

// NewFileBackend returns a FileBackend rooted at dir, creating dir if
// necessary.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", dir, err)
	}
	return &FileBackend{root: dir}, nil
}

func (b *FileBackend) dbDir(db string) string { return filepath.Join(b.root, sanitize(db)) }

func (b *FileBackend) tablePath(db, table string) string {
	return filepath.Join(b.dbDir(db), sanitize(table)+".json")
}

func (b *FileBackend) logPath(db string) string {
	return filepath.Join(b.dbDir(db), "txn.log")
}

// sanitize keeps database/table names confined to a single path
// segment: names arrive from client-controlled QUERY_REQUEST fields
// and must never be interpreted as directory traversal.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return strings.ReplaceAll(name, "..", "_")
}

func (b *FileBackend) CreateDatabase(name string) error {
	return os.MkdirAll(b.dbDir(name), 0o755)
}

func (b *FileBackend) DropDatabase(name string) error {
	return os.RemoveAll(b.dbDir(name))
}

func (b *FileBackend) ListDatabases() ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (b *FileBackend) ListTables(db string) ([]string, error) {
	entries, err := os.ReadDir(b.dbDir(db))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list tables of %s: %w", db, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	return names, nil
}

func (b *FileBackend) LoadTable(db, table string) (*TableSnapshot, error) {
	data, err := os.ReadFile(b.tablePath(db, table))
	if err != nil {
		return nil, fmt.Errorf("load table %s.%s: %w", db, table, err)
	}
	var snap TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode table %s.%s: %w", db, table, err)
	}
	return &snap, nil
}

func (b *FileBackend) SaveTable(db string, snap *TableSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode table %s.%s: %w", db, snap.Name, err)
	}
	if err := os.MkdirAll(b.dbDir(db), 0o755); err != nil {
		return err
	}
	tmp := b.tablePath(db, snap.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write table %s.%s: %w", db, snap.Name, err)
	}
	// Truncate-and-rewrite via rename keeps a crash from ever exposing a
	// half-written table file, per spec.md §4.5's commit semantics.
	return os.Rename(tmp, b.tablePath(db, snap.Name))
}

func (b *FileBackend) DeleteTable(db, table string) error {
	err := os.Remove(b.tablePath(db, table))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *FileBackend) CreateLog(db string) error {
	return os.WriteFile(b.logPath(db), nil, 0o644)
}

func (b *FileBackend) AppendLog(db string, entry []byte) error {
	f, err := os.OpenFile(b.logPath(db), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append txn log for %s: %w", db, err)
	}
	defer f.Close()
	if _, err := f.Write(append(entry, '\n')); err != nil {
		return fmt.Errorf("append txn log for %s: %w", db, err)
	}
	return nil
}

func (b *FileBackend) DeleteLog(db string) error {
	err := os.Remove(b.logPath(db))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
