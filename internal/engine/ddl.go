package engine

import (
	"fmt"

	"github.com/sdsql/sdsql/internal/wire"
)

// CreateDatabase adds an empty database to the catalog and its
// persistence container, per spec.md §4.5.
func (e *Engine) CreateDatabase(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.databases[name]; exists {
		return fmt.Errorf("%w: %q", ErrDatabaseExists, name)
	}
	if err := e.storage.CreateDatabase(name); err != nil {
		return err
	}
	e.databases[name] = &database{Tables: make(map[string]*Table)}
	return nil
}

// DropDatabase removes a database and all its tables from the catalog
// and persistence, per spec.md §4.5. The caller is responsible for
// clearing any session's current_database slot that pointed at name.
func (e *Engine) DropDatabase(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.databases[name]; !exists {
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}
	if err := e.storage.DropDatabase(name); err != nil {
		return err
	}
	delete(e.databases, name)
	return nil
}

// UseDatabase validates that name exists and eagerly loads all of its
// tables from persistence into the catalog, per spec.md §4.5.
func (e *Engine) UseDatabase(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	db, exists := e.databases[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}

	tableNames, err := e.storage.ListTables(name)
	if err != nil {
		return err
	}
	loaded := make(map[string]*Table, len(tableNames))
	for _, tn := range tableNames {
		snap, err := e.storage.LoadTable(name, tn)
		if err != nil {
			return fmt.Errorf("load table %s.%s: %w", name, tn, err)
		}
		table := tableFromSnapshot(snap)
		if err := table.checkRowWidth(); err != nil {
			return fmt.Errorf("load table %s.%s: %w", name, tn, err)
		}
		loaded[tn] = table
	}
	db.Tables = loaded
	return nil
}

// CreateTable adds a new, empty table to dbName, per spec.md §4.5.
func (e *Engine) CreateTable(dbName, tableName string, columns []wire.ColumnDef) error {
	if tableName == "" {
		return fmt.Errorf("%w: table name must not be empty", ErrInvalidArgument)
	}
	if err := ValidateColumns(columns); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	db, err := e.requireDatabase(dbName)
	if err != nil {
		return err
	}
	if _, exists := db.Tables[tableName]; exists {
		return fmt.Errorf("%w: %q", ErrTableExists, tableName)
	}

	table := &Table{Name: tableName, Columns: columns, Rows: [][]string{}}
	if err := e.storage.SaveTable(dbName, tableToSnapshot(table)); err != nil {
		return err
	}
	db.Tables[tableName] = table
	return nil
}

// DropTable removes tableName from dbName, per spec.md §4.5.
func (e *Engine) DropTable(dbName, tableName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	db, err := e.requireDatabase(dbName)
	if err != nil {
		return err
	}
	if _, exists := db.Tables[tableName]; !exists {
		return fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}
	if err := e.storage.DeleteTable(dbName, tableName); err != nil {
		return err
	}
	delete(db.Tables, tableName)
	return nil
}

// requireDatabase returns dbName's database, or ErrNoDatabaseSelected
// if dbName is empty, or ErrDatabaseNotFound otherwise. Callers must
// hold e.mu.
func (e *Engine) requireDatabase(dbName string) (*database, error) {
	if dbName == "" {
		return nil, ErrNoDatabaseSelected
	}
	db, exists := e.databases[dbName]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, dbName)
	}
	return db, nil
}

// requireTable returns the named table, or the appropriate
// catalog error. Callers must hold e.mu.
func (e *Engine) requireTable(dbName, tableName string) (*Table, error) {
	db, err := e.requireDatabase(dbName)
	if err != nil {
		return nil, err
	}
	t, exists := db.Tables[tableName]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}
	return t, nil
}

// DatabaseExists reports whether name is a known database.
func (e *Engine) DatabaseExists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.databases[name]
	return ok
}
