// Package engine implements SDSQL's in-memory query engine (component
// C5): the database/table catalog, DDL and DML operations, the WHERE
// expression evaluator, and the transaction log.
package engine

import (
	"fmt"

	"github.com/sdsql/sdsql/internal/wire"
)

// Table is one table's schema and data, per spec.md §3.
type Table struct {
	Name    string
	Columns []wire.ColumnDef
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1 if it
// doesn't exist.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// PrimaryKeyIndex returns the index of the table's primary-key column,
// or -1 if it has none. spec.md §3 guarantees at most one.
func (t *Table) PrimaryKeyIndex() int {
	for i, c := range t.Columns {
		if c.IsPrimary {
			return i
		}
	}
	return -1
}

// DefaultRow returns a row of type-appropriate default values, one per
// column, per spec.md §3.
func (t *Table) DefaultRow() []string {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = c.Type.Default()
	}
	return row
}

// ValidateColumns checks the column list invariants required at
// CREATE TABLE time: non-empty, unique names, at most one primary key.
func ValidateColumns(columns []wire.ColumnDef) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: table must have at least one column", ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(columns))
	pkCount := 0
	for _, c := range columns {
		if c.Name == "" {
			return fmt.Errorf("%w: column name must not be empty", ErrInvalidArgument)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column name %q", ErrInvalidArgument, c.Name)
		}
		seen[c.Name] = true
		if c.IsPrimary {
			pkCount++
		}
	}
	if pkCount > 1 {
		return fmt.Errorf("%w: table declares %d primary-key columns, at most one is allowed", ErrTooManyPrimaryKeys, pkCount)
	}
	return nil
}

// checkRowWidth verifies invariant (i) of spec.md §3: every row's
// length equals the column count.
func (t *Table) checkRowWidth() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, table has %d columns", ErrInvariantViolation, i, len(row), len(t.Columns))
		}
	}
	return nil
}
