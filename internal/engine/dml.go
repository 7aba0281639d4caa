package engine

import (
	"fmt"
	"sort"

	"github.com/sdsql/sdsql/internal/wire"
)

// Insert appends one row built from positional values, per spec.md
// §4.5: length must not exceed the column count, missing trailing
// columns receive type-appropriate defaults. If txn is non-nil the
// insert is also recorded in its undo log.
func (e *Engine) Insert(dbName, tableName string, values []wire.Literal, txn *Txn) (int, error) {
	if len(values) > 0 {
		row := make([]string, 0, len(values))
		for _, v := range values {
			row = append(row, v.Value)
		}
		return e.insertRow(dbName, tableName, row, txn)
	}
	return e.insertRow(dbName, tableName, nil, txn)
}

// InsertMap appends one row built from a {column → value} map, per
// spec.md §4.5: columns missing from the map receive type-appropriate
// defaults. The wire protocol only carries the positional insert form
// (see DESIGN.md); InsertMap exists for embedders of the engine that
// want named-column inserts directly.
func (e *Engine) InsertMap(dbName, tableName string, values map[string]wire.Literal, txn *Txn) (int, error) {
	e.mu.Lock()
	t, err := e.requireTable(dbName, tableName)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}
	row := t.DefaultRow()
	for name, lit := range values {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		row[idx] = lit.Value
	}
	e.mu.Unlock()
	return e.insertRow(dbName, tableName, row, txn)
}

func (e *Engine) insertRow(dbName, tableName string, positional []string, txn *Txn) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.requireTable(dbName, tableName)
	if err != nil {
		return 0, err
	}

	var row []string
	if positional != nil {
		if len(positional) > len(t.Columns) {
			return 0, fmt.Errorf("%w: %d values for %d columns", ErrInvalidArgument, len(positional), len(t.Columns))
		}
		row = t.DefaultRow()
		copy(row, positional)
	} else {
		row = t.DefaultRow()
	}

	if pkIdx := t.PrimaryKeyIndex(); pkIdx >= 0 {
		for _, existing := range t.Rows {
			if existing[pkIdx] == row[pkIdx] {
				return 0, fmt.Errorf("%w: column %q value %q", ErrDuplicatePK, t.Columns[pkIdx].Name, row[pkIdx])
			}
		}
	}

	t.Rows = append(t.Rows, row)
	if txn != nil {
		txn.append(LogEntry{Kind: LogInsert, Table: tableName, RowIndex: len(t.Rows) - 1, NewRow: row})
	}
	return 1, nil
}

// Update overwrites the named columns of every row matching whereExpr,
// per spec.md §4.5. Columns named in assignments that don't exist in
// the table are silently skipped; the returned warnings list names
// them.
func (e *Engine) Update(dbName, tableName string, assignments []wire.SetClause, whereExpr string, txn *Txn) (affected int, warnings []string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.requireTable(dbName, tableName)
	if err != nil {
		return 0, nil, err
	}

	targets := make([]int, 0, len(assignments))
	values := make([]string, 0, len(assignments))
	for _, a := range assignments {
		idx := t.ColumnIndex(a.Column)
		if idx < 0 {
			warnings = append(warnings, fmt.Sprintf("unknown column %q in UPDATE, skipped", a.Column))
			continue
		}
		targets = append(targets, idx)
		values = append(values, a.Value.Value)
	}

	var whereWarnings []string
	for i, row := range t.Rows {
		matched, w := Evaluate(whereExpr, row, t.Columns)
		whereWarnings = append(whereWarnings, w...)
		if !matched {
			continue
		}
		oldRow := append([]string(nil), row...)
		newRow := append([]string(nil), row...)
		for j, idx := range targets {
			newRow[idx] = values[j]
		}
		t.Rows[i] = newRow
		affected++
		if txn != nil {
			txn.append(LogEntry{Kind: LogUpdate, Table: tableName, RowIndex: i, OldRow: oldRow, NewRow: newRow})
		}
	}
	return affected, append(warnings, whereWarnings...), nil
}

// Delete removes every row of tableName matching whereExpr, per
// spec.md §4.5.
func (e *Engine) Delete(dbName, tableName, whereExpr string, txn *Txn) (affected int, warnings []string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.requireTable(dbName, tableName)
	if err != nil {
		return 0, nil, err
	}

	kept := t.Rows[:0:0]
	// RowIndex is recorded as len(kept) at the moment of deletion, i.e.
	// this row's position in the table as compacted so far — not its
	// position in the pre-call t.Rows. A statement that deletes several
	// rows logs each against the partially-compacted array, so replaying
	// the entries in reverse order (last-deleted first) reinserts each
	// row exactly where it needs to be for the next (earlier-deleted)
	// reinsertion to land correctly in turn.
	for _, row := range t.Rows {
		matched, w := Evaluate(whereExpr, row, t.Columns)
		warnings = append(warnings, w...)
		if matched {
			affected++
			if txn != nil {
				txn.append(LogEntry{Kind: LogDelete, Table: tableName, RowIndex: len(kept), OldRow: append([]string(nil), row...)})
			}
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return affected, warnings, nil
}

// Select returns the rows of tableName matching whereExpr, projected
// to selectColumns (all columns if empty) and optionally sorted by
// orderBy, per spec.md §4.5.
func (e *Engine) Select(dbName, tableName string, selectColumns []string, whereExpr, orderBy string) (columnNames []string, rows [][]string, warnings []string, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.requireTable(dbName, tableName)
	if err != nil {
		return nil, nil, nil, err
	}

	projIdx := make([]int, 0, len(t.Columns))
	if len(selectColumns) == 0 {
		for i, c := range t.Columns {
			projIdx = append(projIdx, i)
			columnNames = append(columnNames, c.Name)
		}
	} else {
		for _, name := range selectColumns {
			idx := t.ColumnIndex(name)
			if idx < 0 {
				warnings = append(warnings, fmt.Sprintf("unknown column %q in projection, skipped", name))
				continue
			}
			projIdx = append(projIdx, idx)
			columnNames = append(columnNames, name)
		}
	}

	matching := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		matched, w := Evaluate(whereExpr, row, t.Columns)
		warnings = append(warnings, w...)
		if matched {
			matching = append(matching, row)
		}
	}

	if orderBy != "" {
		orderIdx := t.ColumnIndex(orderBy)
		if orderIdx < 0 {
			warnings = append(warnings, fmt.Sprintf("unknown order-by column %q, results unsorted", orderBy))
		} else {
			sortRows(matching, orderIdx, t.Columns[orderIdx].Type)
		}
	}

	rows = make([][]string, len(matching))
	for i, row := range matching {
		projected := make([]string, len(projIdx))
		for j, idx := range projIdx {
			projected[j] = row[idx]
		}
		rows[i] = projected
	}
	return columnNames, rows, warnings, nil
}

// sortRows sorts rows ascending by the value at colIdx, per spec.md
// §4.5: numeric comparison for INT/DOUBLE (a failed parse compares as
// false, i.e. sorts as if equal/unordered relative to parseable
// values), lexicographic otherwise.
func sortRows(rows [][]string, colIdx int, typ wire.DataType) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessValue(rows[i][colIdx], rows[j][colIdx], typ)
	})
}
