package engine

import (
	"errors"
	"testing"

	"github.com/sdsql/sdsql/internal/wire"
)

func TestCreateUseCreateTableInsertSelect(t *testing.T) {
	e := newTestEngine(t)
	if err := e.CreateDatabase("shop"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := e.UseDatabase("shop"); err != nil {
		t.Fatalf("UseDatabase: %v", err)
	}
	cols := []wire.ColumnDef{
		{Name: "id", Type: wire.TypeInt, IsPrimary: true},
		{Name: "name", Type: wire.TypeString},
		{Name: "age", Type: wire.TypeInt},
	}
	if err := e.CreateTable("shop", "customers", cols); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if _, err := e.Insert("shop", "customers", litsOf("1", "Alice", "25"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := e.Insert("shop", "customers", litsOf("2", "Bob", "30"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	names, rows, _, err := e.Select("shop", "customers", []string{"name"}, "age > 25", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(names) != 1 || names[0] != "name" {
		t.Fatalf("unexpected projection: %v", names)
	}
	if len(rows) != 1 || rows[0][0] != "Bob" {
		t.Fatalf("expected only Bob to match age > 25, got %v", rows)
	}
}

func TestInsertRejectsDuplicatePrimaryKey(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	if _, err := e.Insert("db1", "widgets", litsOf("1", "a"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := e.Insert("db1", "widgets", litsOf("1", "b"), nil)
	if !errors.Is(err, ErrDuplicatePK) {
		t.Fatalf("expected ErrDuplicatePK, got %v", err)
	}
}

func TestInsertFillsDefaultsForMissingTrailingColumns(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	if _, err := e.Insert("db1", "widgets", litsOf("1"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, rows, _, err := e.Select("db1", "widgets", nil, "", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "" {
		t.Fatalf("expected the missing name column to default to empty string, got %v", rows)
	}
}

func TestInsertRejectsTooManyValues(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	_, err := e.Insert("db1", "widgets", litsOf("1", "a", "extra"), nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreateTableRejectsDuplicatePrimaryKeys(t *testing.T) {
	e := newTestEngine(t)
	if err := e.CreateDatabase("db1"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := e.UseDatabase("db1"); err != nil {
		t.Fatalf("UseDatabase: %v", err)
	}
	cols := []wire.ColumnDef{
		{Name: "a", Type: wire.TypeInt, IsPrimary: true},
		{Name: "b", Type: wire.TypeInt, IsPrimary: true},
	}
	err := e.CreateTable("db1", "t", cols)
	if !errors.Is(err, ErrTooManyPrimaryKeys) {
		t.Fatalf("expected ErrTooManyPrimaryKeys, got %v", err)
	}
}

func TestDropDatabaseRemovesItsTables(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	if err := e.DropDatabase("db1"); err != nil {
		t.Fatalf("DropDatabase: %v", err)
	}
	if e.DatabaseExists("db1") {
		t.Fatal("expected db1 to be gone")
	}
	_, _, _, err := e.Select("db1", "widgets", nil, "", "")
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}
}

func TestDropTableThenRecreateStartsEmpty(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	if _, err := e.Insert("db1", "widgets", litsOf("1", "a"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := e.DropTable("db1", "widgets"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	cols := []wire.ColumnDef{{Name: "id", Type: wire.TypeInt, IsPrimary: true}}
	if err := e.CreateTable("db1", "widgets", cols); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	_, rows, _, err := e.Select("db1", "widgets", nil, "", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected the recreated table to start empty, got %v", rows)
	}
}

func TestSelectOrdersByColumn(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	for _, row := range [][]string{{"3", "c"}, {"1", "a"}, {"2", "b"}} {
		if _, err := e.Insert("db1", "widgets", litsOf(row...), nil); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	_, rows, _, err := e.Select("db1", "widgets", []string{"id"}, "", "id")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	want := []string{"1", "2", "3"}
	for i, row := range rows {
		if row[0] != want[i] {
			t.Fatalf("row %d: got %q, want %q", i, row[0], want[i])
		}
	}
}

func TestUpdateSkipsUnknownColumnsWithWarning(t *testing.T) {
	e := newTestEngine(t)
	mustCreateWidgets(t, e, "db1")
	if _, err := e.Insert("db1", "widgets", litsOf("1", "a"), nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	assignments := []wire.SetClause{{Column: "nope", Value: wire.Literal{Value: "x"}}}
	affected, warnings, err := e.Update("db1", "widgets", assignments, "id = 1", nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected the matching row to still be touched, got affected=%d", affected)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning about the unknown column")
	}
}

func TestUseDatabaseRejectsUnknown(t *testing.T) {
	e := newTestEngine(t)
	if err := e.UseDatabase("nope"); !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}
}

func TestCreateTableRequiresAtLeastOneColumn(t *testing.T) {
	e := newTestEngine(t)
	if err := e.CreateDatabase("db1"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := e.UseDatabase("db1"); err != nil {
		t.Fatalf("UseDatabase: %v", err)
	}
	if err := e.CreateTable("db1", "t", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
