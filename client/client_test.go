package client

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sdsql/sdsql/internal/auth"
	"github.com/sdsql/sdsql/internal/engine"
	"github.com/sdsql/sdsql/internal/storage"
	"github.com/sdsql/sdsql/internal/transport"
	"github.com/sdsql/sdsql/internal/wire"
	"github.com/sdsql/sdsql/server"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	eng, err := engine.New(backend)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	users, err := auth.NewStore(auth.DefaultAdminPassword)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := server.NewContext(eng, users, slog.New(slog.NewTextHandler(io.Discard, nil)))
	met := server.NewMetrics(ctx)

	ln, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	srv := server.New(ln, ctx, met)
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return ln.Addr().String()
}

func dialAndLogin(t *testing.T, addr string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	if err := c.Login(auth.AdminUsername, auth.DefaultAdminPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return c
}

func TestClientCreateInsertSelect(t *testing.T) {
	addr := newTestServer(t)
	c := dialAndLogin(t, addr)

	if err := c.CreateDatabase("shop"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := c.UseDatabase("shop"); err != nil {
		t.Fatalf("UseDatabase: %v", err)
	}
	cols := []wire.ColumnDef{
		{Name: "id", Type: wire.TypeInt, IsPrimary: true},
		{Name: "name", Type: wire.TypeString},
		{Name: "age", Type: wire.TypeInt},
	}
	if err := c.CreateTable("customers", cols); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	rows := [][]wire.Literal{
		{{Value: "1"}, {Value: "Alice"}, {Value: "30"}},
		{{Value: "2"}, {Value: "Bob"}, {Value: "25"}},
	}
	for _, r := range rows {
		if err := c.Insert("customers", r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	colNames, got, err := c.Select("customers", nil, "age >= 30", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(colNames) != 3 {
		t.Fatalf("expected 3 projected columns, got %v", colNames)
	}
	if len(got) != 1 || got[0][1] != "Alice" {
		t.Fatalf("unexpected filtered rows: %v", got)
	}
}

func TestClientUpdateAndDeleteReturnAffectedCount(t *testing.T) {
	addr := newTestServer(t)
	c := dialAndLogin(t, addr)
	mustSetup := func() {
		if err := c.CreateDatabase("shop"); err != nil {
			t.Fatalf("CreateDatabase: %v", err)
		}
		if err := c.UseDatabase("shop"); err != nil {
			t.Fatalf("UseDatabase: %v", err)
		}
		cols := []wire.ColumnDef{
			{Name: "id", Type: wire.TypeInt, IsPrimary: true},
			{Name: "active", Type: wire.TypeBool},
		}
		if err := c.CreateTable("widgets", cols); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		for _, id := range []string{"1", "2", "3"} {
			if err := c.Insert("widgets", []wire.Literal{{Value: id}, {Value: "1"}}); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
	}
	mustSetup()

	n, err := c.Update("widgets", []wire.SetClause{{Column: "active", Value: wire.Literal{Value: "0"}}}, "id = 2")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row updated, got %d", n)
	}

	n, err = c.Delete("widgets", "active = 1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows deleted, got %d", n)
	}

	_, rows, err := c.Select("widgets", nil, "", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "2" {
		t.Fatalf("expected only row 2 to remain, got %v", rows)
	}
}

func TestClientTransactionCommitAndRollback(t *testing.T) {
	addr := newTestServer(t)
	c := dialAndLogin(t, addr)
	if err := c.CreateDatabase("shop"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := c.UseDatabase("shop"); err != nil {
		t.Fatalf("UseDatabase: %v", err)
	}
	cols := []wire.ColumnDef{{Name: "id", Type: wire.TypeInt, IsPrimary: true}}
	if err := c.CreateTable("t", cols); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Insert("t", []wire.Literal{{Value: "1"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	_, rows, err := c.Select("t", nil, "", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected rollback to undo the insert, got %v", rows)
	}

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Insert("t", []wire.Literal{{Value: "2"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	_, rows, err = c.Select("t", nil, "", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "2" {
		t.Fatalf("expected committed insert to persist, got %v", rows)
	}
}

func TestClientBadLoginReturnsError(t *testing.T) {
	addr := newTestServer(t)
	c, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	if err := c.Login("nobody", "wrong"); err == nil {
		t.Fatal("expected Login to fail for an unknown user")
	}
}

func TestClientPing(t *testing.T) {
	addr := newTestServer(t)
	c := dialAndLogin(t, addr)
	pong, err := c.Ping(42)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong.OriginalTimestampMS != 42 {
		t.Fatalf("expected echoed timestamp 42, got %d", pong.OriginalTimestampMS)
	}
}
