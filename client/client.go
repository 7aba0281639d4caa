// Package client is the Go counterpart of spec.md's "CLI contract"
// collaborator: one method per structured command, each building the
// matching wire.Message, sending it over a transport.Conn, and
// decoding the response. It never parses SQL text; callers supply
// already-structured ColumnDef, Literal, and SetClause values, plus a
// raw WHERE expression string.
package client

import (
	"context"
	"fmt"

	"github.com/sdsql/sdsql/internal/transport"
	"github.com/sdsql/sdsql/internal/wire"
)

// Client is a single logical session against one SDSQL server: one
// underlying transport.Conn and a session token obtained from Login.
// The selected database is tracked server-side, not by the Client.
type Client struct {
	conn  *transport.Conn
	token string
}

// Dial opens a connection to address and wraps it as a Client. The
// returned Client is not yet logged in; call Login before issuing any
// other command.
func Dial(ctx context.Context, address string) (*Client, error) {
	conn, err := transport.Dial(ctx, address, nil, transport.DialerOptions{})
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Login authenticates and stores the session token for subsequent
// calls. A failed login returns an error built from the server's
// generic LoginFailure message; per spec.md §4.4 it never distinguishes
// an unknown user from a wrong password.
func (c *Client) Login(username, password string) error {
	if err := c.conn.Send(&wire.LoginRequest{Username: username, Password: password}); err != nil {
		return err
	}
	resp, err := c.conn.Receive()
	if err != nil {
		return err
	}
	switch m := resp.(type) {
	case *wire.LoginSuccess:
		c.token = m.SessionToken
		return nil
	case *wire.LoginFailure:
		return fmt.Errorf("login failed: %s", m.ErrorMessage)
	default:
		return fmt.Errorf("login: unexpected response type %T", resp)
	}
}

// Ping round-trips a timestamp and returns the server's reply.
func (c *Client) Ping(timestampMS uint64) (*wire.PongResponse, error) {
	if err := c.conn.Send(&wire.PingRequest{TimestampMS: timestampMS}); err != nil {
		return nil, err
	}
	resp, err := c.conn.Receive()
	if err != nil {
		return nil, err
	}
	pong, ok := resp.(*wire.PongResponse)
	if !ok {
		return nil, fmt.Errorf("ping: unexpected response type %T", resp)
	}
	return pong, nil
}

func (c *Client) query(req *wire.QueryRequest) (*wire.QueryResponse, error) {
	req.SessionToken = c.token
	if err := c.conn.Send(req); err != nil {
		return nil, err
	}
	resp, err := c.conn.Receive()
	if err != nil {
		return nil, err
	}
	switch m := resp.(type) {
	case *wire.QueryResponse:
		if !m.Success {
			return m, fmt.Errorf("%s: %s", req.Operation, m.ErrorMessage)
		}
		return m, nil
	case *wire.ErrorResponse:
		return nil, fmt.Errorf("%s: %s (code %d)", req.Operation, m.ErrorMessage, m.ErrorCode)
	default:
		return nil, fmt.Errorf("%s: unexpected response type %T", req.Operation, resp)
	}
}

// CreateDatabase creates a new, empty database.
func (c *Client) CreateDatabase(name string) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpCreateDatabase, DBName: name})
	return err
}

// DropDatabase deletes a database and all of its tables.
func (c *Client) DropDatabase(name string) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpDropDatabase, DBName: name})
	return err
}

// UseDatabase selects the database subsequent table operations apply
// to, for this session.
func (c *Client) UseDatabase(name string) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpUseDatabase, DBName: name})
	return err
}

// CreateTable creates a table with the given columns in the currently
// selected database.
func (c *Client) CreateTable(table string, columns []wire.ColumnDef) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpCreateTable, TableName: table, Columns: columns})
	return err
}

// DropTable deletes a table from the currently selected database.
func (c *Client) DropTable(table string) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpDropTable, TableName: table})
	return err
}

// Insert appends one row of positional values to table. Trailing
// columns omitted from values receive type-appropriate defaults.
func (c *Client) Insert(table string, values []wire.Literal) error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpInsert, TableName: table, InsertValues: values})
	return err
}

// Select returns the rows of table matching whereExpr (empty string
// selects every row), projected to columns (nil or empty selects all
// columns) and optionally sorted by orderBy (empty string leaves
// results unsorted).
func (c *Client) Select(table string, columns []string, whereExpr, orderBy string) (columnNames []string, rows [][]string, err error) {
	req := &wire.QueryRequest{Operation: wire.OpSelect, TableName: table, SelectColumns: columns}
	if whereExpr != "" {
		req.HasWhere = true
		req.WhereExpr = whereExpr
	}
	if orderBy != "" {
		req.HasOrderBy = true
		req.OrderBy = orderBy
	}
	resp, err := c.query(req)
	if err != nil {
		return nil, nil, err
	}
	return resp.ColumnNames, resp.Rows, nil
}

// Update overwrites the named columns of every row of table matching
// whereExpr (empty string matches every row), returning the number of
// rows affected.
func (c *Client) Update(table string, clauses []wire.SetClause, whereExpr string) (affected int, err error) {
	req := &wire.QueryRequest{Operation: wire.OpUpdate, TableName: table, UpdateClauses: clauses}
	if whereExpr != "" {
		req.HasWhere = true
		req.WhereExpr = whereExpr
	}
	resp, err := c.query(req)
	if err != nil {
		return 0, err
	}
	return affectedCount(resp), nil
}

// Delete removes every row of table matching whereExpr (empty string
// matches every row), returning the number of rows affected.
func (c *Client) Delete(table, whereExpr string) (affected int, err error) {
	req := &wire.QueryRequest{Operation: wire.OpDelete, TableName: table}
	if whereExpr != "" {
		req.HasWhere = true
		req.WhereExpr = whereExpr
	}
	resp, err := c.query(req)
	if err != nil {
		return 0, err
	}
	return affectedCount(resp), nil
}

// Begin starts a transaction against the currently selected database.
func (c *Client) Begin() error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpBeginTransaction})
	return err
}

// Commit commits the active transaction.
func (c *Client) Commit() error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpCommit})
	return err
}

// Rollback rolls back the active transaction.
func (c *Client) Rollback() error {
	_, err := c.query(&wire.QueryRequest{Operation: wire.OpRollback})
	return err
}

// affectedCount decodes the one-row, one-column "affected" result a
// successful INSERT/UPDATE/DELETE carries back (see server/handler.go's
// affectedResult) into an int. A malformed payload is treated as zero
// rows affected rather than an error: the operation itself already
// succeeded by the time this is reached.
func affectedCount(resp *wire.QueryResponse) int {
	if len(resp.Rows) != 1 || len(resp.Rows[0]) != 1 {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(resp.Rows[0][0], "%d", &n); err != nil {
		return 0
	}
	return n
}
