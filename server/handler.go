package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sdsql/sdsql/internal/auth"
	"github.com/sdsql/sdsql/internal/engine"
	"github.com/sdsql/sdsql/internal/transport"
	"github.com/sdsql/sdsql/internal/wire"
)

// handler runs one client's receive-dispatch-respond loop, per
// spec.md §5: read one message, execute it to completion, write one
// response, then read the next. It owns that client's session
// reference and any in-flight transaction; both are scoped to this
// goroutine, never shared.
type handler struct {
	ctx  *Context
	met  *Metrics
	conn *transport.Conn

	session *auth.Session
	txn     *engine.Txn
}

func (h *handler) run() {
	defer h.cleanup()
	for {
		msg, err := h.conn.Receive()
		if err != nil {
			if isFramingError(err) {
				h.ctx.Log.Warn("framing/codec error, disconnecting", "remote", h.conn.RemoteAddr(), "err", err)
				h.send(&wire.ErrorResponse{ErrorMessage: err.Error(), ErrorCode: wire.ErrCodeUnsupportedType})
				return
			}
			h.ctx.Log.Debug("connection closed", "remote", h.conn.RemoteAddr(), "err", err)
			return
		}
		switch m := msg.(type) {
		case *wire.LoginRequest:
			h.handleLogin(m)
		case *wire.PingRequest:
			h.handlePing(m)
		case *wire.QueryRequest:
			h.handleQuery(m)
		default:
			// newPayload/DecodePayload never return a type outside the
			// ones above without already erroring Receive, so this is
			// unreachable in practice; kept as a defensive disconnect
			// per spec.md §7's "unsupported message type" clause.
			h.send(&wire.ErrorResponse{ErrorMessage: "unsupported message type", ErrorCode: wire.ErrCodeUnsupportedType})
			return
		}
	}
}

// cleanup runs spec.md §5's disconnect transition: auto-rollback any
// active transaction, then destroy the session.
func (h *handler) cleanup() {
	if h.txn != nil {
		if err := h.ctx.Engine.Rollback(h.txn); err != nil {
			h.ctx.Log.Error("rollback on disconnect failed", "err", err)
		}
		h.txn = nil
	}
	if h.session != nil {
		h.ctx.Sessions.Remove(h.session.Token)
	}
	h.conn.Close()
}

// isFramingError reports whether err originates from malformed bytes
// on the wire (bad magic, unknown type, a truncated/oversized payload)
// rather than the connection simply going away. Per spec.md §7, the
// former gets an ERROR_RESPONSE before the disconnect; the latter is
// silent.
func isFramingError(err error) bool {
	var frameErr *wire.FrameError
	var serErr *wire.SerializationError
	return errors.As(err, &frameErr) || errors.As(err, &serErr)
}

func (h *handler) send(m wire.Message) {
	if err := h.conn.Send(m); err != nil {
		h.ctx.Log.Debug("send failed", "remote", h.conn.RemoteAddr(), "err", err)
	}
}

func (h *handler) handleLogin(m *wire.LoginRequest) {
	user, err := h.ctx.Users.Authenticate(m.Username, m.Password)
	if err != nil {
		h.send(&wire.LoginFailure{ErrorMessage: "invalid username or password"})
		return
	}
	h.session = h.ctx.Sessions.Login(user.Name)
	h.send(&wire.LoginSuccess{SessionToken: h.session.Token, UserID: user.ID})
}

func (h *handler) handlePing(m *wire.PingRequest) {
	h.send(&wire.PongResponse{
		OriginalTimestampMS: m.TimestampMS,
		ServerTimestampMS:   uint64(time.Now().UnixMilli()),
	})
}

func (h *handler) handleQuery(m *wire.QueryRequest) {
	sess, ok := h.ctx.Sessions.Lookup(m.SessionToken)
	if !ok {
		h.send(&wire.ErrorResponse{ErrorMessage: auth.ErrUnknownToken.Error(), ErrorCode: wire.ErrCodeUnauthorized})
		return
	}
	h.session = sess

	user, ok := h.ctx.Users.User(sess.UserName)
	if !ok {
		h.send(&wire.ErrorResponse{ErrorMessage: auth.ErrUnknownToken.Error(), ErrorCode: wire.ErrCodeUnauthorized})
		return
	}

	if reqOp, objType, needsPerm := requiredPermission(m.Operation); needsPerm {
		if !user.Authorized(reqOp, objType, objectName(m.Operation, m)) {
			resp := &wire.QueryResponse{
				Success:      false,
				ErrorMessage: fmt.Errorf("%w: %s requires %s on %s %q", auth.ErrPermissionDenied, m.Operation, reqOp, objType, objectName(m.Operation, m)).Error(),
			}
			h.met.QueriesTotal.WithLabelValues(m.Operation.String(), outcomeLabel(resp)).Inc()
			h.send(resp)
			return
		}
	}

	resp := h.dispatch(m)
	h.met.QueriesTotal.WithLabelValues(m.Operation.String(), outcomeLabel(resp)).Inc()
	h.send(resp)
}

func outcomeLabel(r *wire.QueryResponse) string {
	if r.Success {
		return "ok"
	}
	return "error"
}

// dispatch executes one authorized QUERY_REQUEST and builds its
// response. DDL against a named database uses q.DBName; everything
// else (table DDL, DML, transaction control) operates against the
// session's current_database, per spec.md §4.5.
func (h *handler) dispatch(q *wire.QueryRequest) *wire.QueryResponse {
	switch q.Operation {
	case wire.OpCreateDatabase:
		return resultOf(h.ctx.Engine.CreateDatabase(q.DBName))

	case wire.OpDropDatabase:
		err := h.ctx.Engine.DropDatabase(q.DBName)
		if err == nil && h.session.CurrentDatabase() == q.DBName {
			h.session.ClearCurrentDatabase()
		}
		return resultOf(err)

	case wire.OpUseDatabase:
		err := h.ctx.Engine.UseDatabase(q.DBName)
		if err == nil {
			h.session.SetCurrentDatabase(q.DBName)
		}
		return resultOf(err)

	case wire.OpCreateTable:
		return resultOf(h.ctx.Engine.CreateTable(h.session.CurrentDatabase(), q.TableName, q.Columns))

	case wire.OpDropTable:
		return resultOf(h.ctx.Engine.DropTable(h.session.CurrentDatabase(), q.TableName))

	case wire.OpInsert:
		n, err := h.ctx.Engine.Insert(h.session.CurrentDatabase(), q.TableName, q.InsertValues, h.txn)
		return affectedResult(n, err)

	case wire.OpUpdate:
		where := ""
		if q.HasWhere {
			where = q.WhereExpr
		}
		n, warnings, err := h.ctx.Engine.Update(h.session.CurrentDatabase(), q.TableName, q.UpdateClauses, where, h.txn)
		h.logWarnings(warnings)
		return affectedResult(n, err)

	case wire.OpDelete:
		where := ""
		if q.HasWhere {
			where = q.WhereExpr
		}
		n, warnings, err := h.ctx.Engine.Delete(h.session.CurrentDatabase(), q.TableName, where, h.txn)
		h.logWarnings(warnings)
		return affectedResult(n, err)

	case wire.OpSelect:
		where, orderBy := "", ""
		if q.HasWhere {
			where = q.WhereExpr
		}
		if q.HasOrderBy {
			orderBy = q.OrderBy
		}
		cols, rows, warnings, err := h.ctx.Engine.Select(h.session.CurrentDatabase(), q.TableName, q.SelectColumns, where, orderBy)
		h.logWarnings(warnings)
		if err != nil {
			return &wire.QueryResponse{Success: false, ErrorMessage: err.Error()}
		}
		return &wire.QueryResponse{Success: true, ColumnNames: cols, Rows: rows}

	case wire.OpBeginTransaction:
		return h.beginTransaction()

	case wire.OpCommit:
		return h.commitTransaction()

	case wire.OpRollback:
		return h.rollbackTransaction()

	default:
		return &wire.QueryResponse{Success: false, ErrorMessage: "unsupported operation " + q.Operation.String()}
	}
}

func (h *handler) beginTransaction() *wire.QueryResponse {
	if h.txn != nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: engine.ErrTxnAlreadyActive.Error()}
	}
	db := h.session.CurrentDatabase()
	if db == "" {
		return &wire.QueryResponse{Success: false, ErrorMessage: engine.ErrNoDatabaseSelected.Error()}
	}
	txn, err := h.ctx.Engine.Begin(db)
	if err != nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: err.Error()}
	}
	h.txn = txn
	return &wire.QueryResponse{Success: true}
}

func (h *handler) commitTransaction() *wire.QueryResponse {
	if h.txn == nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: engine.ErrTxnNotActive.Error()}
	}
	err := h.ctx.Engine.Commit(h.txn)
	h.txn = nil
	if err != nil {
		h.met.CommitFailuresTotal.Inc()
		return &wire.QueryResponse{Success: false, ErrorMessage: err.Error()}
	}
	return &wire.QueryResponse{Success: true}
}

func (h *handler) rollbackTransaction() *wire.QueryResponse {
	if h.txn == nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: engine.ErrTxnNotActive.Error()}
	}
	err := h.ctx.Engine.Rollback(h.txn)
	h.txn = nil
	return resultOf(err)
}

// logWarnings surfaces engine-level warnings (unknown column in a
// projection/where/order-by, etc.) server-side only: spec.md §4.2's
// QUERY_RESPONSE payload has no field to carry them back to the
// client.
func (h *handler) logWarnings(warnings []string) {
	for _, w := range warnings {
		h.ctx.Log.Warn(w, "remote", h.conn.RemoteAddr())
	}
}

func resultOf(err error) *wire.QueryResponse {
	if err != nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: err.Error()}
	}
	return &wire.QueryResponse{Success: true}
}

func affectedResult(n int, err error) *wire.QueryResponse {
	if err != nil {
		return &wire.QueryResponse{Success: false, ErrorMessage: err.Error()}
	}
	return &wire.QueryResponse{Success: true, ColumnNames: []string{"affected"}, Rows: [][]string{{strconv.Itoa(n)}}}
}
