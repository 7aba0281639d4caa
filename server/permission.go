package server

import (
	"github.com/sdsql/sdsql/internal/auth"
	"github.com/sdsql/sdsql/internal/wire"
)

// requiredPermission maps a wire Operation to the (op, object_type)
// pair a session must hold to perform it, per spec.md §4.4's table.
// BEGIN_TRANSACTION/COMMIT/ROLLBACK have no entry: they require only a
// valid session (DESIGN.md's Open Question 7).
func requiredPermission(op wire.Operation) (auth.Op, auth.ObjectType, bool) {
	switch op {
	case wire.OpCreateDatabase:
		return auth.OpCreateDatabase, auth.ObjectDatabase, true
	case wire.OpDropDatabase:
		return auth.OpDropDatabase, auth.ObjectDatabase, true
	case wire.OpUseDatabase:
		return auth.OpSelect, auth.ObjectDatabase, true
	case wire.OpCreateTable:
		return auth.OpCreateTable, auth.ObjectTable, true
	case wire.OpDropTable:
		return auth.OpDropTable, auth.ObjectTable, true
	case wire.OpInsert:
		return auth.OpInsert, auth.ObjectTable, true
	case wire.OpSelect:
		return auth.OpSelect, auth.ObjectTable, true
	case wire.OpUpdate:
		return auth.OpUpdate, auth.ObjectTable, true
	case wire.OpDelete:
		return auth.OpDelete, auth.ObjectTable, true
	default:
		return "", "", false
	}
}

// objectName picks the name a permission check is evaluated against:
// the database name for database-level operations, the table name for
// table-level operations.
func objectName(op wire.Operation, q *wire.QueryRequest) string {
	switch op {
	case wire.OpCreateDatabase, wire.OpDropDatabase, wire.OpUseDatabase:
		return q.DBName
	default:
		return q.TableName
	}
}
