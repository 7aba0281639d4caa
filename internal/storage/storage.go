// Package storage defines the pluggable persistence contract the
// query engine depends on (spec.md §6) and ships one concrete,
// file-backed implementation.
package storage

// TableSnapshot is the persisted form of one table: its schema and
// all of its rows, round-tripped whole by SaveTable/LoadTable.
type TableSnapshot struct {
	Name     string
	Columns  []ColumnSnapshot
	Rows     [][]string
	HasPK    bool
	PKColumn string
}

// ColumnSnapshot mirrors wire.ColumnDef without importing the wire
// package, keeping storage independent of the transport layer.
type ColumnSnapshot struct {
	Name      string
	Type      uint8
	IsPrimary bool
}

// Backend is the contract every persistence implementation must
// satisfy, per spec.md §6: "any backend that implements create_db,
// drop_db, list_tables(db), load_table(db, t), save_table(db, t),
// create_log, append_log, delete_log suffices." DeleteTable and
// ListDatabases are additions SDSQL requires beyond that literal list:
// DROP_TABLE (spec.md §4.5) must remove a table's persisted state, and
// the server must rediscover previously created databases across a
// restart (spec.md §3: "Tables live until dropped or their database is
// dropped" implies durability across restarts, which nothing in the
// listed contract alone provides without a directory listing). See
// DESIGN.md.
type Backend interface {
	CreateDatabase(name string) error
	DropDatabase(name string) error
	ListDatabases() ([]string, error)
	ListTables(db string) ([]string, error)
	LoadTable(db, table string) (*TableSnapshot, error)
	SaveTable(db string, snap *TableSnapshot) error
	DeleteTable(db, table string) error

	CreateLog(db string) error
	AppendLog(db string, entry []byte) error
	DeleteLog(db string) error
}
