package wire

import "fmt"

// DataType is SDSQL's scalar type tag. It occupies one byte on the
// wire; all values still travel as strings, per spec.md §3.
type DataType uint8

const (
	TypeInt    DataType = 0x01
	TypeDouble DataType = 0x02
	TypeString DataType = 0x03
	TypeBool   DataType = 0x04
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	case TypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("DATATYPE(0x%02x)", uint8(t))
	}
}

// Default returns the type-appropriate default value used when a row
// value is missing, per spec.md §3.
func (t DataType) Default() string {
	switch t {
	case TypeInt:
		return "0"
	case TypeDouble:
		return "0.0"
	case TypeBool:
		return "0"
	default:
		return ""
	}
}

func decodeDataType(dec *Decoder) (DataType, error) {
	v, err := dec.U8()
	if err != nil {
		return 0, err
	}
	switch DataType(v) {
	case TypeInt, TypeDouble, TypeString, TypeBool:
		return DataType(v), nil
	default:
		return 0, newErr(InvalidFormat, "unknown data type 0x%02x", v)
	}
}

// Operation is the 1-byte discriminator for a QUERY_REQUEST's kind,
// per spec.md §4.2.
type Operation uint8

const (
	OpCreateDatabase Operation = 0x01
	OpDropDatabase   Operation = 0x02
	OpUseDatabase    Operation = 0x03
	OpCreateTable    Operation = 0x04
	OpDropTable      Operation = 0x05
	OpInsert         Operation = 0x10
	OpSelect         Operation = 0x11
	OpUpdate         Operation = 0x12
	OpDelete         Operation = 0x13
	// OpBeginTransaction/OpCommit/OpRollback have no analogue in
	// spec.md §4.2's payload table: the Operation enum it lists names
	// only DDL/DML, yet §4.5 requires begin/commit/rollback to reach
	// the server somehow. See DESIGN.md's Open Questions.
	OpBeginTransaction Operation = 0x20
	OpCommit           Operation = 0x21
	OpRollback         Operation = 0x22
)

func (o Operation) String() string {
	switch o {
	case OpCreateDatabase:
		return "CREATE_DATABASE"
	case OpDropDatabase:
		return "DROP_DATABASE"
	case OpUseDatabase:
		return "USE_DATABASE"
	case OpCreateTable:
		return "CREATE_TABLE"
	case OpDropTable:
		return "DROP_TABLE"
	case OpInsert:
		return "INSERT"
	case OpSelect:
		return "SELECT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	case OpBeginTransaction:
		return "BEGIN_TRANSACTION"
	case OpCommit:
		return "COMMIT"
	case OpRollback:
		return "ROLLBACK"
	default:
		return fmt.Sprintf("OPERATION(0x%02x)", uint8(o))
	}
}

func decodeOperation(dec *Decoder) (Operation, error) {
	v, err := dec.U8()
	if err != nil {
		return 0, err
	}
	return Operation(v), nil
}

// Literal is a typed wire value: every value travels as a string,
// interpreted according to Type.
type Literal struct {
	Type  DataType
	Value string
}

func (l Literal) encode(enc *Encoder) {
	enc.U8(uint8(l.Type))
	enc.String(l.Value)
}

func decodeLiteral(dec *Decoder) (Literal, error) {
	t, err := decodeDataType(dec)
	if err != nil {
		return Literal{}, err
	}
	v, err := dec.String()
	if err != nil {
		return Literal{}, err
	}
	return Literal{Type: t, Value: v}, nil
}

// ColumnDef describes one column of a table.
type ColumnDef struct {
	Name      string
	Type      DataType
	IsPrimary bool
}

func (c ColumnDef) encode(enc *Encoder) {
	enc.String(c.Name)
	enc.U8(uint8(c.Type))
	enc.Bool(c.IsPrimary)
}

func decodeColumnDef(dec *Decoder) (ColumnDef, error) {
	name, err := dec.String()
	if err != nil {
		return ColumnDef{}, err
	}
	typ, err := decodeDataType(dec)
	if err != nil {
		return ColumnDef{}, err
	}
	isPK, err := dec.Bool()
	if err != nil {
		return ColumnDef{}, err
	}
	return ColumnDef{Name: name, Type: typ, IsPrimary: isPK}, nil
}

// SetClause is one `column = value` assignment in an UPDATE.
type SetClause struct {
	Column string
	Value  Literal
}

func (c SetClause) encode(enc *Encoder) {
	enc.String(c.Column)
	c.Value.encode(enc)
}

func decodeSetClause(dec *Decoder) (SetClause, error) {
	col, err := dec.String()
	if err != nil {
		return SetClause{}, err
	}
	val, err := decodeLiteral(dec)
	if err != nil {
		return SetClause{}, err
	}
	return SetClause{Column: col, Value: val}, nil
}
