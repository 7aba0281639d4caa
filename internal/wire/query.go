package wire

// QueryRequest carries one DDL/DML operation, per spec.md §3/§4.2.
//
// The WHERE clause is carried as the raw expression text rather than
// the single (column, operator, literal) triple spec.md's payload
// table sketches: §4.5 mandates a WHERE evaluator that parses
// AND/OR-compound boolean expressions (scenario S3 requires
// `age = 25 AND name != 'Alice'` to round-trip end to end), which a
// single triple cannot represent. See DESIGN.md's Open Questions for
// the full resolution. OrderBy is likewise carried explicitly even
// though spec.md's payload sketch omits it, because §4.5 names
// `order_by` as a required SELECT parameter.
type QueryRequest struct {
	Operation     Operation
	SessionToken  string
	DBName        string
	TableName     string
	Columns       []ColumnDef
	SelectColumns []string
	InsertValues  []Literal
	UpdateClauses []SetClause
	HasWhere      bool
	WhereExpr     string
	HasOrderBy    bool
	OrderBy       string
}

func (q *QueryRequest) Type() MessageType { return TypeQueryRequest }

func (q *QueryRequest) encodePayload(enc *Encoder) {
	enc.U8(uint8(q.Operation))
	enc.String(q.SessionToken)
	enc.String(q.DBName)
	enc.String(q.TableName)

	enc.U32(uint32(len(q.Columns)))
	for _, c := range q.Columns {
		c.encode(enc)
	}

	enc.U32(uint32(len(q.SelectColumns)))
	for _, c := range q.SelectColumns {
		enc.String(c)
	}

	enc.U32(uint32(len(q.InsertValues)))
	for _, v := range q.InsertValues {
		v.encode(enc)
	}

	enc.U32(uint32(len(q.UpdateClauses)))
	for _, c := range q.UpdateClauses {
		c.encode(enc)
	}

	enc.Bool(q.HasWhere)
	if q.HasWhere {
		enc.String(q.WhereExpr)
	}

	enc.Bool(q.HasOrderBy)
	if q.HasOrderBy {
		enc.String(q.OrderBy)
	}
}

func (q *QueryRequest) decodePayload(dec *Decoder) error {
	op, err := decodeOperation(dec)
	if err != nil {
		return err
	}
	q.Operation = op

	if q.SessionToken, err = dec.String(); err != nil {
		return err
	}
	if q.DBName, err = dec.String(); err != nil {
		return err
	}
	if q.TableName, err = dec.String(); err != nil {
		return err
	}

	nCols, err := dec.U32()
	if err != nil {
		return err
	}
	q.Columns = make([]ColumnDef, nCols)
	for i := range q.Columns {
		if q.Columns[i], err = decodeColumnDef(dec); err != nil {
			return err
		}
	}

	nSel, err := dec.U32()
	if err != nil {
		return err
	}
	q.SelectColumns = make([]string, nSel)
	for i := range q.SelectColumns {
		if q.SelectColumns[i], err = dec.String(); err != nil {
			return err
		}
	}

	nIns, err := dec.U32()
	if err != nil {
		return err
	}
	q.InsertValues = make([]Literal, nIns)
	for i := range q.InsertValues {
		if q.InsertValues[i], err = decodeLiteral(dec); err != nil {
			return err
		}
	}

	nUpd, err := dec.U32()
	if err != nil {
		return err
	}
	q.UpdateClauses = make([]SetClause, nUpd)
	for i := range q.UpdateClauses {
		if q.UpdateClauses[i], err = decodeSetClause(dec); err != nil {
			return err
		}
	}

	if q.HasWhere, err = dec.Bool(); err != nil {
		return err
	}
	if q.HasWhere {
		if q.WhereExpr, err = dec.String(); err != nil {
			return err
		}
	}

	if q.HasOrderBy, err = dec.Bool(); err != nil {
		return err
	}
	if q.HasOrderBy {
		if q.OrderBy, err = dec.String(); err != nil {
			return err
		}
	}
	return nil
}

// QueryResponse is the tabular result (or error) returned for a
// QueryRequest, per spec.md §3/§4.2.
type QueryResponse struct {
	Success      bool
	ColumnNames  []string
	Rows         [][]string
	ErrorMessage string
}

func (r *QueryResponse) Type() MessageType { return TypeQueryResponse }

func (r *QueryResponse) encodePayload(enc *Encoder) {
	enc.Bool(r.Success)
	if r.Success {
		enc.U32(uint32(len(r.ColumnNames)))
		for _, c := range r.ColumnNames {
			enc.String(c)
		}
		enc.U32(uint32(len(r.Rows)))
		for _, row := range r.Rows {
			enc.U32(uint32(len(row)))
			for _, cell := range row {
				enc.String(cell)
			}
		}
		return
	}
	enc.String(r.ErrorMessage)
}

func (r *QueryResponse) decodePayload(dec *Decoder) error {
	ok, err := dec.Bool()
	if err != nil {
		return err
	}
	r.Success = ok
	if !ok {
		r.ErrorMessage, err = dec.String()
		return err
	}

	nCols, err := dec.U32()
	if err != nil {
		return err
	}
	r.ColumnNames = make([]string, nCols)
	for i := range r.ColumnNames {
		if r.ColumnNames[i], err = dec.String(); err != nil {
			return err
		}
	}

	nRows, err := dec.U32()
	if err != nil {
		return err
	}
	r.Rows = make([][]string, nRows)
	for i := range r.Rows {
		nCells, err := dec.U32()
		if err != nil {
			return err
		}
		row := make([]string, nCells)
		for j := range row {
			if row[j], err = dec.String(); err != nil {
				return err
			}
		}
		r.Rows[i] = row
	}
	return nil
}
