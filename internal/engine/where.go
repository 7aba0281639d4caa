package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sdsql/sdsql/internal/wire"
)

// Evaluate runs expr (spec.md §4.5's WHERE grammar: no-parens
// AND/OR-compound comparisons, AND binding tighter than OR) against
// row, using columns to resolve names and declared types. An empty
// expr evaluates to true. Evaluation never errors (testable property
// #8): every failure mode degrades to false. An unparseable clause, a
// missing column, or an unsupported operator for BOOL also adds a
// warning; a numeric value or literal that fails to parse, or a row
// shorter than the column list, yields false with no warning.
func Evaluate(expr string, row []string, columns []wire.ColumnDef) (bool, []string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true, nil
	}

	var warnings []string
	result := false
	for i, orGroup := range splitTopLevel(expr, " OR ") {
		group := true
		for _, andClause := range splitTopLevel(orGroup, " AND ") {
			ok, w := evalComparison(andClause, row, columns)
			warnings = append(warnings, w...)
			if !ok {
				group = false
			}
		}
		if i == 0 {
			result = group
		} else {
			result = result || group
		}
	}
	return result, warnings
}

// splitTopLevel splits s on sep, but never inside a single-quoted
// string literal.
func splitTopLevel(s, sep string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

var comparisonOps = []string{"!=", ">=", "<=", "=", ">", "<"}

// evalComparison evaluates a single `column op literal` clause.
func evalComparison(clause string, row []string, columns []wire.ColumnDef) (bool, []string) {
	clause = strings.TrimSpace(clause)

	var col, op, lit string
	found := false
	for _, candidate := range comparisonOps {
		if idx := strings.Index(clause, " "+candidate+" "); idx >= 0 {
			col = strings.TrimSpace(clause[:idx])
			op = candidate
			lit = strings.TrimSpace(clause[idx+len(candidate)+2:])
			found = true
			break
		}
	}
	if !found {
		return false, []string{fmt.Sprintf("unparseable WHERE clause %q", clause)}
	}
	lit = strings.Trim(lit, "'")

	colIdx, typ := -1, wire.TypeString
	for i, c := range columns {
		if c.Name == col {
			colIdx = i
			typ = c.Type
			break
		}
	}
	if colIdx < 0 {
		return false, []string{fmt.Sprintf("unknown column %q in WHERE clause", col)}
	}
	if colIdx >= len(row) {
		return false, nil
	}
	actual := row[colIdx]

	if typ == wire.TypeBool {
		if op != "=" && op != "!=" {
			return false, []string{fmt.Sprintf("operator %q is not defined for BOOL column %q", op, col)}
		}
		eq := actual == lit
		if op == "=" {
			return eq, nil
		}
		return !eq, nil
	}

	switch typ {
	case wire.TypeInt, wire.TypeDouble:
		av, aerr := strconv.ParseFloat(actual, 64)
		lv, lerr := strconv.ParseFloat(lit, 64)
		if aerr != nil || lerr != nil {
			return false, nil
		}
		return compareOrdered(av, lv, op), nil
	default:
		return compareOrdered(actual, lit, op), nil
	}
}

func compareOrdered[T int | float64 | string](a, b T, op string) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	default:
		return false
	}
}

// lessValue reports whether a should sort before b, per spec.md §4.5's
// ORDER BY rules.
func lessValue(a, b string, typ wire.DataType) bool {
	switch typ {
	case wire.TypeInt, wire.TypeDouble:
		av, aerr := strconv.ParseFloat(a, 64)
		bv, berr := strconv.ParseFloat(b, 64)
		if aerr != nil || berr != nil {
			return false
		}
		return av < bv
	default:
		return a < b
	}
}
