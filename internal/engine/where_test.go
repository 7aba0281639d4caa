package engine

import (
	"testing"

	"github.com/sdsql/sdsql/internal/wire"
)

var testColumns = []wire.ColumnDef{
	{Name: "id", Type: wire.TypeInt, IsPrimary: true},
	{Name: "name", Type: wire.TypeString},
	{Name: "age", Type: wire.TypeInt},
	{Name: "active", Type: wire.TypeBool},
}

func TestEvaluateEmptyConditionIsTrue(t *testing.T) {
	ok, warns := Evaluate("", []string{"1", "Alice", "25", "1"}, testColumns)
	if !ok || len(warns) != 0 {
		t.Fatalf("expected true with no warnings, got %v %v", ok, warns)
	}
}

func TestEvaluateSimpleComparison(t *testing.T) {
	row := []string{"1", "Alice", "25", "1"}
	ok, _ := Evaluate("age = 25", row, testColumns)
	if !ok {
		t.Fatal("expected age = 25 to match")
	}
	ok, _ = Evaluate("age = 30", row, testColumns)
	if ok {
		t.Fatal("expected age = 30 not to match")
	}
}

func TestEvaluateAndOrScenarioS3(t *testing.T) {
	rows := [][]string{
		{"1", "Alice", "25", "1"},
		{"2", "Bob", "30", "1"},
		{"3", "Cara", "25", "1"},
	}

	matchedAnd := 0
	for _, r := range rows {
		ok, _ := Evaluate("age = 25 AND name != 'Alice'", r, testColumns)
		if ok {
			matchedAnd++
		}
	}
	if matchedAnd != 1 {
		t.Fatalf("expected exactly 1 row to match the AND expression, got %d", matchedAnd)
	}

	matchedOr := 0
	for _, r := range rows {
		ok, _ := Evaluate("age > 25 OR name = 'Alice'", r, testColumns)
		if ok {
			matchedOr++
		}
	}
	if matchedOr != 2 {
		t.Fatalf("expected exactly 2 rows to match the OR expression, got %d", matchedOr)
	}
}

func TestEvaluateAndBindsTighterThanOr(t *testing.T) {
	row := []string{"1", "Alice", "25", "1"}
	// name = 'Alice' OR (age = 99 AND name = 'Bob') -> true only via the
	// first disjunct, proving AND groups before OR splits.
	ok, _ := Evaluate("name = 'Alice' OR age = 99 AND name = 'Bob'", row, testColumns)
	if !ok {
		t.Fatal("expected the OR disjunct to still match")
	}
}

func TestEvaluateBoolOnlyEqualityDefined(t *testing.T) {
	row := []string{"1", "Alice", "25", "1"}
	if ok, w := Evaluate("active > 0", row, testColumns); ok || len(w) == 0 {
		t.Fatalf("expected false+warning for unsupported BOOL operator, got %v %v", ok, w)
	}
	if ok, _ := Evaluate("active = 1", row, testColumns); !ok {
		t.Fatal("expected active = 1 to match")
	}
}

func TestEvaluateMissingColumnIsFalse(t *testing.T) {
	row := []string{"1", "Alice", "25", "1"}
	ok, _ := Evaluate("nope = 1", row, testColumns)
	if ok {
		t.Fatal("expected missing column to evaluate false")
	}
}

func TestEvaluateTypedParseFailureIsFalse(t *testing.T) {
	row := []string{"1", "Alice", "not-a-number", "1"}
	ok, _ := Evaluate("age = 25", row, testColumns)
	if ok {
		t.Fatal("expected unparseable INT comparison to evaluate false")
	}
}

func TestEvaluateNeverPanics(t *testing.T) {
	exprs := []string{
		"", "=", "age", "age = ", "age AND name", "' OR '1'='1",
		"age = 25 AND AND name = 'x'", "age >= 10 OR age <= 5 AND name != 'y'",
	}
	row := []string{"1", "Alice", "25", "1"}
	for _, e := range exprs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Evaluate(%q) panicked: %v", e, r)
				}
			}()
			Evaluate(e, row, testColumns)
		}()
	}
}

func TestEvaluateQuotedStringMayContainKeywords(t *testing.T) {
	cols := []wire.ColumnDef{{Name: "name", Type: wire.TypeString}}
	row := []string{"Bob AND Alice"}
	ok, _ := Evaluate("name = 'Bob AND Alice'", row, cols)
	if !ok {
		t.Fatal("expected quoted literal containing AND to be treated as one literal, not split")
	}
}
