package grid

import (
	"math"
	"testing"
)

func TestNewPadsAndTrims(t *testing.T) {
	g := New([]string{" Item ", "", "Qty"}, [][]string{
		{"Burger", "x", "3", "extra"},
		{"Fries"},
	})

	names := g.ColumnNames()
	want := []string{"Item", "Column_2", "Qty"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("column %d = %q, want %q", i, names[i], n)
		}
	}
	if got := g.Cell(2, 1); !got.IsNull() {
		t.Errorf("short row should pad with null, got %q", got.Text())
	}
}

func TestCleanDropsEmptyRowsAndSparseColumns(t *testing.T) {
	g := New([]string{"Item", "Junk"}, [][]string{
		{"Burger", ""},
		{"", ""},
		{"Fries", ""},
	})
	g.Clean()

	if g.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (empty row removed)", g.NumRows())
	}
	if g.Column("Junk") != nil {
		t.Error("all-null column should be dropped")
	}
}

func TestCleanCollapsesDuplicateNames(t *testing.T) {
	g := New([]string{"Item", "Item"}, [][]string{{"a", "b"}})
	g.Clean()
	if g.NumCols() != 1 {
		t.Fatalf("cols = %d, want 1", g.NumCols())
	}
	if got := g.Cell(0, 0).Text(); got != "a" {
		t.Errorf("first occurrence should win, got %q", got)
	}
}

func TestCleanCoercesMostlyNumericColumns(t *testing.T) {
	g := New([]string{"Gross"}, [][]string{
		{"$1,234.50"}, {"2.50"}, {"n/a"},
	})
	g.Clean()

	col := g.Column("Gross")
	if !((col.Values[0].Kind() == KindNumber) && (col.Values[1].Kind() == KindNumber)) {
		t.Fatal("numeric-looking values should be coerced")
	}
	if f, _ := col.Values[0].Float(); f != 1234.50 {
		t.Errorf("coerced value = %v, want 1234.50", f)
	}
	if !col.Values[2].IsNull() {
		t.Error("unparseable value should become null after coercion")
	}
}

func TestCleanLeavesTextColumnsAlone(t *testing.T) {
	g := New([]string{"Item"}, [][]string{{"Burger"}, {"Fries"}, {"7"}})
	g.Clean()
	if got := g.Cell(0, 0); got.Kind() != KindText {
		t.Error("mostly-text column must stay textual")
	}
}

func TestParseLooseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,234.50", 1234.50, true},
		{"€12", 12, true},
		{" 3.5 ", 3.5, true},
		{"-2", -2, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseLooseNumber(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseLooseNumber(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	if got := Score(Empty()); got != 0 {
		t.Errorf("empty grid score = %v, want 0", got)
	}
	if got := Score(nil); got != 0 {
		t.Errorf("nil grid score = %v, want 0", got)
	}

	g := New(
		[]string{"Item", "Quantity", "Price", "Total", "Date", "Category", "Order", "Customer", "Sales", "Revenue"},
		make([][]string, 0),
	)
	// No rows: still empty by definition.
	if got := Score(g); got != 0 {
		t.Errorf("zero-row grid score = %v, want 0", got)
	}
}

func TestScoreRange(t *testing.T) {
	rows := make([][]string, 120)
	for i := range rows {
		rows[i] = []string{"Latte", "2", "4.50", "9.00", "2024-03-01", "Beverages", "A1", "Ann", "x", "y"}
	}
	g := New(
		[]string{"Item", "Quantity", "Price", "Total", "Date", "Category", "Order", "Customer", "Sales", "Revenue"},
		rows,
	)
	got := Score(g)
	if got <= 0 || got > 1 {
		t.Fatalf("score = %v, want in (0,1]", got)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("fully rich grid should score 1.0, got %v", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	g := New([]string{"Item", "Qty"}, [][]string{{"Burger", "3"}, {"Fries", ""}})
	a := Score(g)
	b := Score(g)
	if a != b {
		t.Errorf("score not deterministic: %v vs %v", a, b)
	}
}

func TestScorePenalizesPlaceholders(t *testing.T) {
	real := New([]string{"Item", "Qty"}, [][]string{{"a", "1"}})
	anon := New([]string{"", ""}, [][]string{{"a", "1"}})
	if Score(anon) >= Score(real) {
		t.Error("placeholder-named grid should score below named grid")
	}
}
