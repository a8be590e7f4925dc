package pos

import (
	"math"
	"testing"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

func squareGrid() *grid.Grid {
	return grid.New(
		[]string{"Item", "Category", "Qty", "Gross Sales", "Net Sales", "Tax", "Date"},
		[][]string{
			{"Burger", "Entrees", "2", "19.98", "18.50", "1.48", "2024-03-15"},
			{"Latte", "Beverages", "1", "4.50", "4.20", "0.30", "2024-03-15"},
		},
	)
}

func TestClassifySquareExport(t *testing.T) {
	r := NewRegistry()
	a := r.Classify("square_items_2024.csv", squareGrid())

	if a.POSSystem != "square" {
		t.Fatalf("system = %q, want square (scores %+v)", a.POSSystem, a.AllScores)
	}
	if a.Confidence <= unknownFloor {
		t.Errorf("confidence = %v, want > %v", a.Confidence, unknownFloor)
	}
	if a.Confidence > maxConfidence {
		t.Errorf("confidence = %v exceeds cap %v", a.Confidence, maxConfidence)
	}
	if a.Matches.RequiredColumns != 3 {
		t.Errorf("required matches = %d, want 3", a.Matches.RequiredColumns)
	}
	if a.Matches.Filename == 0 {
		t.Error("filename pattern should have matched")
	}
	if a.DataType != types.DataTypeSales {
		t.Errorf("data type = %q, want sales", a.DataType)
	}
}

func TestClassifyIdentifiersMatchFilename(t *testing.T) {
	// The vendor name in the filename counts as an identifier hit and earns
	// the confidence boost even when the columns say nothing.
	g := grid.New(
		[]string{"Product", "Price"},
		[][]string{{"Burger", "9.99"}},
	)
	r := NewRegistry()
	a := r.Classify("square_daily_report.csv", g)

	sq := a.AllScores["square"]
	if sq.Matches.Identifiers != 1 {
		t.Fatalf("identifier matches = %d, want 1 (matches %+v)", sq.Matches.Identifiers, sq.Matches)
	}
	if want := weightIdent + 0.15; math.Abs(sq.Score-want) > 1e-9 {
		t.Errorf("square score = %v, want %v (one identifier hit plus boost)", sq.Score, want)
	}
	// Not enough evidence to clear the floor, but square still outscores
	// column-only partial matches like clover's "price".
	if a.POSSystem != Unknown {
		t.Errorf("system = %q, want %q", a.POSSystem, Unknown)
	}
	if cl := a.AllScores["clover"]; sq.Score <= cl.Score {
		t.Errorf("square %v should outscore clover %v", sq.Score, cl.Score)
	}
}

func TestClassifyDateFormatColumnTokens(t *testing.T) {
	g := grid.New(
		[]string{"Item", "Quantity", "Gross", "Order Date"},
		[][]string{{"Burger", "2", "19.98", "2024-03-15"}},
	)
	r := NewRegistry()
	a := r.Classify("toast_sales_summary.csv", g)

	if a.POSSystem != "toast" {
		t.Fatalf("system = %q, want toast (scores %+v)", a.POSSystem, a.AllScores)
	}
	// "Order Date" carries both the "date" and "order date" tokens.
	if a.Matches.DateFormats != 2 {
		t.Errorf("date format matches = %d, want 2", a.Matches.DateFormats)
	}
	if a.Matches.Identifiers != 1 {
		t.Errorf("identifier matches = %d, want 1", a.Matches.Identifiers)
	}
	if a.Confidence != maxConfidence {
		t.Errorf("confidence = %v, want capped at %v", a.Confidence, maxConfidence)
	}
}

func TestClassifyNeutralGridIsUnknown(t *testing.T) {
	g := grid.New(
		[]string{"Alpha", "Beta", "Gamma"},
		[][]string{{"a", "b", "c"}},
	)
	r := NewRegistry()
	a := r.Classify("data.csv", g)

	if a.POSSystem != Unknown {
		t.Fatalf("system = %q, want %q", a.POSSystem, Unknown)
	}
	if a.DataType != types.DataTypeOther {
		t.Errorf("data type = %q, want other", a.DataType)
	}
	if len(a.AllScores) != len(NewRegistry().Signatures()) {
		t.Errorf("all scores has %d entries, want one per signature", len(a.AllScores))
	}
}

func TestClassifyDeterministic(t *testing.T) {
	r := NewRegistry()
	first := r.Classify("square_items_2024.csv", squareGrid())
	for i := 0; i < 5; i++ {
		again := r.Classify("square_items_2024.csv", squareGrid())
		if again.POSSystem != first.POSSystem || again.Confidence != first.Confidence {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestDeliverySystemDataType(t *testing.T) {
	g := grid.New(
		[]string{"Item", "Subtotal", "Commission", "Dasher", "Delivery Fee"},
		[][]string{{"Pad Thai", "14.00", "2.80", "M. Ortiz", "3.99"}},
	)
	r := NewRegistry()
	a := r.Classify("doordash_payout_march.csv", g)

	if a.POSSystem != "doordash" {
		t.Fatalf("system = %q, want doordash (scores %+v)", a.POSSystem, a.AllScores)
	}
	if a.DataType != types.DataTypeDelivery {
		t.Errorf("data type = %q, want delivery", a.DataType)
	}
}

func TestInferDataTypeKeywords(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    types.DataType
	}{
		{"sales", []string{"item", "qty", "price", "total"}, types.DataTypeSales},
		{"inventory", []string{"sku", "on hand", "supplier"}, types.DataTypeInventory},
		{"reservations", []string{"guests", "party", "table"}, types.DataTypeReservations},
		{"other", []string{"alpha", "beta"}, types.DataTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferDataType(Unknown, tt.columns); got != tt.want {
				t.Errorf("inferDataType(%v) = %q, want %q", tt.columns, got, tt.want)
			}
		})
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()
	custom := Signature{
		Name:            "chowbot",
		Identifiers:     []string{"chowbot"},
		RequiredColumns: []string{"dish", "units", "takings"},
		FilePatterns:    []string{"chowbot_"},
		ConfidenceBoost: 0.2,
	}
	if err := r.Add(custom); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(custom); err == nil {
		t.Error("duplicate signature should be rejected")
	}
	if err := r.Add(Signature{Name: ""}); err == nil {
		t.Error("unnamed signature should be rejected")
	}
	if err := r.Add(Signature{Name: "ChowBot2"}); err == nil {
		t.Error("mixed-case name should be rejected")
	}

	g := grid.New(
		[]string{"Dish", "Units", "Takings"},
		[][]string{{"Ramen", "3", "42.00"}},
	)
	a := r.Classify("chowbot_week12.csv", g)
	if a.POSSystem != "chowbot" {
		t.Errorf("system = %q, want chowbot (scores %+v)", a.POSSystem, a.AllScores)
	}
}
