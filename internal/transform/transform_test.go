package transform

import (
	"testing"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.5", 1234.5, true},
		{"$1,234.50", 1234.50, true},
		{"€45,00", 4500, true}, // comma is treated as a thousands separator
		{"(12.50)", -12.50, true},
		{"15%", 0.15, true},
		{"($200)", -200, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"twelve", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceNumeric(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CoerceNumeric(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanItemName(t *testing.T) {
	tests := []struct {
		name   string
		system string
		want   string
	}{
		{"Burger [MODIFIER]", "square", "Burger"},
		{"Latte (Modifier)", "square", "Latte"},
		{"**Wings", "toast", "Wings"},
		{"Pasta (large)", "clover", "Pasta"},
		{"Pasta (large)", "unknown", "Pasta (large)"},
		{"  Double   Espresso ", "unknown", "Double Espresso"},
		{"[MODIFIER]", "square", ""},
	}
	for _, tt := range tests {
		if got := CleanItemName(tt.name, tt.system); got != tt.want {
			t.Errorf("CleanItemName(%q, %s) = %q, want %q", tt.name, tt.system, got, tt.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct{ in, want string }{
		{"apps", "Appetizers"},
		{"MAINS", "Entrees"},
		{"drinks", "Beverages"},
		{"sweets", "Desserts"},
		{"sides", "Sides"},
		{"hot food", "Hot Food"},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func salesMapping() types.ColumnMapping {
	return types.ColumnMapping{
		Fields: map[types.SemanticField]string{
			types.FieldItemName:    "Item",
			types.FieldQuantity:    "Qty",
			types.FieldUnitPrice:   "Price",
			types.FieldGrossAmount: "Gross",
			types.FieldNetAmount:   "Net",
			types.FieldDate:        "Date",
			types.FieldTime:        "Time",
		},
	}
}

func salesGrid() *grid.Grid {
	g := grid.New(
		[]string{"Item", "Qty", "Price", "Gross", "Net", "Date", "Time"},
		[][]string{
			{"Burger", "2", "9.99", "19.98", "15.98", "2024-03-16", "12:30:00"},
			{"Latte", "1", "4.50", "4.50", "4.50", "2024-03-16", "08:05:00"},
			{"", "", "", "", "", "", ""},
		},
	)
	g.Clean()
	return g
}

func TestApplyTransformsAndEnriches(t *testing.T) {
	records, meta := Apply(salesGrid(), salesMapping(), "unknown")

	if meta.RecordsProcessed != 2 {
		t.Fatalf("processed = %d, want 2 (records %v)", meta.RecordsProcessed, records)
	}
	r := records[0]
	if r["item_name"] != "Burger" {
		t.Errorf("item_name = %v", r["item_name"])
	}
	if r["quantity"] != 2.0 {
		t.Errorf("quantity = %v (%T), want 2.0", r["quantity"], r["quantity"])
	}
	if r["day_of_week"] != "Saturday" || r["is_weekend"] != true {
		t.Errorf("calendar enrichment = %v / %v", r["day_of_week"], r["is_weekend"])
	}
	if r["quarter"] != "Q1" {
		t.Errorf("quarter = %v, want Q1", r["quarter"])
	}
	if r["day_part"] != "Lunch" || r["is_peak_hour"] != true {
		t.Errorf("day part = %v, peak = %v", r["day_part"], r["is_peak_hour"])
	}
	// No total column: calculated from qty * price.
	if r["calculated_total"] != 19.98 {
		t.Errorf("calculated_total = %v, want 19.98", r["calculated_total"])
	}
	dp, ok := r["discount_percentage"].(float64)
	if !ok || dp < 20.01 || dp > 20.03 {
		t.Errorf("discount_percentage = %v, want ~20.02", r["discount_percentage"])
	}
	if r["inferred_category"] != "Sandwiches" {
		t.Errorf("inferred_category = %v, want Sandwiches", r["inferred_category"])
	}
	if records[1]["day_part"] != "Breakfast" {
		t.Errorf("second record day part = %v, want Breakfast", records[1]["day_part"])
	}
	if records[1]["is_peak_hour"] != false {
		t.Errorf("08:05 should not be a peak hour")
	}
	if r[types.OriginalIndexKey] != 0 {
		t.Errorf("original index = %v, want 0", r[types.OriginalIndexKey])
	}
}

func TestInferredCategoryKeywords(t *testing.T) {
	tests := []struct{ item, want string }{
		{"Chicken Caesar", "Salads"}, // salad tokens outrank entree tokens
		{"Greek Bowl", "Salads"},
		{"Fettuccine Alfredo", "Pasta"},
		{"Dessert Sampler", "Desserts"},
		{"Mystery Box", "Other"},
	}
	for _, tt := range tests {
		r := types.Record{"item_name": tt.item}
		enrichInferredCategory(r)
		if r["inferred_category"] != tt.want {
			t.Errorf("%s: inferred %v, want %s", tt.item, r["inferred_category"], tt.want)
		}
	}
}

func TestDiscountPercentageSkipsZeroAmounts(t *testing.T) {
	tests := []struct {
		name  string
		gross float64
		net   float64
		want  bool
	}{
		{"zero net is absence, not a full discount", 10.0, 0, false},
		{"zero gross", 0, 8.0, false},
		{"both present", 10.0, 8.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.Record{"gross_amount": tt.gross, "net_amount": tt.net}
			if got := enrichDiscountPercentage(r); got != tt.want {
				t.Fatalf("applied = %v, want %v", got, tt.want)
			}
			if _, present := r["discount_percentage"]; present != tt.want {
				t.Errorf("discount_percentage present = %v, want %v", present, tt.want)
			}
		})
	}

	r := types.Record{"gross_amount": 10.0, "net_amount": 8.0}
	enrichDiscountPercentage(r)
	if dp := r["discount_percentage"].(float64); dp < 19.99 || dp > 20.01 {
		t.Errorf("discount_percentage = %v, want 20", dp)
	}
}

func TestApplySkipsInvalidRows(t *testing.T) {
	g := grid.New(
		[]string{"Item", "Qty"},
		[][]string{
			{"Burger", "2"}, // valid
			{"", "3"},       // no identity
			{"Fries", ""},   // no measure
			{"Latte", "0"},  // zero measure
		},
	)
	g.Clean()
	cm := types.ColumnMapping{Fields: map[types.SemanticField]string{
		types.FieldItemName: "Item",
		types.FieldQuantity: "Qty",
	}}
	records, meta := Apply(g, cm, "unknown")

	if meta.RecordsProcessed != 1 || meta.RecordsSkipped != 3 {
		t.Fatalf("processed/skipped = %d/%d, want 1/3", meta.RecordsProcessed, meta.RecordsSkipped)
	}
	if records[0]["item_name"] != "Burger" {
		t.Errorf("kept record = %v", records[0])
	}
}

func TestOrderIDSatisfiesIdentity(t *testing.T) {
	g := grid.New(
		[]string{"Order ID", "Total"},
		[][]string{{"A-1001", "42.00"}},
	)
	g.Clean()
	cm := types.ColumnMapping{Fields: map[types.SemanticField]string{
		types.FieldOrderID:     "Order ID",
		types.FieldTotalAmount: "Total",
	}}
	_, meta := Apply(g, cm, "unknown")
	if meta.RecordsProcessed != 1 {
		t.Fatalf("processed = %d, want 1", meta.RecordsProcessed)
	}
}

func TestUnparseableNumericBecomesNil(t *testing.T) {
	g := grid.New(
		[]string{"Item", "Qty", "Gross"},
		[][]string{
			{"Burger", "2", "error"},
			{"Fries", "1", "3.49"},
		},
	)
	cm := types.ColumnMapping{Fields: map[types.SemanticField]string{
		types.FieldItemName:    "Item",
		types.FieldQuantity:    "Qty",
		types.FieldGrossAmount: "Gross",
	}}
	records, _ := Apply(g, cm, "unknown")

	if records[0]["gross_amount"] != nil {
		t.Errorf("gross_amount = %v, want nil for unparseable text", records[0]["gross_amount"])
	}
	if records[1]["gross_amount"] != 3.49 {
		t.Errorf("gross_amount = %v, want 3.49", records[1]["gross_amount"])
	}
}
