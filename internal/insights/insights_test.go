package insights

import (
	"math"
	"testing"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

func rec(fields map[string]any) types.Record {
	r := types.Record{}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

func sampleRecords() []types.Record {
	return []types.Record{
		rec(map[string]any{"item_name": "Burger", "quantity": 3.0, "total_amount": 29.97, "hour": 12, "category": "Sandwiches"}),
		rec(map[string]any{"item_name": "Burger", "quantity": 2.0, "total_amount": 19.98, "hour": 12, "category": "Sandwiches"}),
		rec(map[string]any{"item_name": "Latte", "quantity": 1.0, "total_amount": 4.50, "hour": 8, "inferred_category": "Beverages"}),
		rec(map[string]any{"item_name": "Steak", "quantity": 1.0, "total_amount": 42.00, "hour": 19, "category": "Entrees"}),
	}
}

func TestBuildSummary(t *testing.T) {
	ins := Build(sampleRecords())

	s := ins.Summary
	if s.TransactionCount != 4 {
		t.Errorf("transaction count = %d, want 4", s.TransactionCount)
	}
	if s.UniqueItems != 3 {
		t.Errorf("unique items = %d, want 3", s.UniqueItems)
	}
	want := 29.97 + 19.98 + 4.50 + 42.00
	if diff := s.TotalRevenue - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("total revenue = %v, want %v", s.TotalRevenue, want)
	}
}

func TestTopItemsOrdering(t *testing.T) {
	ins := Build(sampleRecords())
	if len(ins.TopItems) != 3 {
		t.Fatalf("top items = %v", ins.TopItems)
	}
	if ins.TopItems[0].Name != "Burger" || ins.TopItems[0].Quantity != 5.0 {
		t.Errorf("top item = %+v, want Burger x5", ins.TopItems[0])
	}
	// Latte and Steak tie at quantity 1; name order breaks the tie.
	if ins.TopItems[1].Name != "Latte" || ins.TopItems[2].Name != "Steak" {
		t.Errorf("tie break = %v / %v", ins.TopItems[1].Name, ins.TopItems[2].Name)
	}
}

func TestPeakHours(t *testing.T) {
	ins := Build(sampleRecords())
	if len(ins.PeakHours) != 3 {
		t.Fatalf("peak hours = %v", ins.PeakHours)
	}
	if ins.PeakHours[0].Hour != 12 {
		t.Errorf("top hour = %d, want 12", ins.PeakHours[0].Hour)
	}
	if ins.PeakHours[1].Hour != 19 {
		t.Errorf("second hour = %d, want 19", ins.PeakHours[1].Hour)
	}
}

func TestCategoryPerformanceUsesInferred(t *testing.T) {
	ins := Build(sampleRecords())
	found := false
	for _, c := range ins.CategoryPerformance {
		if c.Category == "Beverages" && c.Revenue == 4.50 {
			found = true
		}
	}
	if !found {
		t.Errorf("inferred category missing from %v", ins.CategoryPerformance)
	}
}

func TestRevenueOutliers(t *testing.T) {
	records := []types.Record{}
	for i := 0; i < 10; i++ {
		records = append(records, rec(map[string]any{"item_name": "Coffee", "total_amount": 5.0}))
	}
	records = append(records, rec(map[string]any{"item_name": "Catering", "total_amount": 500.0}))

	ins := Build(records)
	if len(ins.Outliers) != 1 {
		t.Fatalf("outliers = %v, want exactly the catering row", ins.Outliers)
	}
	if ins.Outliers[0].RecordIndex != 10 || ins.Outliers[0].Revenue != 500.0 {
		t.Errorf("outlier = %+v", ins.Outliers[0])
	}
}

func TestOutliersNeedEnoughPoints(t *testing.T) {
	records := []types.Record{
		rec(map[string]any{"total_amount": 1.0}),
		rec(map[string]any{"total_amount": 1000.0}),
	}
	if ins := Build(records); len(ins.Outliers) != 0 {
		t.Errorf("outliers from 2 points = %v, want none", ins.Outliers)
	}
}

func TestDiscountOpportunities(t *testing.T) {
	records := []types.Record{
		rec(map[string]any{"item_name": "Burger", "total_amount": 10.0, "discount_percentage": 35.0}),
		rec(map[string]any{"item_name": "Burger", "total_amount": 10.0, "discount_percentage": 25.0}),
		rec(map[string]any{"item_name": "Latte", "total_amount": 4.0, "discount_percentage": 5.0}),
	}
	ins := Build(records)
	if len(ins.Opportunities) != 1 {
		t.Fatalf("opportunities = %v", ins.Opportunities)
	}
	if ins.Opportunities[0].Item != "Burger" || ins.Opportunities[0].DiscountPercentage != 35.0 {
		t.Errorf("opportunity = %+v", ins.Opportunities[0])
	}
}

func TestQualityScoreBounds(t *testing.T) {
	g := grid.New(
		[]string{"Item", "Qty"},
		[][]string{{"Burger", "2"}, {"Fries", "3"}},
	)
	meta := types.ProcessingMetadata{RecordsProcessed: 2}
	score := QualityScore(g, meta)
	if score <= 0 || score > 1 {
		t.Fatalf("score = %v, want in (0, 1]", score)
	}

	if QualityScore(grid.Empty(), types.ProcessingMetadata{}) != 0 {
		t.Error("empty grid must score 0")
	}
	if QualityScore(nil, types.ProcessingMetadata{}) != 0 {
		t.Error("nil grid must score 0")
	}

	half := types.ProcessingMetadata{RecordsProcessed: 1, RecordsSkipped: 1}
	if QualityScore(g, half) >= score {
		t.Error("skipped rows must lower the score")
	}
}

func TestQualityScoreCountsUnmappedNulls(t *testing.T) {
	full := grid.New(
		[]string{"Item", "Notes"},
		[][]string{{"Burger", "extra cheese"}, {"Fries", "no salt"}},
	)
	sparse := grid.New(
		[]string{"Item", "Notes"},
		[][]string{{"Burger", ""}, {"Fries", ""}},
	)
	meta := types.ProcessingMetadata{RecordsProcessed: 2}
	if QualityScore(sparse, meta) >= QualityScore(full, meta) {
		t.Error("null cells in any column must lower completeness")
	}
}

func TestQualityScoreConsistencyPenalty(t *testing.T) {
	// An all-digit text column takes the 0.7 consistency hit; without
	// processing metadata only completeness and consistency are averaged.
	g := grid.New(
		[]string{"Order ID", "Item"},
		[][]string{{"1001", "Burger"}, {"1002", "Fries"}, {"1003", "Cola"}},
	)
	want := (1.0 + (0.7+1.0)/2) / 2
	got := QualityScore(g, types.ProcessingMetadata{})
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestRecommendations(t *testing.T) {
	lowConf := types.POSAnalysis{Confidence: 0.4}
	recs := Recommend(lowConf, Insights{})
	if len(recs) == 0 || recs[0].Category != "data_quality" {
		t.Fatalf("recs = %+v, want detection advice first", recs)
	}

	ins := Build(sampleRecords())
	confident := types.POSAnalysis{Confidence: 0.9}
	recs = Recommend(confident, ins)
	for _, r := range recs {
		if r.Category == "data_quality" {
			t.Errorf("confident detection should not trigger %+v", r)
		}
	}
	// Average ticket for the sample is ~24, so no revenue advice either.
	for _, r := range recs {
		if r.Category == "revenue" {
			t.Errorf("unexpected revenue advice: %+v", r)
		}
	}
}
