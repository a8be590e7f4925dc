// =============================================================================
// POS Ingest - Quality & Insight Summarizer
// =============================================================================
//
// Aggregates the transformed records into a data quality score and a set of
// descriptive insights: revenue summary, top items, peak hours, category
// performance, revenue outliers, and discount opportunities. Pure functions
// over the record slice; nothing here touches the grid or the wire.
//
// =============================================================================

package insights

import (
	"math"
	"sort"
	"strings"

	"github.com/adityabandi/posingest/internal/types"
)

const (
	topItemLimit     = 5
	peakHourLimit    = 3
	opportunityLimit = 5
	iqrFactor        = 1.5
	discountFloor    = 20.0
)

// Summary is the headline revenue block.
type Summary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	AverageTransaction float64 `json:"average_transaction"`
	TransactionCount   int     `json:"transaction_count"`
	UniqueItems        int     `json:"unique_items"`
}

// ItemStat is one top-seller entry.
type ItemStat struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// HourRevenue is revenue bucketed by hour of day.
type HourRevenue struct {
	Hour    int     `json:"hour"`
	Revenue float64 `json:"revenue"`
}

// CategoryRevenue is revenue bucketed by (possibly inferred) category.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// Outlier flags a record whose revenue falls outside the IQR fences.
type Outlier struct {
	RecordIndex int     `json:"record_index"`
	Revenue     float64 `json:"revenue"`
}

// Opportunity flags a heavily discounted item.
type Opportunity struct {
	Item               string  `json:"item"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// Insights is the full descriptive block attached to a successful ingestion.
type Insights struct {
	Summary             Summary           `json:"summary"`
	TopItems            []ItemStat        `json:"top_items"`
	HourlyRevenue       []HourRevenue     `json:"hourly_revenue,omitempty"`
	PeakHours           []HourRevenue     `json:"peak_hours,omitempty"`
	CategoryPerformance []CategoryRevenue `json:"category_performance,omitempty"`
	Outliers            []Outlier         `json:"outliers,omitempty"`
	Opportunities       []Opportunity     `json:"opportunities,omitempty"`
}

// Build computes every insight block from the records.
func Build(records []types.Record) Insights {
	ins := Insights{
		Summary:  summarize(records),
		TopItems: topItems(records),
	}
	ins.HourlyRevenue = hourlyRevenue(records)
	ins.PeakHours = peakHours(ins.HourlyRevenue)
	ins.CategoryPerformance = categoryPerformance(records)
	ins.Outliers = revenueOutliers(records)
	ins.Opportunities = discountOpportunities(records)
	return ins
}

// revenue picks the best available monetary signal for one record.
func revenue(rec types.Record) (float64, bool) {
	for _, key := range []string{
		string(types.FieldTotalAmount), string(types.FieldGrossAmount),
		"calculated_total", string(types.FieldNetAmount),
	} {
		if f, ok := rec[key].(float64); ok {
			return f, true
		}
	}
	return 0, false
}

func summarize(records []types.Record) Summary {
	s := Summary{}
	items := map[string]bool{}
	for _, rec := range records {
		if f, ok := revenue(rec); ok {
			s.TotalRevenue += f
			s.TransactionCount++
		}
		if name, ok := rec[string(types.FieldItemName)].(string); ok {
			items[name] = true
		}
	}
	s.UniqueItems = len(items)
	if s.TransactionCount > 0 {
		s.AverageTransaction = s.TotalRevenue / float64(s.TransactionCount)
	}
	return s
}

func topItems(records []types.Record) []ItemStat {
	byName := map[string]*ItemStat{}
	for _, rec := range records {
		name, ok := rec[string(types.FieldItemName)].(string)
		if !ok {
			continue
		}
		st := byName[name]
		if st == nil {
			st = &ItemStat{Name: name}
			byName[name] = st
		}
		if q, ok := rec[string(types.FieldQuantity)].(float64); ok {
			st.Quantity += q
		} else {
			st.Quantity++
		}
		if f, ok := revenue(rec); ok {
			st.Revenue += f
		}
	}
	out := make([]ItemStat, 0, len(byName))
	for _, st := range byName {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topItemLimit {
		out = out[:topItemLimit]
	}
	return out
}

func hourlyRevenue(records []types.Record) []HourRevenue {
	byHour := map[int]float64{}
	for _, rec := range records {
		h, ok := rec["hour"].(int)
		if !ok {
			continue
		}
		if f, ok := revenue(rec); ok {
			byHour[h] += f
		}
	}
	out := make([]HourRevenue, 0, len(byHour))
	for h, f := range byHour {
		out = append(out, HourRevenue{Hour: h, Revenue: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func peakHours(hourly []HourRevenue) []HourRevenue {
	if len(hourly) == 0 {
		return nil
	}
	peaks := make([]HourRevenue, len(hourly))
	copy(peaks, hourly)
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Revenue != peaks[j].Revenue {
			return peaks[i].Revenue > peaks[j].Revenue
		}
		return peaks[i].Hour < peaks[j].Hour
	})
	if len(peaks) > peakHourLimit {
		peaks = peaks[:peakHourLimit]
	}
	return peaks
}

func categoryPerformance(records []types.Record) []CategoryRevenue {
	byCat := map[string]float64{}
	for _, rec := range records {
		cat, ok := rec[string(types.FieldCategory)].(string)
		if !ok {
			cat, ok = rec["inferred_category"].(string)
		}
		if !ok || strings.TrimSpace(cat) == "" {
			continue
		}
		if f, okR := revenue(rec); okR {
			byCat[cat] += f
		}
	}
	out := make([]CategoryRevenue, 0, len(byCat))
	for cat, f := range byCat {
		out = append(out, CategoryRevenue{Category: cat, Revenue: f})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// revenueOutliers applies the 1.5x IQR rule over per-record revenue.
func revenueOutliers(records []types.Record) []Outlier {
	type point struct {
		index int
		value float64
	}
	var points []point
	for i, rec := range records {
		if f, ok := revenue(rec); ok {
			points = append(points, point{i, f})
		}
	}
	if len(points) < 4 {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.value
	}
	sort.Float64s(values)
	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lo := q1 - iqrFactor*iqr
	hi := q3 + iqrFactor*iqr

	var out []Outlier
	for _, p := range points {
		if p.value < lo || p.value > hi {
			out = append(out, Outlier{RecordIndex: p.index, Revenue: p.value})
		}
	}
	return out
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func discountOpportunities(records []types.Record) []Opportunity {
	best := map[string]float64{}
	for _, rec := range records {
		dp, ok := rec["discount_percentage"].(float64)
		if !ok || dp <= discountFloor {
			continue
		}
		name, ok := rec[string(types.FieldItemName)].(string)
		if !ok {
			continue
		}
		if dp > best[name] {
			best[name] = dp
		}
	}
	out := make([]Opportunity, 0, len(best))
	for name, dp := range best {
		out = append(out, Opportunity{Item: name, DiscountPercentage: dp})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DiscountPercentage != out[j].DiscountPercentage {
			return out[i].DiscountPercentage > out[j].DiscountPercentage
		}
		return out[i].Item < out[j].Item
	})
	if len(out) > opportunityLimit {
		out = out[:opportunityLimit]
	}
	return out
}
