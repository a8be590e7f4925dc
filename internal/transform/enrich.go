// =============================================================================
// POS Ingest - Record Enrichment
// =============================================================================
//
// Derives calendar, day-part, financial, and category fields from the coerced
// record. Every enrichment is best-effort: missing inputs simply leave the
// derived field unset.
//
// =============================================================================

package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adityabandi/posingest/internal/types"
)

// enrichmentNames is the reporting order for ProcessingMetadata.
var enrichmentNames = []string{
	"calendar", "day_part", "calculated_total", "discount_percentage", "inferred_category",
}

// peakHours are the lunch and dinner rush hours.
var peakHours = map[int]bool{12: true, 13: true, 18: true, 19: true, 20: true}

func enrich(rec types.Record, applied map[string]bool) {
	if enrichCalendar(rec) {
		applied["calendar"] = true
	}
	if enrichDayPart(rec) {
		applied["day_part"] = true
	}
	if enrichCalculatedTotal(rec) {
		applied["calculated_total"] = true
	}
	if enrichDiscountPercentage(rec) {
		applied["discount_percentage"] = true
	}
	if enrichInferredCategory(rec) {
		applied["inferred_category"] = true
	}
}

func enrichCalendar(rec types.Record) bool {
	s, ok := rec[string(types.FieldDate)].(string)
	if !ok {
		return false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	rec["day_of_week"] = t.Weekday().String()
	rec["month"] = int(t.Month())
	rec["year"] = t.Year()
	rec["quarter"] = fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
	rec["is_weekend"] = t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	return true
}

func enrichDayPart(rec types.Record) bool {
	s, ok := rec[string(types.FieldTime)].(string)
	if !ok {
		return false
	}
	hour, ok := parseHour(s)
	if !ok {
		return false
	}
	rec["hour"] = hour
	rec["day_part"] = dayPart(hour)
	rec["is_peak_hour"] = peakHours[hour]
	return true
}

func parseHour(s string) (int, bool) {
	head, _, found := strings.Cut(s, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func dayPart(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return "Breakfast"
	case hour >= 11 && hour < 16:
		return "Lunch"
	case hour >= 16 && hour < 21:
		return "Dinner"
	case hour >= 21:
		return "Late Night"
	default:
		return "Overnight"
	}
}

// enrichCalculatedTotal computes quantity * unit price when no total was
// exported.
func enrichCalculatedTotal(rec types.Record) bool {
	if _, ok := rec[string(types.FieldTotalAmount)].(float64); ok {
		return false
	}
	qty, okQ := rec[string(types.FieldQuantity)].(float64)
	price, okP := rec[string(types.FieldUnitPrice)].(float64)
	if !okQ || !okP {
		return false
	}
	rec["calculated_total"] = qty * price
	return true
}

// enrichDiscountPercentage derives the spread between gross and net. A zero
// on either side means the export had no real pair to compare, not a 100%
// discount, so the field stays unset.
func enrichDiscountPercentage(rec types.Record) bool {
	gross, okG := rec[string(types.FieldGrossAmount)].(float64)
	net, okN := rec[string(types.FieldNetAmount)].(float64)
	if !okG || !okN || gross == 0 || net == 0 {
		return false
	}
	if gross < 0 {
		rec["discount_percentage"] = 0.0
		return true
	}
	rec["discount_percentage"] = (gross - net) / gross * 100
	return true
}

// categoryKeywords map item-name tokens to an inferred category, checked in
// declaration order.
var categoryKeywords = []struct {
	category string
	tokens   []string
}{
	{"Beverages", []string{"coffee", "tea", "soda", "juice", "water", "beer", "wine", "cocktail", "drink", "latte", "cappuccino", "espresso"}},
	{"Appetizers", []string{"appetizer", "starter", "wings", "nachos", "calamari", "bruschetta", "dip", "chips", "fries"}},
	{"Salads", []string{"salad", "caesar", "greek", "cobb", "greens"}},
	{"Sandwiches", []string{"sandwich", "burger", "wrap", "sub", "panini", "club"}},
	{"Pizza", []string{"pizza", "calzone", "flatbread"}},
	{"Pasta", []string{"pasta", "spaghetti", "linguine", "fettuccine", "penne", "ravioli", "lasagna"}},
	{"Entrees", []string{"steak", "chicken", "fish", "salmon", "shrimp", "beef", "pork", "lamb"}},
	{"Desserts", []string{"dessert", "cake", "pie", "ice cream", "cookie", "brownie", "cheesecake", "tiramisu"}},
	{"Breakfast", []string{"pancake", "waffle", "eggs", "bacon", "omelette", "french toast"}},
}

// enrichInferredCategory guesses a category from the item name when the
// export carries none.
func enrichInferredCategory(rec types.Record) bool {
	if _, ok := rec[string(types.FieldCategory)].(string); ok {
		return false
	}
	name, ok := rec[string(types.FieldItemName)].(string)
	if !ok {
		return false
	}
	lower := strings.ToLower(name)
	for _, ck := range categoryKeywords {
		for _, tok := range ck.tokens {
			if strings.Contains(lower, tok) {
				rec["inferred_category"] = ck.category
				return true
			}
		}
	}
	rec["inferred_category"] = "Other"
	return true
}
