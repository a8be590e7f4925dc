// =============================================================================
// POS Ingest - Grid Normalizer (Auto-Fix)
// =============================================================================
//
// This module repairs common structural defects in a freshly loaded Grid:
// misplaced header rows, embedded subtotal rows, combined date-time columns,
// and currency-formatted numeric columns.
//
// The four heuristics run in a fixed order and are individually toggleable.
// A heuristic that changes data appends a human-readable description to the
// fix log; one that does not apply is a silent no-op, never an error.
//
// =============================================================================

package autofix

import (
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/adityabandi/posingest/internal/grid"
)

// Options toggles individual heuristics. The zero value disables everything;
// use DefaultOptions for the standard pass.
type Options struct {
	FixHeaders   bool
	RemoveTotals bool
	SplitDates   bool
	FixCurrency  bool
}

// DefaultOptions enables every heuristic.
func DefaultOptions() Options {
	return Options{FixHeaders: true, RemoveTotals: true, SplitDates: true, FixCurrency: true}
}

// totalMarkers are the closed set of row labels that mark embedded
// subtotal/total rows. Matched case-insensitively against whole cell values.
var totalMarkers = map[string]bool{
	"total":       true,
	"subtotal":    true,
	"grand total": true,
	"sum:":        true,
	"total:":      true,
}

// headerKeywords promote a data row to header when any of its cells contains
// one of these tokens.
var headerKeywords = []string{"item", "product"}

// currencySymbols trigger the currency-normalization heuristic.
const currencySymbols = "$€£¥"

// Apply runs the enabled heuristics in order and returns the fix log:
// one entry per heuristic that actually changed data.
func Apply(g *grid.Grid, opts Options) []string {
	fixes := []string{}
	if g.IsEmpty() {
		return fixes
	}
	if opts.FixHeaders {
		if msg, ok := promoteHeaderRow(g); ok {
			fixes = append(fixes, msg)
		}
	}
	if opts.RemoveTotals {
		if msg, ok := removeTotalRows(g); ok {
			fixes = append(fixes, msg)
		}
	}
	if opts.SplitDates {
		fixes = append(fixes, splitDatetimeColumns(g)...)
	}
	if opts.FixCurrency {
		fixes = append(fixes, normalizeCurrencyColumns(g)...)
	}
	return fixes
}

// promoteHeaderRow moves the first data row into the header position when it
// is denser than the declared header and looks like a header itself.
func promoteHeaderRow(g *grid.Grid) (string, bool) {
	if g.NumRows() == 0 {
		return "", false
	}

	headerFilled := 0
	for _, name := range g.ColumnNames() {
		if name != "" && !strings.HasPrefix(name, "Column_") {
			headerFilled++
		}
	}
	row := g.Row(0)
	rowFilled := 0
	keyword := false
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		rowFilled++
		lower := strings.ToLower(v.Text())
		for _, kw := range headerKeywords {
			if strings.Contains(lower, kw) {
				keyword = true
			}
		}
	}
	if rowFilled <= headerFilled || !keyword {
		return "", false
	}

	for i, v := range row {
		name := strings.TrimSpace(v.Text())
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		g.SetColumnName(i, name)
	}
	drop := make([]bool, g.NumRows())
	drop[0] = true
	g.DropRows(drop)
	return "Moved headers from first row", true
}

// removeTotalRows drops rows whose value in the first offending textual
// column exactly matches a total marker. Applied once, on the first column
// with any match.
func removeTotalRows(g *grid.Grid) (string, bool) {
	for _, col := range g.Columns() {
		drop := make([]bool, len(col.Values))
		count := 0
		for r, v := range col.Values {
			if v.Kind() != grid.KindText {
				continue
			}
			if totalMarkers[strings.ToLower(strings.TrimSpace(v.Text()))] {
				drop[r] = true
				count++
			}
		}
		if count > 0 {
			g.DropRows(drop)
			return fmt.Sprintf("Removed %d total/subtotal rows", count), true
		}
	}
	return "", false
}

// splitDatetimeColumns splits any date/time-named column holding combined
// datetime values into separate <name>_date and <name>_time columns.
func splitDatetimeColumns(g *grid.Grid) []string {
	var fixes []string
	for _, name := range g.ColumnNames() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		col := g.Column(name)
		sample := col.FirstNonNull()
		if sample.IsNull() {
			continue
		}
		s := sample.Text()
		if !strings.Contains(s, " ") || !strings.Contains(s, ":") {
			continue
		}

		rows := len(col.Values)
		dates := make([]grid.Value, rows)
		times := make([]grid.Value, rows)
		parsed := 0
		for r, v := range col.Values {
			if v.IsNull() {
				dates[r], times[r] = grid.Null, grid.Null
				continue
			}
			t, err := dateparse.ParseAny(v.Text())
			if err != nil {
				dates[r], times[r] = grid.Null, grid.Null
				continue
			}
			parsed++
			dates[r] = grid.Text(t.Format("2006-01-02"))
			times[r] = grid.Text(t.Format("15:04:05"))
		}
		if float64(parsed) <= float64(rows)*0.5 {
			continue
		}

		g.AppendColumn(grid.Column{Name: name + "_date", Values: dates})
		g.AppendColumn(grid.Column{Name: name + "_time", Values: times})
		g.DropColumn(name)
		fixes = append(fixes, fmt.Sprintf("Split %s into date and time columns", name))
	}
	return fixes
}

// normalizeCurrencyColumns strips currency symbols from textual columns whose
// first sample carries one, then coerces the column to numeric.
func normalizeCurrencyColumns(g *grid.Grid) []string {
	var fixes []string
	for i := range g.Columns() {
		col := &g.Columns()[i]
		sample := col.FirstNonNull()
		if sample.Kind() != grid.KindText {
			continue
		}
		if !strings.ContainsAny(sample.Text(), currencySymbols) {
			continue
		}

		values := make([]grid.Value, len(col.Values))
		converted := false
		for r, v := range col.Values {
			if v.Kind() != grid.KindText {
				values[r] = v
				continue
			}
			if f, ok := grid.ParseLooseNumber(v.Text()); ok {
				values[r] = grid.Number(f)
				converted = true
			} else {
				values[r] = grid.Null
			}
		}
		if converted {
			g.ReplaceColumn(col.Name, values)
			fixes = append(fixes, fmt.Sprintf("Cleaned currency formatting in %s", col.Name))
		}
	}
	return fixes
}
