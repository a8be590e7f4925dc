// =============================================================================
// POS Ingest - Record Transformer & Validator
// =============================================================================
//
// Turns the mapped grid into typed output records: per-field coercion,
// system-specific item-name cleanup, category normalization, enrichment, and
// the keep/skip validation rule. Row-level problems never abort the run; a
// bad row is skipped and counted.
//
// =============================================================================

package transform

import (
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

// Apply transforms every grid row. posSystem selects item-name cleanup rules;
// pass the classifier's label.
func Apply(g *grid.Grid, cm types.ColumnMapping, posSystem string) ([]types.Record, types.ProcessingMetadata) {
	records := []types.Record{}
	meta := types.ProcessingMetadata{}
	enrichments := map[string]bool{}

	colIndex := make(map[string]int, g.NumCols())
	for i, name := range g.ColumnNames() {
		colIndex[name] = i
	}

	for r := 0; r < g.NumRows(); r++ {
		rec := types.Record{types.OriginalIndexKey: r}
		for field, colName := range cm.Fields {
			idx, ok := colIndex[colName]
			if !ok {
				continue
			}
			value, corrected := coerceField(field, g.Cell(idx, r), posSystem)
			rec[string(field)] = value
			if corrected {
				meta.ValueCorrections++
			}
		}
		enrich(rec, enrichments)
		if !valid(rec) {
			meta.RecordsSkipped++
			continue
		}
		records = append(records, rec)
		meta.RecordsProcessed++
	}

	meta.EnrichmentsApplied = make([]string, 0, len(enrichments))
	for _, name := range enrichmentNames {
		if enrichments[name] {
			meta.EnrichmentsApplied = append(meta.EnrichmentsApplied, name)
		}
	}
	return records, meta
}

// coerceField converts one cell to its typed record value. The second return
// reports whether the raw text needed correcting on the way.
func coerceField(field types.SemanticField, v grid.Value, posSystem string) (any, bool) {
	if v.IsNull() {
		return nil, false
	}
	if types.IsNumericField(field) {
		if f, ok := v.Float(); ok {
			return f, false
		}
		if f, ok := CoerceNumeric(v.Text()); ok {
			return f, true
		}
		return nil, false
	}
	switch field {
	case types.FieldDate:
		if t, err := dateparse.ParseAny(v.Text()); err == nil {
			return t.Format("2006-01-02"), false
		}
		return v.Text(), false
	case types.FieldTime:
		if t, err := dateparse.ParseAny(v.Text()); err == nil {
			return t.Format("15:04:05"), false
		}
		return v.Text(), false
	case types.FieldItemName:
		cleaned := CleanItemName(v.Text(), posSystem)
		if cleaned == "" {
			return nil, true
		}
		return cleaned, cleaned != v.Text()
	case types.FieldCategory:
		normalized := NormalizeCategory(v.Text())
		return normalized, normalized != v.Text()
	default:
		return v.Text(), false
	}
}

// CoerceNumeric parses POS-style numeric text: currency symbols and
// thousands separators are stripped, parentheses mean negative, a trailing
// percent sign divides by 100.
func CoerceNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSuffix(s, "%")
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '$', '€', '£', '¥', ',', ' ':
		default:
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	if percent {
		f /= 100
	}
	return f, true
}

// CleanItemName strips system-specific noise from an item name and collapses
// internal whitespace. Returns "" when nothing survives.
func CleanItemName(name, posSystem string) string {
	switch posSystem {
	case "square":
		name = strings.ReplaceAll(name, "[MODIFIER]", "")
		name = strings.ReplaceAll(name, "(Modifier)", "")
	case "toast":
		name = strings.TrimLeft(name, "*")
	case "clover":
		if i := strings.LastIndex(name, " ("); i > 0 && strings.HasSuffix(name, ")") {
			name = name[:i]
		}
	}
	return strings.Join(strings.Fields(name), " ")
}

// categoryAliases fold common vendor spellings into the canonical set.
var categoryAliases = map[string]string{
	"Apps":     "Appetizers",
	"Starters": "Appetizers",
	"Entree":   "Entrees",
	"Main":     "Entrees",
	"Mains":    "Entrees",
	"Beverage": "Beverages",
	"Drinks":   "Beverages",
	"Dessert":  "Desserts",
	"Sweets":   "Desserts",
}

// NormalizeCategory title-cases the category and folds known aliases.
func NormalizeCategory(s string) string {
	titled := titleCase(strings.TrimSpace(s))
	if canonical, ok := categoryAliases[titled]; ok {
		return canonical
	}
	return titled
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// =============================================================================
// VALIDATION
// =============================================================================

// valid keeps a record that identifies what was sold (item name or order id)
// and carries at least one non-zero monetary or quantity signal.
func valid(rec types.Record) bool {
	identified := truthy(rec[string(types.FieldItemName)]) ||
		truthy(rec[string(types.FieldOrderID)])
	if !identified {
		return false
	}
	for _, f := range []types.SemanticField{
		types.FieldQuantity, types.FieldTotalAmount, types.FieldUnitPrice,
		types.FieldGrossAmount, types.FieldNetAmount,
	} {
		if truthy(rec[string(f)]) {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}
