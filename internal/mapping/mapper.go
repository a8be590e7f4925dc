// =============================================================================
// POS Ingest - Column Semantic Mapper
// =============================================================================
//
// Maps the loaded grid's arbitrary column names onto the fixed semantic
// vocabulary. Resolution order per column:
//
//   1. the detected system's literal override table, when one exists
//   2. the generic token rules, first match in priority order
//   3. statistics fallback: a text column that mostly parses as dates maps
//      to "date" when nothing else claimed it
//
// When two columns resolve to the same field, the later column wins and the
// earlier one joins the unmapped list.
//
// =============================================================================

package mapping

import (
	"strings"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

// rule is one generic name-pattern rule. Tokens match by substring
// containment against the lowercased column name.
type rule struct {
	field  types.SemanticField
	tokens []string
}

// genericRules is consulted in order; the first rule with a matching token
// claims the column.
var genericRules = []rule{
	{types.FieldItemName, []string{"item", "product", "dish", "menu item", "sku", "description"}},
	{types.FieldQuantity, []string{"quantity", "qty", "count", "units", "sold"}},
	{types.FieldUnitPrice, []string{"unit price", "price", "rate"}},
	{types.FieldGrossAmount, []string{"gross"}},
	{types.FieldNetAmount, []string{"net"}},
	{types.FieldTotalAmount, []string{"total", "amount", "extended", "line total", "subtotal"}},
	{types.FieldTaxAmount, []string{"tax", "vat"}},
	{types.FieldTipAmount, []string{"tip", "gratuity"}},
	{types.FieldDiscountAmount, []string{"discount", "comp", "promo"}},
	{types.FieldCost, []string{"cogs", "unit cost", "cost"}},
	{types.FieldDate, []string{"date", "day"}},
	{types.FieldTime, []string{"time", "hour"}},
	{types.FieldSubcategory, []string{"subcategory", "sub category", "sub-category"}},
	{types.FieldCategory, []string{"category", "department", "group", "class", "type"}},
	{types.FieldServerName, []string{"server", "employee", "staff", "cashier"}},
	{types.FieldCustomerName, []string{"customer", "guest", "patron"}},
	{types.FieldTableNumber, []string{"table"}},
	{types.FieldLocation, []string{"location", "store", "branch", "outlet"}},
	{types.FieldPaymentMethod, []string{"payment", "tender"}},
	{types.FieldCardType, []string{"card"}},
	{types.FieldOrderID, []string{"order id", "transaction id", "order number", "order", "check"}},
	{types.FieldModifier, []string{"modifier", "add on", "add-on", "extra"}},
}

// systemOverrides hold exact column-name mappings for systems whose export
// headers are stable. Keys are the literal header text.
var systemOverrides = map[string]map[string]types.SemanticField{
	"square": {
		"Item":          types.FieldItemName,
		"Category":      types.FieldCategory,
		"Qty":           types.FieldQuantity,
		"Gross Sales":   types.FieldGrossAmount,
		"Net Sales":     types.FieldNetAmount,
		"Tax":           types.FieldTaxAmount,
		"Discounts":     types.FieldDiscountAmount,
		"Date":          types.FieldDate,
		"Time":          types.FieldTime,
		"Location":      types.FieldLocation,
		"Device Name":   types.FieldRegister,
		"Card Brand":    types.FieldCardType,
		"Customer Name": types.FieldCustomerName,
	},
	"toast": {
		"Menu Item":       types.FieldItemName,
		"Menu Group":      types.FieldCategory,
		"Qty":             types.FieldQuantity,
		"Net Price":       types.FieldNetAmount,
		"Tax":             types.FieldTaxAmount,
		"Gratuity":        types.FieldTipAmount,
		"Discount Amount": types.FieldDiscountAmount,
		"Server":          types.FieldServerName,
		"Table":           types.FieldTableNumber,
		"Check Number":    types.FieldCheckID,
		"Sent Date":       types.FieldDate,
		"Order Id":        types.FieldOrderID,
	},
	"clover": {
		"Name":          types.FieldItemName,
		"Revenue Class": types.FieldCategory,
		"Quantity":      types.FieldQuantity,
		"Price":         types.FieldUnitPrice,
		"Tax Amount":    types.FieldTaxAmount,
		"Tip":           types.FieldTipAmount,
		"Tender Type":   types.FieldPaymentMethod,
		"Employee":      types.FieldServerName,
		"Order Date":    types.FieldDate,
	},
}

// Map resolves every column of the grid. posSystem selects the override
// table; pass the classifier's label (including "unknown").
func Map(g *grid.Grid, posSystem string) types.ColumnMapping {
	cm := types.ColumnMapping{
		Fields:          make(map[types.SemanticField]string),
		Analysis:        make(map[string]types.ColumnAnalysis),
		UnmappedColumns: []string{},
	}
	overrides := systemOverrides[posSystem]

	claimed := make(map[string]types.SemanticField, g.NumCols())
	for i := range g.Columns() {
		col := &g.Columns()[i]
		field := resolveColumn(col.Name, overrides)
		if field != "" {
			claimed[col.Name] = field
			cm.Fields[field] = col.Name
		}
		cm.Analysis[col.Name] = types.ColumnAnalysis{
			MappedTo:     field,
			Statistics:   computeStats(col),
			SampleValues: sampleStrings(col),
		}
	}

	// Statistics fallback for a missing date column.
	if _, ok := cm.Fields[types.FieldDate]; !ok {
		for _, name := range g.ColumnNames() {
			if claimed[name] != "" {
				continue
			}
			if a := cm.Analysis[name]; a.Statistics.LikelyDatetime {
				claimed[name] = types.FieldDate
				cm.Fields[types.FieldDate] = name
				a.MappedTo = types.FieldDate
				cm.Analysis[name] = a
				break
			}
		}
	}

	// Earlier columns that lost a conflict are unmapped after all.
	for name, field := range claimed {
		if cm.Fields[field] != name {
			delete(claimed, name)
			a := cm.Analysis[name]
			a.MappedTo = ""
			cm.Analysis[name] = a
		}
	}
	for _, name := range g.ColumnNames() {
		if claimed[name] == "" {
			cm.UnmappedColumns = append(cm.UnmappedColumns, name)
		}
	}

	cm.QualityScore = qualityScore(cm.Fields, g.NumCols())
	return cm
}

func resolveColumn(name string, overrides map[string]types.SemanticField) types.SemanticField {
	if field, ok := overrides[name]; ok {
		return field
	}
	lower := strings.ToLower(name)
	for _, r := range genericRules {
		for _, tok := range r.tokens {
			if strings.Contains(lower, tok) {
				return r.field
			}
		}
	}
	return ""
}

// importantFields drive the weighted part of the mapping quality score.
var importantFields = []types.SemanticField{
	types.FieldItemName, types.FieldQuantity, types.FieldTotalAmount, types.FieldDate,
}

// qualityScore blends coverage with presence of the important fields:
// 0.7 * mapped-fraction + 0.3 * important-fraction.
func qualityScore(fields map[types.SemanticField]string, totalCols int) float64 {
	if totalCols == 0 {
		return 0
	}
	important := 0
	for _, f := range importantFields {
		if _, ok := fields[f]; ok {
			important++
		}
	}
	coverage := float64(len(fields)) / float64(totalCols)
	if coverage > 1 {
		coverage = 1
	}
	return 0.7*coverage + 0.3*float64(important)/float64(len(importantFields))
}
