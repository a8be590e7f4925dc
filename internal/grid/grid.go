// =============================================================================
// POS Ingest - Grid Model
// =============================================================================
//
// This package defines the Grid: the in-memory tabular representation of a
// loaded file, before any semantic interpretation. A Grid is an ordered
// sequence of named columns, each holding an equal-length ordered sequence of
// cells. Cells are null, text, or numeric.
//
// The Grid is mutated in place only by the loader's cleaning pass and by the
// auto-fix heuristics; every later stage treats it as read-only.
//
// =============================================================================

package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates cell contents.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a single cell.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Null is the empty cell.
var Null = Value{kind: KindNull}

// Text returns a text cell. An empty or all-whitespace string becomes null.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Null
	}
	return Value{kind: KindText, str: s}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Kind returns the cell kind.
func (v Value) Kind() Kind { return v.kind }

// Text returns the textual content. Numeric cells are formatted with
// strconv so round-tripping stays deterministic; null cells return "".
func (v Value) Text() string {
	switch v.kind {
	case KindText:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric content and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// IsNumeric reports whether every non-null cell in the column is numeric and
// at least one such cell exists.
func (c *Column) IsNumeric() bool {
	seen := false
	for _, v := range c.Values {
		switch v.kind {
		case KindNumber:
			seen = true
		case KindText:
			return false
		}
	}
	return seen
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// FirstNonNull returns the first non-null cell, or Null if none exists.
func (c *Column) FirstNonNull() Value {
	for _, v := range c.Values {
		if !v.IsNull() {
			return v
		}
	}
	return Null
}

// Grid is the loaded table. Invariant: all columns have equal length and,
// after cleaning, unique names.
type Grid struct {
	cols []Column
}

// New builds a Grid from a header row and raw data rows. Header names are
// trimmed; empty names get a synthetic placeholder. Short rows are padded
// with nulls, long rows truncated to the header width.
func New(headers []string, rows [][]string) *Grid {
	g := &Grid{cols: make([]Column, len(headers))}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		col := Column{Name: name, Values: make([]Value, len(rows))}
		for r, row := range rows {
			if i < len(row) {
				col.Values[r] = Text(strings.TrimSpace(row[i]))
			} else {
				col.Values[r] = Null
			}
		}
		g.cols[i] = col
	}
	return g
}

// Empty returns a Grid with no columns, the loader's total-failure signal.
func Empty() *Grid { return &Grid{} }

// IsEmpty reports whether the grid has no columns or no rows.
func (g *Grid) IsEmpty() bool { return len(g.cols) == 0 || g.NumRows() == 0 }

// NumCols returns the column count.
func (g *Grid) NumCols() int { return len(g.cols) }

// NumRows returns the row count.
func (g *Grid) NumRows() int {
	if len(g.cols) == 0 {
		return 0
	}
	return len(g.cols[0].Values)
}

// ColumnNames returns the ordered column names.
func (g *Grid) ColumnNames() []string {
	names := make([]string, len(g.cols))
	for i, c := range g.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the backing columns for iteration. Callers must not grow
// or shrink the slice.
func (g *Grid) Columns() []Column { return g.cols }

// Column returns the named column, or nil when absent.
func (g *Grid) Column(name string) *Column {
	for i := range g.cols {
		if g.cols[i].Name == name {
			return &g.cols[i]
		}
	}
	return nil
}

// Cell returns the cell at (column index, row index).
func (g *Grid) Cell(col, row int) Value {
	return g.cols[col].Values[row]
}

// Row materializes one row in column order.
func (g *Grid) Row(row int) []Value {
	out := make([]Value, len(g.cols))
	for i := range g.cols {
		out[i] = g.cols[i].Values[row]
	}
	return out
}

// =============================================================================
// MUTATORS (loader cleaning and auto-fix only)
// =============================================================================

// SetColumnName renames the column at index i.
func (g *Grid) SetColumnName(i int, name string) { g.cols[i].Name = name }

// AppendColumn adds a column. The column must match the grid's row count.
func (g *Grid) AppendColumn(c Column) { g.cols = append(g.cols, c) }

// DropColumn removes the named column, preserving order.
func (g *Grid) DropColumn(name string) {
	for i := range g.cols {
		if g.cols[i].Name == name {
			g.cols = append(g.cols[:i], g.cols[i+1:]...)
			return
		}
	}
}

// ReplaceColumn swaps the values of the named column in place.
func (g *Grid) ReplaceColumn(name string, values []Value) {
	if c := g.Column(name); c != nil {
		c.Values = values
	}
}

// DropRows removes every row whose index is flagged in drop. Flags beyond the
// current row count are ignored.
func (g *Grid) DropRows(drop []bool) {
	for i := range g.cols {
		kept := g.cols[i].Values[:0]
		for r, v := range g.cols[i].Values {
			if r >= len(drop) || !drop[r] {
				kept = append(kept, v)
			}
		}
		g.cols[i].Values = kept
	}
}

// =============================================================================
// CLEANING
// =============================================================================

// maxNullRatio is the threshold above which a column is considered junk.
const maxNullRatio = 0.95

// Clean applies the standard post-load cleanup: drop fully empty rows and
// columns, drop columns that are almost entirely null, normalize column
// names, collapse duplicate names to the first occurrence, and coerce
// columns that are mostly numeric.
func (g *Grid) Clean() {
	g.dropEmptyRows()
	g.dropSparseColumns()
	g.normalizeNames()
	g.dedupeColumns()
	g.coerceNumericColumns()
}

func (g *Grid) dropEmptyRows() {
	rows := g.NumRows()
	if rows == 0 {
		return
	}
	drop := make([]bool, rows)
	for r := 0; r < rows; r++ {
		empty := true
		for i := range g.cols {
			if !g.cols[i].Values[r].IsNull() {
				empty = false
				break
			}
		}
		drop[r] = empty
	}
	g.DropRows(drop)
}

func (g *Grid) dropSparseColumns() {
	rows := g.NumRows()
	if rows == 0 {
		return
	}
	kept := g.cols[:0]
	for _, c := range g.cols {
		ratio := float64(c.NullCount()) / float64(rows)
		if ratio < maxNullRatio {
			kept = append(kept, c)
		}
	}
	g.cols = kept
}

func (g *Grid) normalizeNames() {
	for i := range g.cols {
		name := g.cols[i].Name
		name = strings.ReplaceAll(name, "\n", " ")
		name = strings.ReplaceAll(name, "\r", "")
		g.cols[i].Name = strings.TrimSpace(name)
	}
}

func (g *Grid) dedupeColumns() {
	seen := make(map[string]bool, len(g.cols))
	kept := g.cols[:0]
	for _, c := range g.cols {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		kept = append(kept, c)
	}
	g.cols = kept
}

// coerceNumericColumns converts any text column whose values are more than
// half parseable as numbers (after stripping thousands separators and
// currency symbols) into a numeric column. Unparseable leftovers become null.
func (g *Grid) coerceNumericColumns() {
	rows := g.NumRows()
	if rows == 0 {
		return
	}
	for i := range g.cols {
		col := &g.cols[i]
		parsed := make([]Value, rows)
		ok := 0
		textual := false
		for r, v := range col.Values {
			if v.Kind() != KindText {
				parsed[r] = v
				if v.Kind() == KindNumber {
					ok++
				}
				continue
			}
			textual = true
			if f, good := ParseLooseNumber(v.Text()); good {
				parsed[r] = Number(f)
				ok++
			} else {
				parsed[r] = Null
			}
		}
		if textual && float64(ok) > float64(rows)*0.5 {
			col.Values = parsed
		}
	}
}

// ParseLooseNumber parses a number after stripping currency symbols,
// thousands separators, and surrounding whitespace.
func ParseLooseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
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
	return f, true
}
