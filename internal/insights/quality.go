// =============================================================================
// POS Ingest - Data Quality Score
// =============================================================================

package insights

import (
	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

// QualityScore blends up to three signals into [0, 1]: cell-level
// completeness over the grid, per-column type consistency, and, once
// transformation has run, the fraction of rows that survived validation.
// In preview mode the metadata is zero and only the first two apply.
func QualityScore(g *grid.Grid, meta types.ProcessingMetadata) float64 {
	if g == nil || g.NumCols() == 0 || g.NumRows() == 0 {
		return 0
	}
	scores := []float64{completeness(g), consistency(g)}
	if total := meta.RecordsProcessed + meta.RecordsSkipped; total > 0 {
		scores = append(scores, float64(meta.RecordsProcessed)/float64(total))
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// completeness is the non-null fraction over every cell of the grid,
// mapped and unmapped columns alike.
func completeness(g *grid.Grid) float64 {
	total := g.NumRows() * g.NumCols()
	nulls := 0
	cols := g.Columns()
	for i := range cols {
		nulls += cols[i].NullCount()
	}
	return float64(total-nulls) / float64(total)
}

// consistency penalizes columns whose cells are mostly numbers stored as
// text. Each offending column scores 0.7, every other column 1.0, averaged.
func consistency(g *grid.Grid) float64 {
	rows := g.NumRows()
	sum := 0.0
	for c := 0; c < g.NumCols(); c++ {
		digitLike := 0
		for r := 0; r < rows; r++ {
			v := g.Cell(c, r)
			if v.Kind() == grid.KindText && isDigitLike(v.Text()) {
				digitLike++
			}
		}
		if float64(digitLike) > float64(rows)*0.8 {
			sum += 0.7
		} else {
			sum += 1.0
		}
	}
	return sum / float64(g.NumCols())
}

// isDigitLike reports whether s is all digits once '.' and '-' are stripped.
func isDigitLike(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}
