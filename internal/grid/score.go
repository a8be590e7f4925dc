package grid

import "strings"

// domainKeywords are the column-name tokens that indicate a restaurant or
// business export. Matches saturate at five.
var domainKeywords = []string{
	"item", "product", "quantity", "price", "total", "date", "time",
	"sales", "revenue", "order", "customer", "category",
}

// placeholderPrefixes mark synthetic column names produced when a header cell
// was blank or when an upstream tool invented one.
var placeholderPrefixes = []string{"Column_", "Unnamed"}

// Score rates a candidate grid in [0, 1]. It is the tie-break used across all
// loader branches: higher scores win. The function is pure and deterministic.
//
// The score is a sum of five independent components worth 0.2 each:
//   - column-count richness, saturating at 10 columns
//   - row-count richness, saturating at 100 rows
//   - fraction of columns with a real (non-placeholder) name
//   - overall non-null cell ratio
//   - domain keyword hits in column names, saturating at 5
//
// An empty grid scores exactly 0.
func Score(g *Grid) float64 {
	if g == nil || g.IsEmpty() {
		return 0
	}

	cols := g.NumCols()
	rows := g.NumRows()

	score := clamp01(float64(cols)/10) * 0.2
	score += clamp01(float64(rows)/100) * 0.2

	placeholders := 0
	keywordHits := 0
	nonNull := 0
	for _, c := range g.Columns() {
		if isPlaceholderName(c.Name) {
			placeholders++
		}
		lower := strings.ToLower(c.Name)
		for _, kw := range domainKeywords {
			if strings.Contains(lower, kw) {
				keywordHits++
			}
		}
		nonNull += rows - c.NullCount()
	}

	score += (1 - float64(placeholders)/float64(cols)) * 0.2
	score += float64(nonNull) / float64(rows*cols) * 0.2
	score += clamp01(float64(keywordHits)/5) * 0.2

	return clamp01(score)
}

func isPlaceholderName(name string) bool {
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
