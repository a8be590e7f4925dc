// =============================================================================
// POS Ingest - Fingerprint Classifier
// =============================================================================
//
// Scores every registered signature against the loaded grid and filename,
// picks the best, and labels the export with a coarse data type. Never fails:
// when no signature scores above the floor, the result is "unknown" with the
// best signature's capped confidence attached.
//
// =============================================================================

package pos

import (
	"strings"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

const (
	// unknownFloor is the winning score at or below which the system label
	// degrades to "unknown".
	unknownFloor = 0.3

	// maxConfidence caps reported confidence.
	maxConfidence = 0.95

	// Signal weights.
	weightRequired = 0.5
	weightOptional = 0.2
	weightFilename = 0.1
	weightIdent    = 0.1
	weightDate     = 0.05
)

// Unknown is the label used when no signature matches convincingly.
const Unknown = "unknown"

// Classify scores the grid against every signature and returns the analysis.
func (r *Registry) Classify(filename string, g *grid.Grid) types.POSAnalysis {
	lowerName := strings.ToLower(filename)
	columns := lowerColumnNames(g)

	analysis := types.POSAnalysis{
		POSSystem: Unknown,
		AllScores: make(map[string]types.SystemScore, len(r.sigs)),
	}
	bestScore := -1.0
	bestSig := -1
	for i, sig := range r.sigs {
		sc := scoreSignature(sig, lowerName, columns)
		analysis.AllScores[sig.Name] = sc
		if sc.Score > bestScore {
			bestScore = sc.Score
			bestSig = i
		}
	}
	if bestSig < 0 {
		analysis.DataType = inferDataType("", columns)
		return analysis
	}

	winner := r.sigs[bestSig]
	sc := analysis.AllScores[winner.Name]
	analysis.Confidence = sc.Confidence
	analysis.Matches = sc.Matches
	if bestScore > unknownFloor {
		analysis.POSSystem = winner.Name
	}
	analysis.DataType = inferDataType(analysis.POSSystem, columns)
	if analysis.POSSystem != Unknown && winner.DataType != "" {
		analysis.DataType = winner.DataType
	}
	return analysis
}

func scoreSignature(sig Signature, filename string, columns []string) types.SystemScore {
	var m types.MatchCounts
	for _, p := range sig.FilePatterns {
		if strings.Contains(filename, p) {
			m.Filename++
		}
	}
	// Identifiers are vendor names looked for in the filename, not the grid.
	for _, id := range sig.Identifiers {
		if strings.Contains(filename, id) {
			m.Identifiers++
		}
	}
	for _, req := range sig.RequiredColumns {
		if anyColumnContains(columns, req) {
			m.RequiredColumns++
		}
	}
	for _, opt := range sig.OptionalColumns {
		if anyColumnContains(columns, opt) {
			m.OptionalColumns++
		}
	}
	for _, tok := range sig.DateFormats {
		if anyColumnContains(columns, strings.ToLower(tok)) {
			m.DateFormats++
		}
	}

	score := 0.0
	if len(sig.RequiredColumns) > 0 {
		score += weightRequired * float64(m.RequiredColumns) / float64(len(sig.RequiredColumns))
	}
	if len(sig.OptionalColumns) > 0 {
		score += weightOptional * float64(m.OptionalColumns) / float64(len(sig.OptionalColumns))
	}
	score += weightFilename * float64(capAt(m.Filename, 2))
	score += weightIdent * float64(capAt(m.Identifiers, 2))
	score += weightDate * float64(capAt(m.DateFormats, 2))
	if m.Filename > 0 || m.Identifiers > 0 {
		score += sig.ConfidenceBoost
	}

	conf := score
	if conf > maxConfidence {
		conf = maxConfidence
	}
	return types.SystemScore{Score: score, Confidence: conf, Matches: m}
}

func capAt(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}

func anyColumnContains(columns []string, needle string) bool {
	for _, c := range columns {
		if strings.Contains(c, needle) {
			return true
		}
	}
	return false
}

func lowerColumnNames(g *grid.Grid) []string {
	names := g.ColumnNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}

// =============================================================================
// DATA TYPE INFERENCE
// =============================================================================

var dataTypeOverrides = map[string]types.DataType{
	"resy":      types.DataTypeReservations,
	"opentable": types.DataTypeReservations,
	"doordash":  types.DataTypeDelivery,
	"ubereats":  types.DataTypeDelivery,
	"grubhub":   types.DataTypeDelivery,
}

var (
	salesIndicators = []string{
		"price", "amount", "total", "revenue", "sales", "gross", "net",
		"qty", "quantity", "sold", "tender",
	}
	inventoryIndicators = []string{
		"stock", "inventory", "on hand", "reorder", "supplier", "sku", "par",
	}
	reservationIndicators = []string{
		"reservation", "party", "guests", "covers", "seated", "booking",
	}
	deliveryIndicators = []string{
		"delivery", "courier", "driver", "dasher", "pickup", "dropoff",
	}
)

// inferDataType labels the export. Known system names use the override
// table; otherwise column-name keywords vote.
func inferDataType(system string, columns []string) types.DataType {
	if dt, ok := dataTypeOverrides[system]; ok {
		return dt
	}
	count := func(indicators []string) int {
		n := 0
		for _, ind := range indicators {
			if anyColumnContains(columns, ind) {
				n++
			}
		}
		return n
	}
	switch {
	case count(salesIndicators) >= 3:
		return types.DataTypeSales
	case count(inventoryIndicators) >= 2:
		return types.DataTypeInventory
	case count(reservationIndicators) >= 2:
		return types.DataTypeReservations
	case count(deliveryIndicators) >= 2:
		return types.DataTypeDelivery
	default:
		return types.DataTypeOther
	}
}
