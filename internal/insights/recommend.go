// =============================================================================
// POS Ingest - Recommendations
// =============================================================================

package insights

import "github.com/adityabandi/posingest/internal/types"

// Recommendation is one piece of actionable advice attached to a successful
// ingestion.
type Recommendation struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

const lowTicketFloor = 20.0

// Recommend derives advice from the classification and the insight blocks.
// Order is fixed: detection quality, time coverage, category coverage, ticket
// size.
func Recommend(analysis types.POSAnalysis, ins Insights) []Recommendation {
	recs := []Recommendation{}
	if analysis.Confidence < 0.7 {
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "data_quality",
			Title:       "Verify the export source",
			Description: "The POS system could not be identified with confidence. Export directly from your POS reporting screen rather than a re-saved or edited copy.",
			Impact:      "More reliable column mapping and fewer skipped rows",
		})
	}
	if len(ins.PeakHours) == 0 {
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "data_coverage",
			Title:       "Include transaction times",
			Description: "No usable time-of-day data was found. Include a time column in the export to unlock peak-hour and day-part analysis.",
			Impact:      "Staffing and prep decisions by hour",
		})
	}
	if len(ins.CategoryPerformance) == 0 {
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "data_coverage",
			Title:       "Include item categories",
			Description: "No category data was found or inferred. Include a category or menu-group column to unlock per-category revenue.",
			Impact:      "Menu engineering by category",
		})
	}
	if ins.Summary.TransactionCount > 0 && ins.Summary.AverageTransaction < lowTicketFloor {
		recs = append(recs, Recommendation{
			Priority:    "low",
			Category:    "revenue",
			Title:       "Average ticket is low",
			Description: "The average transaction is under $20. Consider bundles, add-on prompts, or combo pricing to raise ticket size.",
			Impact:      "Higher revenue per visit",
		})
	}
	return recs
}
