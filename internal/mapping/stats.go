// =============================================================================
// POS Ingest - Column Statistics
// =============================================================================

package mapping

import (
	"math"
	"sort"

	"github.com/araddon/dateparse"

	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

// maxSampleValues bounds the stringified samples kept per column.
const maxSampleValues = 5

// datetimeProbeLimit bounds how many values the datetime sniff parses.
const datetimeProbeLimit = 10

// computeStats summarizes one column. Numeric aggregates are only filled for
// numeric columns; LikelyDatetime only for text columns.
func computeStats(col *grid.Column) types.ColumnStats {
	rows := len(col.Values)
	stats := types.ColumnStats{NullCount: col.NullCount()}
	if rows > 0 {
		stats.NullPercentage = float64(stats.NullCount) / float64(rows) * 100
	}

	seen := make(map[string]bool, rows)
	for _, v := range col.Values {
		if !v.IsNull() {
			seen[v.Text()] = true
		}
	}
	stats.UniqueCount = len(seen)
	if rows > 0 {
		stats.UniquePercentage = float64(stats.UniqueCount) / float64(rows) * 100
	}

	if col.IsNumeric() {
		stats.IsNumeric = true
		fillNumericStats(&stats, col)
	} else {
		stats.LikelyDatetime = likelyDatetime(col)
	}
	return stats
}

func fillNumericStats(stats *types.ColumnStats, col *grid.Column) {
	var nums []float64
	for _, v := range col.Values {
		if f, ok := v.Float(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return
	}
	sort.Float64s(nums)
	stats.Min = nums[0]
	stats.Max = nums[len(nums)-1]
	stats.Median = median(nums)

	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	stats.Mean = sum / float64(len(nums))

	variance := 0.0
	for _, f := range nums {
		d := f - stats.Mean
		variance += d * d
	}
	stats.Std = math.Sqrt(variance / float64(len(nums)))
}

// median expects a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// likelyDatetime reports whether more than half of the probed non-null values
// parse as dates.
func likelyDatetime(col *grid.Column) bool {
	probed, parsed := 0, 0
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		probed++
		if _, err := dateparse.ParseAny(v.Text()); err == nil {
			parsed++
		}
		if probed >= datetimeProbeLimit {
			break
		}
	}
	return probed > 0 && float64(parsed) > float64(probed)*0.5
}

func sampleStrings(col *grid.Column) []string {
	out := []string{}
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		out = append(out, v.Text())
		if len(out) >= maxSampleValues {
			break
		}
	}
	return out
}
