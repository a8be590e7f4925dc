package loader

import (
	stdcsv "encoding/csv"
	"fmt"
	"strings"
	"sync"

	"github.com/adityabandi/posingest/internal/encoding"
	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/types"
)

// candidateSeparators are raced against each other for delimited text. Order
// matters only for tie-breaking: on equal scores the earlier candidate wins.
var candidateSeparators = []rune{',', ';', '\t', '|', '^'}

// separatorResult is one scored parse attempt.
type separatorResult struct {
	sep   rune
	g     *grid.Grid
	score float64
}

// loadDelimited races every candidate separator over an independent decode of
// the same byte buffer and keeps the best-scoring non-empty parse. Each
// worker owns its inputs outright, so the reduction needs no locking beyond
// the WaitGroup. Returns nil when no candidate produced a usable grid.
func loadDelimited(data []byte, enc types.EncodingInfo, meta *Metadata) *grid.Grid {
	results := make([]separatorResult, len(candidateSeparators))

	var wg sync.WaitGroup
	for i, sep := range candidateSeparators {
		wg.Add(1)
		go func(slot int, sep rune) {
			defer wg.Done()
			text := encoding.Decode(data, enc.Encoding)
			g, err := parseDelimited(text, sep)
			if err != nil || g.IsEmpty() {
				results[slot] = separatorResult{sep: sep}
				return
			}
			results[slot] = separatorResult{sep: sep, g: g, score: grid.Score(g)}
		}(i, sep)
	}
	wg.Wait()

	// Max-by-score reduction in declaration order keeps selection
	// deterministic when scores tie.
	best := separatorResult{}
	for _, r := range results {
		if r.g != nil && r.score > best.score {
			best = r
		}
	}
	if best.g == nil {
		return nil
	}

	meta.LoadMethod = "csv_smart_separator"
	meta.Separator = separatorLabel(best.sep)
	return best.g
}

// parseDelimited parses text with one separator. Reader configuration follows
// the tolerant settings needed for real-world POS exports: ragged rows, lazy
// quotes, leading whitespace.
func parseDelimited(text string, sep rune) (*grid.Grid, error) {
	reader := stdcsv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse with separator %q: %w", sep, err)
	}
	if len(rows) == 0 {
		return grid.Empty(), nil
	}
	return grid.New(rows[0], rows[1:]), nil
}

func separatorLabel(sep rune) string {
	if sep == '\t' {
		return "\t"
	}
	return string(sep)
}
