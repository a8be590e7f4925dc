// =============================================================================
// POS Ingest - Partial Recovery
// =============================================================================

package ingest

import (
	"strings"

	"github.com/adityabandi/posingest/internal/encoding"
)

const (
	recoverySampleLines = 10
	recoveryVoteLines   = 5
)

// recoverySeparators are voted on by frequency; declaration order breaks
// ties.
var recoverySeparators = []rune{',', ';', '\t', '|'}

// attemptRecovery salvages what it can from bytes the pipeline rejected:
// a lossy decode of the head, a separator guess, and a best-effort header
// split. Returns nil when not even a single line survives.
func attemptRecovery(data []byte) *Recovery {
	if len(data) == 0 {
		return nil
	}
	text := encoding.DecodeLossy(data)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var sample []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) >= recoverySampleLines {
			break
		}
	}
	if len(sample) == 0 {
		return nil
	}

	rec := &Recovery{
		Encoding:    "utf-8 (lossy)",
		SampleLines: sample,
	}
	if sep, ok := voteSeparator(sample); ok {
		rec.GuessedSeparator = string(sep)
		headers := strings.Split(sample[0], string(sep))
		for i := range headers {
			headers[i] = strings.TrimSpace(headers[i])
		}
		rec.GuessedHeaders = headers
	}
	return rec
}

// voteSeparator counts candidate occurrences over the head lines and returns
// the most frequent one.
func voteSeparator(lines []string) (rune, bool) {
	limit := len(lines)
	if limit > recoveryVoteLines {
		limit = recoveryVoteLines
	}
	best := rune(0)
	bestCount := 0
	for _, sep := range recoverySeparators {
		count := 0
		for _, line := range lines[:limit] {
			count += strings.Count(line, string(sep))
		}
		if count > bestCount {
			best = sep
			bestCount = count
		}
	}
	return best, bestCount > 0
}
