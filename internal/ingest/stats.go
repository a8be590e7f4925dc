// =============================================================================
// POS Ingest - Parser Statistics
// =============================================================================

package ingest

import "sync"

// Stats aggregates outcomes across ingestions. The parser never touches it;
// the caller owns one and records results into it, so batch runs, services,
// and tests each scope their own counters. Safe for concurrent use.
type Stats struct {
	mu sync.Mutex

	FilesProcessed     int            `json:"files_processed"`
	SuccessRate        float64        `json:"success_rate"`
	CommonErrors       map[string]int `json:"common_errors"`
	POSSystemsDetected map[string]int `json:"pos_systems_detected"`

	successes int
}

// NewStats returns an empty aggregate.
func NewStats() *Stats {
	return &Stats{
		CommonErrors:       map[string]int{},
		POSSystemsDetected: map[string]int{},
	}
}

// Record folds one result into the aggregate.
func (s *Stats) Record(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FilesProcessed++
	if res.Success {
		s.successes++
		if sys := res.Analysis.POSSystem; sys != "" {
			s.POSSystemsDetected[sys]++
		}
	} else if res.Error != nil {
		s.CommonErrors[res.Error.Type]++
	}
	s.SuccessRate = float64(s.successes) / float64(s.FilesProcessed)
}
