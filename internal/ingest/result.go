// =============================================================================
// POS Ingest - Result Types
// =============================================================================

package ingest

import (
	"github.com/adityabandi/posingest/internal/insights"
	"github.com/adityabandi/posingest/internal/loader"
	"github.com/adityabandi/posingest/internal/types"
)

// Failure classification. Every failed ingestion carries exactly one type.
// Only the first two are ever produced by Ingest; encoding trouble degrades
// to a lossy decode rather than a failure, and rows that fail validation are
// dropped with only the skip counter recording them.
const (
	ErrTypeEmptyFile            = "empty_or_unreadable_file"
	ErrTypeUnsupportedStructure = "unsupported_structure"
	ErrTypeEncoding             = "encoding_failure"
)

// Failure describes why an ingestion failed, with actionable suggestions.
type Failure struct {
	Type        string   `json:"type"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

func (f *Failure) Error() string { return f.Type + ": " + f.Message }

// Recovery is the best-effort salvage attached to a failed ingestion: a
// lossy decode of the head of the file plus structural guesses, enough for a
// human to see what went wrong.
type Recovery struct {
	Encoding         string   `json:"encoding"`
	SampleLines      []string `json:"sample_lines"`
	GuessedSeparator string   `json:"guessed_separator,omitempty"`
	GuessedHeaders   []string `json:"guessed_headers,omitempty"`
}

// FileInfo is the preview's shape summary.
type FileInfo struct {
	Rows            int     `json:"rows"`
	Columns         int     `json:"columns"`
	EstimatedSizeKB float64 `json:"estimated_size_kb"`
}

// ColumnPreview shows the mapping outcome without transforming any rows.
type ColumnPreview struct {
	Columns  []string                       `json:"columns"`
	Mapping  map[types.SemanticField]string `json:"mapping"`
	Unmapped []string                       `json:"unmapped"`
}

// QualityIndicators are the preview's three headline numbers.
type QualityIndicators struct {
	NullPercentage float64 `json:"null_percentage"`
	MappingQuality float64 `json:"mapping_quality"`
	DataQuality    float64 `json:"data_quality"`
}

// Preview is returned instead of records when preview mode is requested.
type Preview struct {
	FileInfo          FileInfo          `json:"file_info"`
	Detection         types.POSAnalysis `json:"detection"`
	ColumnPreview     ColumnPreview     `json:"column_preview"`
	SampleRows        []map[string]any  `json:"sample_rows"`
	QualityIndicators QualityIndicators `json:"quality_indicators"`
	Suggestions       []string          `json:"suggestions"`
}

// Result is the outcome of one ingestion. Exactly one of Records, Preview,
// or Error carries the payload; Encoding and Load are filled whenever the
// pipeline got far enough to produce them.
type Result struct {
	IngestionID string `json:"ingestion_id"`
	Filename    string `json:"filename"`
	Success     bool   `json:"success"`

	Encoding types.EncodingInfo  `json:"encoding"`
	Load     *loader.Metadata    `json:"load,omitempty"`
	Analysis types.POSAnalysis   `json:"pos_analysis"`
	Mapping  types.ColumnMapping `json:"column_mapping"`

	Records    []types.Record           `json:"records,omitempty"`
	Processing types.ProcessingMetadata `json:"processing"`

	QualityScore    float64                   `json:"quality_score"`
	Insights        *insights.Insights        `json:"insights,omitempty"`
	Recommendations []insights.Recommendation `json:"recommendations,omitempty"`

	Warnings []string  `json:"warnings,omitempty"`
	Error    *Failure  `json:"error,omitempty"`
	Preview  *Preview  `json:"preview,omitempty"`
	Recovery *Recovery `json:"recovery,omitempty"`
}
