// =============================================================================
// POS Ingest - Shared Types
// =============================================================================
//
// This package contains the shared vocabulary used across the ingestion
// pipeline to avoid import cycles. Types defined here are produced and
// consumed by:
//   - pos        (fingerprint classification)
//   - mapping    (column semantic mapping)
//   - transform  (record transformation and validation)
//   - insights   (quality scoring and summaries)
//   - ingest     (pipeline orchestration)
//
// =============================================================================

package types

// =============================================================================
// SEMANTIC FIELDS
// =============================================================================

// SemanticField is one entry of the fixed target vocabulary that arbitrary
// POS export columns are mapped onto.
type SemanticField string

const (
	FieldItemName       SemanticField = "item_name"
	FieldQuantity       SemanticField = "quantity"
	FieldUnitPrice      SemanticField = "unit_price"
	FieldTotalAmount    SemanticField = "total_amount"
	FieldGrossAmount    SemanticField = "gross_amount"
	FieldNetAmount      SemanticField = "net_amount"
	FieldTaxAmount      SemanticField = "tax_amount"
	FieldTipAmount      SemanticField = "tip_amount"
	FieldDiscountAmount SemanticField = "discount_amount"
	FieldCost           SemanticField = "cost"
	FieldDate           SemanticField = "date"
	FieldTime           SemanticField = "time"
	FieldCategory       SemanticField = "category"
	FieldSubcategory    SemanticField = "subcategory"
	FieldServerName     SemanticField = "server_name"
	FieldCustomerName   SemanticField = "customer_name"
	FieldTableNumber    SemanticField = "table_number"
	FieldLocation       SemanticField = "location"
	FieldPaymentMethod  SemanticField = "payment_method"
	FieldCardType       SemanticField = "card_type"
	FieldOrderID        SemanticField = "order_id"
	FieldModifier       SemanticField = "modifier"

	// Extra targets reachable only through system-specific override tables.
	FieldRegister SemanticField = "register"
	FieldCheckID  SemanticField = "check_id"
)

// NumericFields lists the semantic fields coerced through the numeric path.
var NumericFields = []SemanticField{
	FieldQuantity, FieldUnitPrice, FieldTotalAmount, FieldGrossAmount,
	FieldNetAmount, FieldTaxAmount, FieldTipAmount, FieldDiscountAmount,
	FieldCost,
}

// IsNumericField reports whether field uses numeric coercion.
func IsNumericField(field SemanticField) bool {
	for _, f := range NumericFields {
		if f == field {
			return true
		}
	}
	return false
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodingMethod describes how an encoding guess was produced.
type EncodingMethod string

const (
	MethodDetector EncodingMethod = "detector"
	MethodFallback EncodingMethod = "fallback"
	MethodDefault  EncodingMethod = "default"
)

// EncodingInfo is the result of encoding detection. It is produced once per
// ingestion and never mutated.
type EncodingInfo struct {
	Encoding   string         `json:"encoding"`
	Confidence float64        `json:"confidence"`
	Method     EncodingMethod `json:"method"`
}

// =============================================================================
// POS CLASSIFICATION
// =============================================================================

// DataType is the coarse label assigned to a classified export.
type DataType string

const (
	DataTypeSales        DataType = "sales"
	DataTypeInventory    DataType = "inventory"
	DataTypeReservations DataType = "reservations"
	DataTypeDelivery     DataType = "delivery"
	DataTypeOther        DataType = "other"
)

// MatchCounts holds the per-signal hit counts for one signature.
type MatchCounts struct {
	Filename        int `json:"filename"`
	Identifiers     int `json:"identifiers"`
	RequiredColumns int `json:"required_columns"`
	OptionalColumns int `json:"optional_columns"`
	DateFormats     int `json:"date_formats"`
}

// SystemScore is the weighted score computed for one registered signature.
type SystemScore struct {
	Score      float64     `json:"score"`
	Confidence float64     `json:"confidence"`
	Matches    MatchCounts `json:"matches"`
}

// POSAnalysis is the outcome of fingerprint classification. Produced once per
// ingestion; immutable thereafter.
type POSAnalysis struct {
	POSSystem  string                 `json:"pos_system"`
	Confidence float64                `json:"confidence"`
	DataType   DataType               `json:"data_type"`
	AllScores  map[string]SystemScore `json:"all_scores"`
	Matches    MatchCounts            `json:"matches"`
}

// =============================================================================
// COLUMN MAPPING
// =============================================================================

// ColumnStats holds the per-column statistics computed during mapping. The
// numeric block is only populated for numeric columns; LikelyDatetime is only
// meaningful for text columns.
type ColumnStats struct {
	NullCount        int     `json:"null_count"`
	NullPercentage   float64 `json:"null_percentage"`
	UniqueCount      int     `json:"unique_count"`
	UniquePercentage float64 `json:"unique_percentage"`

	IsNumeric bool    `json:"is_numeric"`
	Mean      float64 `json:"mean,omitempty"`
	Median    float64 `json:"median,omitempty"`
	Min       float64 `json:"min,omitempty"`
	Max       float64 `json:"max,omitempty"`
	Std       float64 `json:"std,omitempty"`

	LikelyDatetime bool `json:"likely_datetime,omitempty"`
}

// ColumnAnalysis describes a single grid column after mapping.
type ColumnAnalysis struct {
	MappedTo     SemanticField `json:"mapped_to,omitempty"` // empty when unmapped
	Statistics   ColumnStats   `json:"statistics"`
	SampleValues []string      `json:"sample_values"`
}

// ColumnMapping is the full mapping outcome: at most one original column per
// semantic field (last wins on conflict), plus the leftovers.
type ColumnMapping struct {
	Fields          map[SemanticField]string  `json:"fields"`
	Analysis        map[string]ColumnAnalysis `json:"analysis"`
	UnmappedColumns []string                  `json:"unmapped_columns"`
	QualityScore    float64                   `json:"quality_score"`
}

// =============================================================================
// RECORDS
// =============================================================================

// Record is one fully mapped, coerced, enriched, and validated output row.
// Keys are semantic field names plus derived enrichment names; values are
// typed (float64, string, int, bool) or nil.
type Record map[string]any

// OriginalIndexKey is the reserved record key carrying the source row index.
const OriginalIndexKey = "_original_index"

// ProcessingMetadata aggregates counters across all rows of one ingestion.
type ProcessingMetadata struct {
	RecordsProcessed   int      `json:"records_processed"`
	RecordsSkipped     int      `json:"records_skipped"`
	EnrichmentsApplied []string `json:"enrichments_applied"`
	ValueCorrections   int      `json:"value_corrections"`
}
