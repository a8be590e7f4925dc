// =============================================================================
// POS Ingest - Pipeline Orchestration
// =============================================================================
//
// Parser wires the stages together: encoding detection, structural loading,
// auto-fix, fingerprint classification, column mapping, transformation, and
// summarization. Ingest is total: every input, however broken, produces a
// Result, never a panic and never a Go error for data-shaped problems.
//
// =============================================================================

package ingest

import (
	"github.com/google/uuid"

	"github.com/adityabandi/posingest/internal/autofix"
	"github.com/adityabandi/posingest/internal/encoding"
	"github.com/adityabandi/posingest/internal/grid"
	"github.com/adityabandi/posingest/internal/insights"
	"github.com/adityabandi/posingest/internal/loader"
	"github.com/adityabandi/posingest/internal/mapping"
	"github.com/adityabandi/posingest/internal/pos"
	"github.com/adityabandi/posingest/internal/transform"
	"github.com/adityabandi/posingest/internal/types"
)

// maxPreviewRows caps the sample rows returned in preview mode.
const maxPreviewRows = 10

// Options control one ingestion call.
type Options struct {
	// Preview stops the pipeline after mapping and returns samples instead
	// of records.
	Preview bool

	// DisableAutoFix skips the grid repair heuristics.
	DisableAutoFix bool
}

// Parser is the reusable ingestion engine. Construct once, use from any
// number of goroutines; per-call state lives in the Result.
type Parser struct {
	registry *pos.Registry
	autoFix  autofix.Options
	logger   Logger
}

// New returns a Parser with the built-in registry, all auto-fix heuristics
// enabled, and the stdout logger.
func New() *Parser {
	return &Parser{
		registry: pos.NewRegistry(),
		autoFix:  autofix.DefaultOptions(),
		logger:   &defaultLogger{},
	}
}

// SetLogger replaces the logger.
func (p *Parser) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

// SetRegistry replaces the signature registry, for callers that extended it
// from config.
func (p *Parser) SetRegistry(r *pos.Registry) {
	if r != nil {
		p.registry = r
	}
}

// SetAutoFix replaces the default heuristic toggles.
func (p *Parser) SetAutoFix(opts autofix.Options) { p.autoFix = opts }

// Ingest runs the full pipeline over raw file bytes.
func (p *Parser) Ingest(data []byte, filename string, opts Options) *Result {
	res := &Result{
		IngestionID: uuid.NewString(),
		Filename:    filename,
	}
	if len(data) == 0 {
		p.logger.Warn("%s: empty input", filename)
		res.Error = &Failure{
			Type:        ErrTypeEmptyFile,
			Message:     "file is empty",
			Suggestions: suggestionsFor(ErrTypeEmptyFile, filename),
		}
		return res
	}

	res.Encoding = encoding.Detect(data)
	p.logger.Debug("%s: encoding %s (%.2f, %s)", filename,
		res.Encoding.Encoding, res.Encoding.Confidence, res.Encoding.Method)

	g, meta := loader.Load(data, filename, res.Encoding)
	res.Load = meta
	res.Warnings = append(res.Warnings, meta.Warnings...)
	if g.IsEmpty() {
		p.logger.Warn("%s: no tabular structure found", filename)
		res.Error = &Failure{
			Type:        ErrTypeUnsupportedStructure,
			Message:     "no tabular structure could be extracted",
			Suggestions: suggestionsFor(ErrTypeUnsupportedStructure, filename),
		}
		res.Recovery = attemptRecovery(data)
		return res
	}

	if !opts.DisableAutoFix {
		fixes := autofix.Apply(g, p.autoFix)
		meta.FixesApplied = append(meta.FixesApplied, fixes...)
		for _, fix := range fixes {
			p.logger.Info("%s: %s", filename, fix)
		}
	}

	res.Analysis = p.registry.Classify(filename, g)
	p.logger.Info("%s: detected %s (%.2f, %s)", filename,
		res.Analysis.POSSystem, res.Analysis.Confidence, res.Analysis.DataType)

	res.Mapping = mapping.Map(g, res.Analysis.POSSystem)

	if opts.Preview {
		res.Preview = p.buildPreview(g, res)
		res.Success = true
		return res
	}

	records, pmeta := transform.Apply(g, res.Mapping, res.Analysis.POSSystem)
	res.Processing = pmeta
	if len(records) == 0 {
		// Row rejection is not a failure: the result succeeds with zero
		// records and the skip counter tells the story.
		p.logger.Warn("%s: %d rows, none valid", filename, g.NumRows())
		res.Warnings = append(res.Warnings,
			"no rows passed validation; check that item names or order ids and at least one amount column are present")
	}
	res.Records = records
	res.QualityScore = insights.QualityScore(g, pmeta)
	ins := insights.Build(records)
	res.Insights = &ins
	res.Recommendations = insights.Recommend(res.Analysis, ins)
	res.Success = true

	p.logger.Info("%s: %d records, %d skipped, quality %.2f", filename,
		pmeta.RecordsProcessed, pmeta.RecordsSkipped, res.QualityScore)
	return res
}

// buildPreview assembles the preview block from the mapped grid.
func (p *Parser) buildPreview(g *grid.Grid, res *Result) *Preview {
	pv := &Preview{
		FileInfo: FileInfo{
			Rows:            g.NumRows(),
			Columns:         g.NumCols(),
			EstimatedSizeKB: float64(g.NumRows()*g.NumCols()*8) / 1024,
		},
		Detection: res.Analysis,
		ColumnPreview: ColumnPreview{
			Columns:  g.ColumnNames(),
			Mapping:  res.Mapping.Fields,
			Unmapped: res.Mapping.UnmappedColumns,
		},
		QualityIndicators: QualityIndicators{
			NullPercentage: nullPercentage(g),
			MappingQuality: res.Mapping.QualityScore,
			DataQuality:    insights.QualityScore(g, types.ProcessingMetadata{}),
		},
	}

	rows := g.NumRows()
	if rows > maxPreviewRows {
		rows = maxPreviewRows
	}
	for r := 0; r < rows; r++ {
		row := make(map[string]any, g.NumCols())
		for i, name := range g.ColumnNames() {
			v := g.Cell(i, r)
			if v.IsNull() {
				row[name] = nil
			} else {
				row[name] = v.Text()
			}
		}
		pv.SampleRows = append(pv.SampleRows, row)
	}

	pv.Suggestions = previewSuggestions(res, pv)
	return pv
}

func nullPercentage(g *grid.Grid) float64 {
	total := g.NumRows() * g.NumCols()
	if total == 0 {
		return 0
	}
	nulls := 0
	for i := range g.Columns() {
		nulls += g.Columns()[i].NullCount()
	}
	return float64(nulls) / float64(total) * 100
}

// previewSuggestions flag problems worth fixing before a full ingestion.
func previewSuggestions(res *Result, pv *Preview) []string {
	var out []string
	if res.Analysis.POSSystem == pos.Unknown {
		out = append(out, "The POS system could not be identified; column mapping falls back to generic rules")
	} else if res.Analysis.Confidence < 0.7 {
		out = append(out, "POS detection confidence is low; verify the mapping before relying on the output")
	}
	if n := len(res.Mapping.UnmappedColumns); n > 0 {
		out = append(out, "Some columns could not be mapped and will be ignored")
	}
	if pv.QualityIndicators.NullPercentage > 20 {
		out = append(out, "More than 20% of cells are empty; consider a cleaner export")
	}
	if res.Analysis.DataType == types.DataTypeSales {
		if _, ok := res.Mapping.Fields[types.FieldDate]; !ok {
			out = append(out, "Sales data without a date column limits trend analysis")
		}
		if _, ok := res.Mapping.Fields[types.FieldCategory]; !ok {
			out = append(out, "Sales data without a category column limits menu analysis")
		}
	}
	return out
}
