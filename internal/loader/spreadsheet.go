package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tealeg/xlsx/v3"
	"github.com/xuri/excelize/v2"

	"github.com/adityabandi/posingest/internal/grid"
)

// sheetEngine decodes a whole workbook into named sheets of raw rows.
// Engines are tried in priority order; the first one that opens the workbook
// and yields a usable sheet wins.
type sheetEngine interface {
	Name() string
	Sheets(data []byte) ([]namedSheet, error)
}

type namedSheet struct {
	name string
	rows [][]string
}

// engines in fixed priority order.
func engines() []sheetEngine {
	return []sheetEngine{excelizeEngine{}, tealegEngine{}}
}

// loadSpreadsheet tries each engine in order; within a workbook every sheet
// is parsed and scored and the best sheet wins. Returns nil when no engine
// produced a usable grid.
func loadSpreadsheet(data []byte, meta *Metadata) *grid.Grid {
	for _, eng := range engines() {
		sheets, err := eng.Sheets(data)
		if err != nil || len(sheets) == 0 {
			continue
		}

		bestScore := 0.0
		bestIdx := -1
		grids := make([]*grid.Grid, len(sheets))
		for i, sh := range sheets {
			if len(sh.rows) == 0 {
				continue
			}
			grids[i] = grid.New(sh.rows[0], sh.rows[1:])
			if score := grid.Score(grids[i]); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			continue
		}

		meta.LoadMethod = "excel_" + eng.Name()
		meta.SheetUsed = sheets[bestIdx].name
		if len(sheets) > 1 {
			var others []string
			for i, sh := range sheets {
				if i != bestIdx {
					others = append(others, sh.name)
				}
			}
			meta.Warn(fmt.Sprintf("Multiple sheets found. Using '%s'. Other sheets: [%s]",
				sheets[bestIdx].name, strings.Join(others, ", ")))
		}
		return grids[bestIdx]
	}
	return nil
}

// =============================================================================
// ENGINE: excelize
// =============================================================================

type excelizeEngine struct{}

func (excelizeEngine) Name() string { return "excelize" }

func (excelizeEngine) Sheets(data []byte) ([]namedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []namedSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		sheets = append(sheets, namedSheet{name: name, rows: rows})
	}
	return sheets, nil
}

// =============================================================================
// ENGINE: tealeg
// =============================================================================

type tealegEngine struct{}

func (tealegEngine) Name() string { return "tealeg" }

func (tealegEngine) Sheets(data []byte) ([]namedSheet, error) {
	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	var sheets []namedSheet
	for _, sh := range wb.Sheets {
		var rows [][]string
		err := sh.ForEachRow(func(r *xlsx.Row) error {
			var cells []string
			cellErr := r.ForEachCell(func(c *xlsx.Cell) error {
				cells = append(cells, c.String())
				return nil
			})
			rows = append(rows, cells)
			return cellErr
		})
		if err != nil {
			continue
		}
		sheets = append(sheets, namedSheet{name: sh.Name, rows: rows})
	}
	return sheets, nil
}
