// Package parser reads Excel workbooks into in-memory tables.
package parser

import (
	"fmt"
	"strconv"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

// ExtractTable reads a sheet into a table. The first non-empty row is the
// header and every following row is data, padded to the header width.
// Leading blank rows are skipped. Values are the stored cell values, not
// their formatted display, and each non-text cell records its type and
// number format.
func ExtractTable(f *excelize.File, sheetName string) (*models.Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	t, headerRow := buildTable(sheetName, rows)
	if headerRow < 0 {
		return t, nil
	}

	formats := make(map[int]models.CellMeta)
	for c := range t.Columns {
		col := &t.Columns[c]
		for r, v := range col.Values {
			if v == "" {
				continue
			}
			// 1-based sheet coordinates; data starts below the header
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+r+2)
			if err != nil {
				return nil, err
			}
			meta, err := cellMeta(f, sheetName, cell, formats)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cell, err)
			}
			if meta.Type == models.CellText {
				continue
			}
			if col.Meta == nil {
				col.Meta = make([]models.CellMeta, len(col.Values))
			}
			col.Meta[r] = meta
		}
	}
	return t, nil
}

// cellMeta classifies one cell. formats caches number formats by style id.
func cellMeta(f *excelize.File, sheetName, cell string, formats map[int]models.CellMeta) (models.CellMeta, error) {
	typ, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return models.CellMeta{}, err
	}
	var meta models.CellMeta
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		meta.Type = models.CellNumber
	case excelize.CellTypeBool:
		meta.Type = models.CellBool
	default:
		return models.CellMeta{}, nil
	}

	styleID, err := f.GetCellStyle(sheetName, cell)
	if err != nil || styleID == 0 {
		return meta, err
	}
	format, ok := formats[styleID]
	if !ok {
		style, err := f.GetStyle(styleID)
		if err != nil {
			return meta, err
		}
		format.NumFmt = style.NumFmt
		if style.CustomNumFmt != nil {
			format.CustomNumFmt = *style.CustomNumFmt
		}
		formats[styleID] = format
	}
	meta.NumFmt, meta.CustomNumFmt = format.NumFmt, format.CustomNumFmt
	return meta, nil
}

// buildTable returns the table and the 0-based index of its header row,
// or -1 for a blank sheet.
func buildTable(sheetName string, rows [][]string) (*models.Table, int) {
	minRow, _, _, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.NewTable(sheetName, nil, nil), -1
	}

	width := maxCol + 1
	header := headerNames(rows[minRow], width)
	return models.NewTable(sheetName, header, rows[minRow+1:]), minRow
}

// headerNames fills blank header cells with "Unnamed: N" and makes repeated
// names unique by appending ".1", ".2", ...
func headerNames(row []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for colIdx := 0; colIdx < width; colIdx++ {
		name := ""
		if colIdx < len(row) {
			name = row[colIdx]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(colIdx)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names[colIdx] = name
	}
	return names
}
