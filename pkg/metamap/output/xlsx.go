// Package output persists workbooks and run reports.
package output

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when saving a workbook without sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// SaveWorkbook writes every table of wb to path as one sheet each, header row
// first, in workbook order. Parent directories are created as needed.
func SaveWorkbook(wb *models.Workbook, path string) error {
	if len(wb.Sheets) == 0 {
		return ErrNoSheets
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	styles := styleCache{}
	defaultSheet := f.GetSheetName(0)
	for i, t := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("sheet %q: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("sheet %q: %w", t.Name, err)
		}
		if err := writeTable(f, t, styles); err != nil {
			return fmt.Errorf("sheet %q: %w", t.Name, err)
		}
	}
	f.SetActiveSheet(0)

	return f.SaveAs(path)
}

// styleCache maps a number format to the style id created for it.
type styleCache map[models.CellMeta]int

func (s styleCache) id(f *excelize.File, m models.CellMeta) (int, error) {
	if m.NumFmt == 0 && m.CustomNumFmt == "" {
		return 0, nil
	}
	key := models.CellMeta{NumFmt: m.NumFmt, CustomNumFmt: m.CustomNumFmt}
	if id, ok := s[key]; ok {
		return id, nil
	}
	style := &excelize.Style{NumFmt: m.NumFmt}
	if m.CustomNumFmt != "" {
		code := m.CustomNumFmt
		style.CustomNumFmt = &code
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	s[key] = id
	return id, nil
}

func writeTable(f *excelize.File, t *models.Table, styles styleCache) error {
	if len(t.Columns) == 0 {
		return nil
	}
	// Styles are registered before streaming starts.
	cellStyles := make([][]int, len(t.Columns))
	for c, col := range t.Columns {
		if col.Meta == nil {
			continue
		}
		cellStyles[c] = make([]int, t.NumRows())
		for r := range cellStyles[c] {
			id, err := styles.id(f, col.MetaAt(r))
			if err != nil {
				return err
			}
			cellStyles[c][r] = id
		}
	}

	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for c, col := range t.Columns {
		header[c] = col.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r := 0; r < t.NumRows(); r++ {
		row := make([]interface{}, len(t.Columns))
		for c, col := range t.Columns {
			v := cellValue(col.Values[r], col.MetaAt(r))
			if v != nil && cellStyles[c] != nil && cellStyles[c][r] != 0 {
				v = excelize.Cell{StyleID: cellStyles[c][r], Value: v}
			}
			row[c] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue converts a stored raw value back to a cell value of its loaded
// type. Returns nil for empty cells. Text is never reinterpreted.
func cellValue(s string, m models.CellMeta) interface{} {
	if s == "" {
		return nil
	}
	switch m.Type {
	case models.CellNumber:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	case models.CellBool:
		switch s {
		case "1", "TRUE", "true":
			return true
		case "0", "FALSE", "false":
			return false
		}
	}
	return s
}
