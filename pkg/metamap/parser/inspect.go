package parser

import (
	"fmt"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/mapping"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

// InspectOptions names the columns looked for while inspecting.
type InspectOptions struct {
	StructureColumns []string
	Reference        mapping.ReferenceConfig
}

// Inspect describes every sheet of the workbook at path without modifying it.
func Inspect(path string, opts InspectOptions) ([]models.SheetInfo, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var infos []models.SheetInfo
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		t, _ := buildTable(sheetName, rows)
		minRow, maxRow, minCol, maxCol := findDataBounds(rows)

		info := models.SheetInfo{
			Name:                sheetName,
			Rows:                t.NumRows(),
			Columns:             t.ColumnNames(),
			Range:               dataRange(minRow, maxRow, minCol, maxCol),
			HasReferenceColumns: mapping.ValidateReference(t, opts.Reference) == nil,
		}
		if minRow >= 0 {
			info.NonEmpty = countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)
		}
		if col, ok := mapping.FindColumn(info.Columns, opts.StructureColumns); ok {
			info.StructureColumn = col
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ValidateFile checks a workbook for problems that do not stop processing:
// no sheets, blank sheets, or sheets with a header but no data rows.
func ValidateFile(wb *models.Workbook) []string {
	var issues []string
	if len(wb.Sheets) == 0 {
		issues = append(issues, "workbook contains no sheets")
	}
	for _, t := range wb.Sheets {
		switch {
		case len(t.Columns) == 0:
			issues = append(issues, fmt.Sprintf("sheet %q is empty", t.Name))
		case t.NumRows() == 0:
			issues = append(issues, fmt.Sprintf("sheet %q has no data rows", t.Name))
		}
	}
	return issues
}
