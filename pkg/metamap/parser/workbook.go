package parser

import (
	"path/filepath"
	"strings"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the workbook formats the loader accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// IsSupported reports whether path has a supported workbook extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadWorkbook reads every sheet of the file at path, in sheet order.
// The file is closed before LoadWorkbook returns.
func LoadWorkbook(path string) (*models.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &models.Workbook{BookName: filepath.Base(path)}
	for _, sheetName := range f.GetSheetList() {
		t, err := ExtractTable(f, sheetName)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, t)
	}
	return wb, nil
}
