package parser

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/xuri/excelize/v2"
)

func TestExtractTable(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "smiles")
	f.SetCellValue(sheetName, "B1", "value")
	f.SetCellValue(sheetName, "A2", "CCO")
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "O")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	tbl, err := ExtractTable(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractTable failed: %v", err)
	}

	if tbl.NumRows() != 2 {
		t.Errorf("Expected 2 rows, got %d", tbl.NumRows())
	}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, []string{"smiles", "value"}) {
		t.Errorf("Expected header [smiles value], got %v", got)
	}
	values, _ := tbl.Column("value")
	if !reflect.DeepEqual(values, []string{"200.5", ""}) {
		t.Errorf("Expected padded value column, got %q", values)
	}
}

func TestExtractTable_RawValuesAndTypes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	// Row 1 is blank so the header sits on row 2.
	f.SetSheetRow(sheetName, "A2", &[]interface{}{"mass", "date", "code", "flag"})
	f.SetCellValue(sheetName, "A3", 195.08765)
	f.SetCellValue(sheetName, "B3", 45292)
	f.SetCellValue(sheetName, "C3", "1e5")
	f.SetCellBool(sheetName, "D3", true)
	f.SetCellValue(sheetName, "C4", "+5")

	twoDecimals, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	shortDate, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	f.SetCellStyle(sheetName, "A3", "A3", twoDecimals)
	f.SetCellStyle(sheetName, "B3", "B3", shortDate)

	tmpFile := filepath.Join(t.TempDir(), "typed.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	tbl, err := ExtractTable(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractTable failed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", tbl.NumRows())
	}

	tests := []struct {
		column string
		value  string
		meta   models.CellMeta
	}{
		{"mass", "195.08765", models.CellMeta{Type: models.CellNumber, NumFmt: 2}},
		{"date", "45292", models.CellMeta{Type: models.CellNumber, NumFmt: 14}},
		{"code", "1e5", models.CellMeta{Type: models.CellText}},
		{"flag", "1", models.CellMeta{Type: models.CellBool}},
	}
	for _, tt := range tests {
		col := tbl.Columns[tbl.Index(tt.column)]
		if col.Values[0] != tt.value {
			t.Errorf("%s: expected raw value %q, got %q", tt.column, tt.value, col.Values[0])
		}
		if got := col.MetaAt(0); got != tt.meta {
			t.Errorf("%s: expected meta %+v, got %+v", tt.column, tt.meta, got)
		}
	}

	code := tbl.Columns[tbl.Index("code")]
	if code.Values[1] != "+5" || code.MetaAt(1).Type != models.CellText {
		t.Errorf("Expected text \"+5\" to stay text, got %q (%+v)", code.Values[1], code.MetaAt(1))
	}
	if code.Meta != nil {
		t.Errorf("Expected no meta for an all-text column, got %+v", code.Meta)
	}
}

func TestBuildTable(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		header []string
		nrows  int
	}{
		{"blank sheet", nil, nil, 0},
		{"header only", [][]string{{"a", "b"}}, []string{"a", "b"}, 0},
		{"leading blank rows", [][]string{{}, {"", ""}, {"a"}, {"1"}}, []string{"a"}, 1},
		{"data wider than header", [][]string{{"a"}, {"1", "2"}}, []string{"a", "Unnamed: 1"}, 1},
		{"duplicate names", [][]string{{"x", "x", "x"}, {"1"}}, []string{"x", "x.1", "x.2"}, 1},
		{"blank header cell", [][]string{{"", "b"}, {"1", "2"}}, []string{"Unnamed: 0", "b"}, 1},
	}

	for _, tt := range tests {
		tbl, _ := buildTable("S", tt.rows)
		if got := tbl.ColumnNames(); len(got)+len(tt.header) > 0 && !reflect.DeepEqual(got, tt.header) {
			t.Errorf("%s: header = %q, expected %q", tt.name, got, tt.header)
		}
		if tbl.NumRows() != tt.nrows {
			t.Errorf("%s: rows = %d, expected %d", tt.name, tbl.NumRows(), tt.nrows)
		}
	}
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{"a", "a", "a.1"}, 3)
	expected := []string{"a", "a.1", "a.1.1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("headerNames = %q, expected %q", got, expected)
	}
}

func TestDataRange(t *testing.T) {
	rows := [][]string{{}, {"", "x", "y"}, {"", "", "z"}}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if r := dataRange(minRow, maxRow, minCol, maxCol); r != "B2:C3" {
		t.Errorf("dataRange = %q, expected B2:C3", r)
	}
	if n := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol); n != 3 {
		t.Errorf("countNonEmptyCells = %d, expected 3", n)
	}
	if r := dataRange(findDataBounds(nil)); r != "" {
		t.Errorf("dataRange of empty sheet = %q, expected empty", r)
	}
}
