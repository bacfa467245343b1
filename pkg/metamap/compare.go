package metamap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/parser"
)

// CompareWorkbooks lists the structural differences between a and b:
// sheets present in only one of them, and per common sheet the row counts
// and the columns added or removed.
func CompareWorkbooks(a, b *models.Workbook) models.Comparison {
	var cmp models.Comparison
	for _, ta := range a.Sheets {
		tb, ok := b.Sheet(ta.Name)
		if !ok {
			cmp.OnlyInFirst = append(cmp.OnlyInFirst, ta.Name)
			continue
		}
		cmp.CommonSheets = append(cmp.CommonSheets, ta.Name)
		cmp.Sheets = append(cmp.Sheets, models.SheetDiff{
			Name:           ta.Name,
			RowsBefore:     ta.NumRows(),
			RowsAfter:      tb.NumRows(),
			AddedColumns:   missingFrom(ta, tb.ColumnNames()),
			RemovedColumns: missingFrom(tb, ta.ColumnNames()),
		})
	}
	for _, tb := range b.Sheets {
		if _, ok := a.Sheet(tb.Name); !ok {
			cmp.OnlyInSecond = append(cmp.OnlyInSecond, tb.Name)
		}
	}
	return cmp
}

// missingFrom returns the names absent from t, in the given order.
func missingFrom(t *models.Table, names []string) []string {
	var out []string
	for _, n := range names {
		if !t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

// CompareFiles loads both workbooks and compares them.
func CompareFiles(first, second string) (models.Comparison, error) {
	var books [2]*models.Workbook
	for i, path := range []string{first, second} {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return models.Comparison{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		wb, err := parser.LoadWorkbook(path)
		if err != nil {
			return models.Comparison{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		books[i] = wb
	}
	return CompareWorkbooks(books[0], books[1]), nil
}
