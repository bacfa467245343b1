// Package models defines the in-memory workbook, table and statistics types.
package models

import "fmt"

// CellType records how a loaded cell value is stored in the workbook.
type CellType uint8

const (
	// CellText is a string cell; also the type of every derived value.
	CellText CellType = iota
	// CellNumber is a numeric cell, dates included.
	CellNumber
	// CellBool is a boolean cell stored as "1" or "0".
	CellBool
)

// CellMeta is the stored type and number format of one loaded cell.
type CellMeta struct {
	Type CellType `json:"type"`
	// NumFmt is the built-in number format id, 0 for General.
	NumFmt int `json:"num_fmt,omitempty"`
	// CustomNumFmt is the format code of a custom number format.
	CustomNumFmt string `json:"custom_num_fmt,omitempty"`
}

// Column is a named sequence of cell values aligned by row index.
type Column struct {
	// Name is the header text of the column.
	Name string `json:"name"`
	// Values holds one cell per row. An empty string is an absent value.
	// Loaded numbers hold their raw stored value, not the displayed text.
	Values []string `json:"values"`
	// Meta is nil or holds one entry per row. A nil Meta means every
	// value is text.
	Meta []CellMeta `json:"meta,omitempty"`
}

// MetaAt returns the stored type and format of row r.
func (c Column) MetaAt(r int) CellMeta {
	if r < len(c.Meta) {
		return c.Meta[r]
	}
	return CellMeta{}
}

// Table represents a single sheet as ordered columns of equal length.
type Table struct {
	// Name is the sheet name, unique within a workbook.
	Name string `json:"name"`
	// Columns are kept in header order.
	Columns []Column `json:"columns"`

	rows int
}

// NewTable builds a table from a header and row-major data.
// Rows shorter than the header are padded with empty cells; extra cells are dropped.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, rows: len(rows)}
	t.Columns = make([]Column, len(header))
	for c, h := range header {
		values := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				values[r] = row[c]
			}
		}
		t.Columns[c] = Column{Name: h, Values: values}
	}
	return t
}

// NumRows returns the number of data rows (header excluded).
func (t *Table) NumRows() int {
	return t.rows
}

// ColumnNames returns the header in column order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the column with the exact name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.Index(name)
	if i < 0 {
		return nil, false
	}
	return t.Columns[i].Values, true
}

// HasColumn reports whether a column with the exact name exists.
func (t *Table) HasColumn(name string) bool {
	return t.Index(name) >= 0
}

// SetColumn overwrites the named column in place, or appends it when absent.
// The number of values must equal NumRows. The column holds text afterwards.
func (t *Table) SetColumn(name string, values []string) error {
	if len(t.Columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table %q has %d rows", name, len(values), t.Name, t.rows)
	}
	if len(t.Columns) == 0 {
		t.rows = len(values)
	}
	if i := t.Index(name); i >= 0 {
		t.Columns[i] = Column{Name: name, Values: values}
		return nil
	}
	t.Columns = append(t.Columns, Column{Name: name, Values: values})
	return nil
}
