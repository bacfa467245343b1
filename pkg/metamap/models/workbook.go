package models

// Workbook is an ordered collection of sheets. Sheet order is preserved on write.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds the tables in sheet order.
	Sheets []*Table `json:"sheets"`
}

// Sheet returns the table with the given name.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	for _, t := range w.Sheets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, t := range w.Sheets {
		names[i] = t.Name
	}
	return names
}
