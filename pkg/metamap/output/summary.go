package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
)

// maxListedUnmatched bounds the unmatched formulas printed in a summary.
const maxListedUnmatched = 20

// WriteSummary prints a human-readable account of a run.
func WriteSummary(w io.Writer, r *models.Report) error {
	rows, formulas, matched, unmatched := r.Totals()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Input:\t%s\n", r.Input)
	fmt.Fprintf(tw, "Output:\t%s\n", r.Output)
	if r.Backup != "" {
		fmt.Fprintf(tw, "Backup:\t%s\n", r.Backup)
	}
	fmt.Fprintf(tw, "Reference sheet:\t%s (%d mapped, %d skipped, %d duplicates)\n",
		r.ReferenceSheet, r.Reference.Mapped, r.Reference.Skipped, r.Reference.Duplicates)
	fmt.Fprintf(tw, "Rows:\t%d\n", rows)
	fmt.Fprintf(tw, "Formulas derived:\t%d\n", formulas)
	fmt.Fprintf(tw, "Names matched:\t%d\n", matched)
	fmt.Fprintf(tw, "Names unmatched:\t%d\n", unmatched)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SHEET\tROWS\tVALID\tINVALID\tERROR\tSUCCESS\tMATCHED\tUNMATCHED\tMATCH")
	for _, s := range r.Sheets {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Rows, formulaCells(s), mappingCells(s))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if list := r.UnmatchedFormulas(); len(list) > 0 {
		fmt.Fprintf(w, "\nUnmatched formulas (%d distinct):\n", len(list))
		for i, u := range list {
			if i == maxListedUnmatched {
				fmt.Fprintf(w, "  ... and %d more\n", len(list)-maxListedUnmatched)
				break
			}
			fmt.Fprintf(w, "  %s (%d)\n", u.Formula, u.Count)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}
	return nil
}

func formulaCells(s models.SheetReport) string {
	switch {
	case s.Excluded:
		return "excluded\t\t\t"
	case s.Formula == nil || s.Formula.Skipped:
		return "-\t-\t-\t-"
	}
	f := s.Formula
	return fmt.Sprintf("%d\t%d\t%d\t%.1f%%", f.Valid, f.Invalid, f.Error, f.SuccessRate())
}

func mappingCells(s models.SheetReport) string {
	switch {
	case s.Reference:
		return "reference\t\t"
	case s.Mapping == nil || s.Mapping.Skipped:
		return "-\t-\t-"
	}
	m := s.Mapping
	return fmt.Sprintf("%d\t%d\t%.1f%%", m.Matched, m.Unmatched, m.MatchRate())
}
