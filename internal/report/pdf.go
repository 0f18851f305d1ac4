package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the document export: title, period line, and the
// overall totals. The per-student breakdown stays CSV-only.
func WritePDF(w io.Writer, batchName string, rng Range, totals Totals) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, fmt.Sprintf("Attendance Report - %s", batchName))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		rng.Start.Format("Jan 2, 2006"), rng.End.Format("Jan 2, 2006")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Overall Statistics")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	for _, line := range []struct {
		label string
		value int
	}{
		{"Present", totals.Present},
		{"Absent", totals.Absent},
		{"Late", totals.Late},
	} {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %d", line.label, line.value))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "I", 9)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("Jan 2, 2006 15:04")))

	return pdf.Output(w)
}
