package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders the per-student summaries as a spreadsheet with the
// fixed header row the reporting UI expects.
func WriteCSV(w io.Writer, rows []StudentSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Roll Number", "Name", "Present Days", "Absent Days", "Late Days", "Attendance %"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.RollNumber,
			row.Name,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Late),
			strconv.FormatFloat(row.Percentage, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
