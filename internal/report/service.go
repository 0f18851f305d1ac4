package report

import (
	"context"
	"math"
	"sort"
	"time"

	"coachtrack/internal/apperr"
	"coachtrack/internal/attendance"
	"coachtrack/internal/student"
)

// Range modes accepted by the report endpoints.
const (
	ModeLast7Days  = "7days"
	ModeLast30Days = "30days"
	ModeMonth      = "month"
)

// Range is an inclusive date window.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve maps a range mode onto concrete dates anchored on now. The
// trailing windows are calendar-day inclusive, so "7days" always covers
// exactly seven dates ending today, month boundaries notwithstanding.
func Resolve(mode string, now time.Time) (Range, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch mode {
	case ModeLast7Days:
		return Range{Start: day.AddDate(0, 0, -6), End: day}, nil
	case ModeLast30Days:
		return Range{Start: day.AddDate(0, 0, -29), End: day}, nil
	case ModeMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return Range{Start: first, End: last}, nil
	default:
		return Range{}, apperr.NewValidation("range", "range must be 7days, 30days, or month")
	}
}

// DayStat is one day's counts in the per-day series.
type DayStat struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
}

// Totals are the overall counts across the whole range.
type Totals struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// Overview is the chart-ready aggregation for a batch and range.
type Overview struct {
	Range   Range     `json:"range"`
	Daily   []DayStat `json:"daily"`
	Overall Totals    `json:"overall"`
}

// StudentSummary is one row of the spreadsheet export.
type StudentSummary struct {
	RollNumber string  `json:"roll_number"`
	Name       string  `json:"name"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Percentage float64 `json:"percentage"`
}

// DailyCounts groups records by date and counts each status, ascending by
// date. Days with no records simply do not appear.
func DailyCounts(records []attendance.Record) []DayStat {
	byDate := make(map[string]*DayStat)
	for _, rec := range records {
		key := rec.Date.Format(time.DateOnly)
		stat, ok := byDate[key]
		if !ok {
			stat = &DayStat{Date: key}
			byDate[key] = stat
		}
		switch rec.Status {
		case attendance.StatusPresent:
			stat.Present++
		case attendance.StatusAbsent:
			stat.Absent++
		case attendance.StatusLate:
			stat.Late++
		}
	}
	out := make([]DayStat, 0, len(byDate))
	for _, stat := range byDate {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// OverallCounts sums each status across the whole range.
func OverallCounts(records []attendance.Record) Totals {
	var t Totals
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			t.Present++
		case attendance.StatusAbsent:
			t.Absent++
		case attendance.StatusLate:
			t.Late++
		}
	}
	return t
}

// Summarize computes per-student counts and the attendance percentage,
// defined as (present + late) / marked days, as a percentage rounded to
// two decimals. Zero marked days is 0, not a division error.
func Summarize(roster []student.Student, records []attendance.Record) []StudentSummary {
	byStudent := make(map[string]*StudentSummary, len(roster))
	out := make([]StudentSummary, len(roster))
	for i, st := range roster {
		out[i] = StudentSummary{RollNumber: st.RollNumber, Name: st.FullName}
		byStudent[st.ID] = &out[i]
	}
	for _, rec := range records {
		sum, ok := byStudent[rec.StudentID]
		if !ok {
			continue
		}
		switch rec.Status {
		case attendance.StatusPresent:
			sum.Present++
		case attendance.StatusAbsent:
			sum.Absent++
		case attendance.StatusLate:
			sum.Late++
		}
	}
	for i := range out {
		total := out[i].Present + out[i].Absent + out[i].Late
		if total > 0 {
			pct := float64(out[i].Present+out[i].Late) / float64(total) * 100
			out[i].Percentage = math.Round(pct*100) / 100
		}
	}
	return out
}

// AttendanceStore reads attendance records for a range.
type AttendanceStore interface {
	ListRange(ctx context.Context, batchID string, from, to time.Time) ([]attendance.Record, error)
}

// StudentStore reads a batch roster.
type StudentStore interface {
	ListByBatch(ctx context.Context, batchID string) ([]student.Student, error)
}

// Service assembles reports from the attendance and student stores.
type Service struct {
	attendance AttendanceStore
	students   StudentStore
}

// NewService creates a report service.
func NewService(attendanceStore AttendanceStore, studentStore StudentStore) *Service {
	return &Service{attendance: attendanceStore, students: studentStore}
}

// Overview fetches the range's records and aggregates them per day and
// overall.
func (s *Service) Overview(ctx context.Context, batchID, mode string, now time.Time) (Overview, error) {
	rng, err := Resolve(mode, now)
	if err != nil {
		return Overview{}, err
	}
	records, err := s.attendance.ListRange(ctx, batchID, rng.Start, rng.End)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Range:   rng,
		Daily:   DailyCounts(records),
		Overall: OverallCounts(records),
	}, nil
}

// StudentSummaries computes the per-student export rows for a range.
func (s *Service) StudentSummaries(ctx context.Context, batchID, mode string, now time.Time) ([]StudentSummary, Range, error) {
	rng, err := Resolve(mode, now)
	if err != nil {
		return nil, Range{}, err
	}
	roster, err := s.students.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, Range{}, err
	}
	records, err := s.attendance.ListRange(ctx, batchID, rng.Start, rng.End)
	if err != nil {
		return nil, Range{}, err
	}
	return Summarize(roster, records), rng, nil
}
