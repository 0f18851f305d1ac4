package attendance

import "time"

// Status is a per-day attendance state. A student with no record for the
// day is unmarked; marked states transition freely between each other.
type Status string

// Accepted statuses.
const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// Valid reports whether s is one of the accepted statuses.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// Record is one student's attendance for one day. At most one record
// exists per (student_id, date); writes upsert on that key.
type Record struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	Date      time.Time `db:"date" json:"date"`
	Status    Status    `db:"status" json:"status"`
	MarkedBy  string    `db:"marked_by" json:"marked_by"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Summary is the advisory per-day counters shown while marking.
type Summary struct {
	Total    int `json:"total"`
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Unmarked int `json:"unmarked"`
}

// Summarize derives the day's counters from its records and the roster
// size. Unmarked is whatever the records do not cover.
func Summarize(total int, records []Record) Summary {
	sum := Summary{Total: total}
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		}
	}
	sum.Unmarked = total - (sum.Present + sum.Absent + sum.Late)
	if sum.Unmarked < 0 {
		sum.Unmarked = 0
	}
	return sum
}
