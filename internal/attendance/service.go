package attendance

import (
	"context"
	"sort"
	"time"

	"coachtrack/internal/apperr"
	"coachtrack/internal/metrics"
	"coachtrack/internal/student"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListDay(ctx context.Context, batchID string, date time.Time) ([]Record, error)
	ListRange(ctx context.Context, batchID string, from, to time.Time) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
	BulkUpsert(ctx context.Context, recs []Record) error
}

// Roster resolves batch membership. A mark for a student outside the
// batch would skew that batch's counters, so writes check it first.
type Roster interface {
	Get(ctx context.Context, id string) (*student.Student, error)
	ListByBatch(ctx context.Context, batchID string) ([]student.Student, error)
}

// Service coordinates daily attendance marking.
type Service struct {
	store  Store
	roster Roster
}

// NewService creates a service backed by a store and a student roster.
func NewService(store Store, roster Roster) *Service {
	return &Service{store: store, roster: roster}
}

// Day returns the marking state for a batch and day: every record written
// so far, in stable student order.
func (s *Service) Day(ctx context.Context, batchID string, date time.Time) ([]Record, error) {
	records, err := s.store.ListDay(ctx, batchID, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records, nil
}

// Mark writes a single student's status for the day, inserting on first
// mark and overwriting on any later one.
func (s *Service) Mark(ctx context.Context, batchID, studentID string, date time.Time, status Status, actorID string) error {
	if !status.Valid() {
		return apperr.NewValidation("status", "status must be present, absent, or late")
	}
	st, err := s.roster.Get(ctx, studentID)
	if err != nil {
		return err
	}
	if st == nil || st.BatchID != batchID {
		return apperr.NewValidation("student_id", "student is not in this batch")
	}
	err = s.store.Upsert(ctx, Record{
		StudentID: studentID,
		BatchID:   batchID,
		Date:      date,
		Status:    status,
		MarkedBy:  actorID,
	})
	if err != nil {
		return err
	}
	metrics.AttendanceMarksTotal.WithLabelValues(string(status)).Inc()
	return nil
}

// BulkSave writes one record per marked student in a single upsert round
// trip. Unmarked students have no entry in marks and are skipped; an empty
// map means there is nothing to save.
func (s *Service) BulkSave(ctx context.Context, batchID string, date time.Time, marks map[string]Status, actorID string) (int, error) {
	if len(marks) == 0 {
		return 0, apperr.ErrNothingToSave
	}
	roster, err := s.roster.ListByBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	members := make(map[string]struct{}, len(roster))
	for _, st := range roster {
		members[st.ID] = struct{}{}
	}
	recs := make([]Record, 0, len(marks))
	for studentID, status := range marks {
		if !status.Valid() {
			return 0, apperr.NewValidation("status", "status must be present, absent, or late")
		}
		if _, ok := members[studentID]; !ok {
			return 0, apperr.NewValidation("student_id", "student is not in this batch")
		}
		recs = append(recs, Record{
			StudentID: studentID,
			BatchID:   batchID,
			Date:      date,
			Status:    status,
			MarkedBy:  actorID,
		})
	}
	if err := s.store.BulkUpsert(ctx, recs); err != nil {
		return 0, err
	}
	for _, rec := range recs {
		metrics.AttendanceMarksTotal.WithLabelValues(string(rec.Status)).Inc()
	}
	return len(recs), nil
}

// DaySummary derives the advisory counters for a day given the roster size.
func (s *Service) DaySummary(ctx context.Context, batchID string, date time.Time, rosterSize int) (Summary, error) {
	records, err := s.store.ListDay(ctx, batchID, date)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rosterSize, records), nil
}
