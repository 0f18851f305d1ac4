package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coachtrack/internal/apperr"
	"coachtrack/internal/student"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListDay(ctx context.Context, batchID string, date time.Time) ([]Record, error) {
	args := m.Called(batchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockStore) ListRange(ctx context.Context, batchID string, from, to time.Time) ([]Record, error) {
	args := m.Called(batchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockStore) Upsert(ctx context.Context, rec Record) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockStore) BulkUpsert(ctx context.Context, recs []Record) error {
	args := m.Called(recs)
	return args.Error(0)
}

type MockRoster struct {
	mock.Mock
}

func (m *MockRoster) Get(ctx context.Context, id string) (*student.Student, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *MockRoster) ListByBatch(ctx context.Context, batchID string) ([]student.Student, error) {
	args := m.Called(batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]student.Student), args.Error(1)
}

// rosterWith enrolls the given student ids in batch b1.
func rosterWith(ids ...string) *MockRoster {
	roster := new(MockRoster)
	students := make([]student.Student, 0, len(ids))
	for _, id := range ids {
		st := student.Student{ID: id, BatchID: "b1"}
		students = append(students, st)
		roster.On("Get", id).Return(&st, nil)
	}
	roster.On("ListByBatch", "b1").Return(students, nil)
	return roster
}

var day = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestMarkRejectsUnknownStatus(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, rosterWith("s1"))

	err := svc.Mark(context.Background(), "b1", "s1", day, Status("tardy"), "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	store.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestMarkUpserts(t *testing.T) {
	store := new(MockStore)
	store.On("Upsert", mock.MatchedBy(func(rec Record) bool {
		return rec.StudentID == "s1" && rec.BatchID == "b1" && rec.Status == StatusLate && rec.MarkedBy == "u1"
	})).Return(nil)
	svc := NewService(store, rosterWith("s1"))

	require.NoError(t, svc.Mark(context.Background(), "b1", "s1", day, StatusLate, "u1"))
	store.AssertExpectations(t)
}

func TestMarkRejectsStudentOutsideBatch(t *testing.T) {
	store := new(MockStore)
	roster := new(MockRoster)
	roster.On("Get", "s9").Return(&student.Student{ID: "s9", BatchID: "b2"}, nil)
	svc := NewService(store, roster)

	err := svc.Mark(context.Background(), "b1", "s9", day, StatusPresent, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "student_id", vErr.Field)
	store.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestMarkRejectsUnknownStudent(t *testing.T) {
	store := new(MockStore)
	roster := new(MockRoster)
	roster.On("Get", "ghost").Return(nil, nil)
	svc := NewService(store, roster)

	err := svc.Mark(context.Background(), "b1", "ghost", day, StatusPresent, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	store.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestBulkSaveEmptyMap(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, rosterWith())

	_, err := svc.BulkSave(context.Background(), "b1", day, nil, "u1")

	assert.ErrorIs(t, err, apperr.ErrNothingToSave)
	store.AssertNotCalled(t, "BulkUpsert", mock.Anything)
}

func TestBulkSaveOneRecordPerMarkedStudent(t *testing.T) {
	store := new(MockStore)
	store.On("BulkUpsert", mock.MatchedBy(func(recs []Record) bool {
		if len(recs) != 2 {
			return false
		}
		seen := map[string]Status{}
		for _, rec := range recs {
			if rec.BatchID != "b1" || !rec.Date.Equal(day) || rec.MarkedBy != "u1" {
				return false
			}
			seen[rec.StudentID] = rec.Status
		}
		return seen["s1"] == StatusPresent && seen["s2"] == StatusAbsent
	})).Return(nil)
	svc := NewService(store, rosterWith("s1", "s2"))

	saved, err := svc.BulkSave(context.Background(), "b1", day, map[string]Status{
		"s1": StatusPresent,
		"s2": StatusAbsent,
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	store.AssertExpectations(t)
}

func TestBulkSaveRejectsBadStatus(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, rosterWith("s1"))

	_, err := svc.BulkSave(context.Background(), "b1", day, map[string]Status{"s1": "maybe"}, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	store.AssertNotCalled(t, "BulkUpsert", mock.Anything)
}

func TestBulkSaveRejectsStudentOutsideBatch(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, rosterWith("s1"))

	_, err := svc.BulkSave(context.Background(), "b1", day, map[string]Status{
		"s1": StatusPresent,
		"s9": StatusPresent,
	}, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "student_id", vErr.Field)
	store.AssertNotCalled(t, "BulkUpsert", mock.Anything)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Status: StatusPresent},
		{Status: StatusPresent},
		{Status: StatusAbsent},
		{Status: StatusLate},
	}

	sum := Summarize(6, records)

	assert.Equal(t, Summary{Total: 6, Present: 2, Absent: 1, Late: 1, Unmarked: 2}, sum)
}

func TestSummarizeAllUnmarked(t *testing.T) {
	sum := Summarize(4, nil)
	assert.Equal(t, Summary{Total: 4, Unmarked: 4}, sum)
}
