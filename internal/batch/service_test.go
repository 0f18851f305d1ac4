package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coachtrack/internal/apperr"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]Batch, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Batch), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id string) (*Batch, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Batch), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, b Batch) (Batch, error) {
	args := m.Called(b)
	return args.Get(0).(Batch), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id string, in Input) error {
	args := m.Called(id, in)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func validInput() Input {
	return Input{
		Name:       "JEE 2024 Morning",
		CourseType: "Engineering",
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateStampsActor(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.MatchedBy(func(b Batch) bool {
		return b.CreatedBy == "u1" && b.Name == "JEE 2024 Morning"
	})).Return(Batch{ID: "b1", CreatedBy: "u1"}, nil)
	svc := NewService(store)

	created, err := svc.Create(context.Background(), validInput(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", created.CreatedBy)
	store.AssertExpectations(t)
}

func TestCreateRejectsReversedDates(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	in := validInput()
	in.StartDate, in.EndDate = in.EndDate, in.StartDate

	_, err := svc.Create(context.Background(), in, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "start_date", vErr.Field)
	store.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateAllowsSingleDayBatch(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything).Return(Batch{ID: "b1"}, nil)
	svc := NewService(store)

	in := validInput()
	in.EndDate = in.StartDate

	_, err := svc.Create(context.Background(), in, "u1")
	require.NoError(t, err)
}

func TestCreateRejectsUnknownCourseType(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	in := validInput()
	in.CourseType = "Astrology"

	_, err := svc.Create(context.Background(), in, "u1")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "course_type", vErr.Field)
}

func TestGetMissingBatch(t *testing.T) {
	store := new(MockStore)
	store.On("Get", "nope").Return(nil, nil)
	svc := NewService(store)

	_, err := svc.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestValidCourseType(t *testing.T) {
	for _, ct := range CourseTypes {
		assert.True(t, ValidCourseType(ct), ct)
	}
	assert.False(t, ValidCourseType("engineering"), "enum is case sensitive")
}
