package student

import (
	"context"
	"database/sql"
	"errors"

	"coachtrack/internal/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListByBatch(ctx context.Context, batchID string) ([]Student, error)
	Get(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, id string, in Input) error
	Delete(ctx context.Context, id string) error
}

// Service manages batch rosters. Roll-number uniqueness is checked twice:
// an advisory pass against the loaded roster before any write, and the
// authoritative database constraint, which catches the race the advisory
// check cannot.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the batch roster ordered by roll number, optionally
// filtered by a case-insensitive substring over name and roll number.
func (s *Service) List(ctx context.Context, batchID, q string) ([]Student, error) {
	roster, err := s.store.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return Filter(roster, q), nil
}

// Get returns one student.
func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if st == nil {
		return Student{}, apperr.ErrNotFound
	}
	return *st, nil
}

// Create adds a student to a batch. A roll number already present in the
// loaded roster is rejected before the insert; a concurrent insert that
// slips past the pre-check comes back from the database as the same
// duplicate error.
func (s *Service) Create(ctx context.Context, batchID string, in Input) (Student, error) {
	if err := validate(in); err != nil {
		return Student{}, err
	}
	roster, err := s.store.ListByBatch(ctx, batchID)
	if err != nil {
		return Student{}, err
	}
	for _, existing := range roster {
		if existing.RollNumber == in.RollNumber {
			return Student{}, apperr.ErrDuplicateRoll
		}
	}

	created, err := s.store.Create(ctx, Student{
		BatchID:     batchID,
		FullName:    in.FullName,
		RollNumber:  in.RollNumber,
		Grade:       in.Grade,
		ContactInfo: in.ContactInfo,
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Student{}, apperr.ErrDuplicateRoll
		}
		return Student{}, err
	}
	return created, nil
}

// Update edits a student. The pre-check skips the student's own current
// roll number so an edit that keeps it is not a self-conflict.
func (s *Service) Update(ctx context.Context, id string, in Input) (Student, error) {
	if err := validate(in); err != nil {
		return Student{}, err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if current == nil {
		return Student{}, apperr.ErrNotFound
	}

	roster, err := s.store.ListByBatch(ctx, current.BatchID)
	if err != nil {
		return Student{}, err
	}
	for _, existing := range roster {
		if existing.ID != id && existing.RollNumber == in.RollNumber {
			return Student{}, apperr.ErrDuplicateRoll
		}
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if apperr.IsUniqueViolation(err) {
			return Student{}, apperr.ErrDuplicateRoll
		}
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apperr.ErrNotFound
		}
		return Student{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a student and, through the cascade, their attendance records.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func validate(in Input) error {
	if in.FullName == "" {
		return apperr.NewValidation("full_name", "full name is required")
	}
	if in.RollNumber == "" {
		return apperr.NewValidation("roll_number", "roll number is required")
	}
	return nil
}
