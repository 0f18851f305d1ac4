package batch

import (
	"context"
	"database/sql"
	"errors"

	"coachtrack/internal/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]Batch, error)
	Get(ctx context.Context, id string) (*Batch, error)
	Create(ctx context.Context, b Batch) (Batch, error)
	Update(ctx context.Context, id string, in Input) error
	Delete(ctx context.Context, id string) error
}

// Service validates and persists batches.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all batches, newest first.
func (s *Service) List(ctx context.Context) ([]Batch, error) {
	return s.store.List(ctx)
}

// Get returns one batch.
func (s *Service) Get(ctx context.Context, id string) (Batch, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	if b == nil {
		return Batch{}, apperr.ErrNotFound
	}
	return *b, nil
}

// Create validates the input and inserts a batch stamped with the acting user.
func (s *Service) Create(ctx context.Context, in Input, actorID string) (Batch, error) {
	if err := validate(in); err != nil {
		return Batch{}, err
	}
	return s.store.Create(ctx, Batch{
		Name:       in.Name,
		CourseType: in.CourseType,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		CreatedBy:  actorID,
	})
}

// Update validates the input and overwrites the batch. Last writer wins.
func (s *Service) Update(ctx context.Context, id string, in Input) (Batch, error) {
	if err := validate(in); err != nil {
		return Batch{}, err
	}
	if err := s.store.Update(ctx, id, in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, apperr.ErrNotFound
		}
		return Batch{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a batch and, through the database cascade, its students
// and attendance records.
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
	if in.Name == "" {
		return apperr.NewValidation("name", "name is required")
	}
	if !ValidCourseType(in.CourseType) {
		return apperr.NewValidation("course_type", "unknown course type")
	}
	if in.StartDate.After(in.EndDate) {
		return apperr.NewValidation("start_date", "start date must not be after end date")
	}
	return nil
}
