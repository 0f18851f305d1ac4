package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists students in Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListByBatch returns the batch roster ordered by roll number.
func (r *Repository) ListByBatch(ctx context.Context, batchID string) ([]Student, error) {
	var students []Student
	err := r.db.SelectContext(ctx, &students, `
		SELECT id, batch_id, full_name, roll_number, grade, contact_info
		FROM students
		WHERE batch_id = $1
		ORDER BY roll_number ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Get returns a single student by id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, `
		SELECT id, batch_id, full_name, roll_number, grade, contact_info
		FROM students WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

// Create inserts a new student. A duplicate (batch_id, roll_number) pair
// surfaces as the database unique violation, unwrapped for the caller.
func (r *Repository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, batch_id, full_name, roll_number, grade, contact_info)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.BatchID, s.FullName, s.RollNumber, s.Grade, s.ContactInfo)
	if err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update overwrites the mutable fields of a student.
func (r *Repository) Update(ctx context.Context, id string, in Input) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET full_name = $2, roll_number = $3, grade = $4, contact_info = $5
		WHERE id = $1
	`, id, in.FullName, in.RollNumber, in.Grade, in.ContactInfo)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student; attendance records cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
