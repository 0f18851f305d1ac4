package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists batches in Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns all batches, newest first.
func (r *Repository) List(ctx context.Context) ([]Batch, error) {
	var batches []Batch
	err := r.db.SelectContext(ctx, &batches, `
		SELECT id, name, course_type, start_date, end_date, created_at, created_by
		FROM batches
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

// Get returns a single batch by id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Batch, error) {
	var b Batch
	err := r.db.GetContext(ctx, &b, `
		SELECT id, name, course_type, start_date, end_date, created_at, created_by
		FROM batches WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return &b, nil
}

// Create inserts a new batch and returns it with timestamps filled in.
func (r *Repository) Create(ctx context.Context, b Batch) (Batch, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	row := r.db.QueryRowxContext(ctx, `
		INSERT INTO batches (id, name, course_type, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, b.ID, b.Name, b.CourseType, b.StartDate, b.EndDate, b.CreatedBy)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Batch{}, fmt.Errorf("failed to create batch: %w", err)
	}
	return b, nil
}

// Update overwrites the mutable fields of a batch. Last writer wins.
func (r *Repository) Update(ctx context.Context, id string, in Input) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE batches
		SET name = $2, course_type = $3, start_date = $4, end_date = $5
		WHERE id = $1
	`, id, in.Name, in.CourseType, in.StartDate, in.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a batch. Students and attendance records go with it via
// ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
