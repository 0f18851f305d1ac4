package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListDay returns a batch's records for one day.
func (r *Repository) ListDay(ctx context.Context, batchID string, date time.Time) ([]Record, error) {
	var records []Record
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, student_id, batch_id, date, status, marked_by, updated_at
		FROM attendance_records
		WHERE batch_id = $1 AND date = $2
	`, batchID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list day records: %w", err)
	}
	return records, nil
}

// ListRange returns a batch's records between from and to, inclusive.
func (r *Repository) ListRange(ctx context.Context, batchID string, from, to time.Time) ([]Record, error) {
	var records []Record
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, student_id, batch_id, date, status, marked_by, updated_at
		FROM attendance_records
		WHERE batch_id = $1 AND date >= $2 AND date <= $3
	`, batchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list range records: %w", err)
	}
	return records, nil
}

// Upsert writes one record, inserting on first mark and updating on any
// later mark for the same (student_id, date).
func (r *Repository) Upsert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, student_id, batch_id, date, status, marked_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			marked_by = EXCLUDED.marked_by,
			updated_at = NOW()
	`, rec.ID, rec.StudentID, rec.BatchID, rec.Date, rec.Status, rec.MarkedBy)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// BulkUpsert writes every record in one round trip, keyed on
// (student_id, date).
func (r *Repository) BulkUpsert(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = uuid.NewString()
		}
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO attendance_records (id, student_id, batch_id, date, status, marked_by)
		VALUES (:id, :student_id, :batch_id, :date, :status, :marked_by)
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			marked_by = EXCLUDED.marked_by,
			updated_at = NOW()
	`, recs)
	if err != nil {
		return fmt.Errorf("failed to bulk upsert records: %w", err)
	}
	return nil
}
