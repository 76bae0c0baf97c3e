package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// TilawahProgressRepository persists recitation summaries, one row per student.
type TilawahProgressRepository struct {
	db *sqlx.DB
}

// NewTilawahProgressRepository constructs a TilawahProgressRepository.
func NewTilawahProgressRepository(db *sqlx.DB) *TilawahProgressRepository {
	return &TilawahProgressRepository{db: db}
}

// List returns every tilawah summary.
func (r *TilawahProgressRepository) List(ctx context.Context) ([]models.TilawahProgress, error) {
	const query = `SELECT id, student_id, jilid, page, percentage, created_at, updated_at FROM tilawah_progress`
	rows := make([]models.TilawahProgress, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list tilawah progress: %w", err)
	}
	return rows, nil
}

// FindByStudentID returns the summary of a student or nil when none exists yet.
func (r *TilawahProgressRepository) FindByStudentID(ctx context.Context, studentID string) (*models.TilawahProgress, error) {
	const query = `SELECT id, student_id, jilid, page, percentage, created_at, updated_at FROM tilawah_progress WHERE student_id = $1`
	var row models.TilawahProgress
	if err := r.db.GetContext(ctx, &row, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || malformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find tilawah progress: %w", err)
	}
	return &row, nil
}

// Upsert writes the summary, replacing the existing row of the same student.
func (r *TilawahProgressRepository) Upsert(ctx context.Context, progress *models.TilawahProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	progress.UpdatedAt = now
	const query = `INSERT INTO tilawah_progress (id, student_id, jilid, page, percentage, created_at, updated_at)
VALUES (:id, :student_id, :jilid, :page, :percentage, :created_at, :updated_at)
ON CONFLICT (student_id)
DO UPDATE SET jilid = EXCLUDED.jilid, page = EXCLUDED.page,
              percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, progress); err != nil {
		return fmt.Errorf("upsert tilawah progress: %w", err)
	}
	return nil
}
