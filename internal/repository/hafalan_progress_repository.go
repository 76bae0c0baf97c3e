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

// HafalanProgressRepository persists memorization summaries, one row per student.
type HafalanProgressRepository struct {
	db *sqlx.DB
}

// NewHafalanProgressRepository constructs a HafalanProgressRepository.
func NewHafalanProgressRepository(db *sqlx.DB) *HafalanProgressRepository {
	return &HafalanProgressRepository{db: db}
}

// List returns every hafalan summary.
func (r *HafalanProgressRepository) List(ctx context.Context) ([]models.HafalanProgress, error) {
	const query = `SELECT id, student_id, total_surah, last_surah, percentage, created_at, updated_at FROM hafalan_progress`
	rows := make([]models.HafalanProgress, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list hafalan progress: %w", err)
	}
	return rows, nil
}

// FindByStudentID returns the summary of a student or nil when none exists yet.
func (r *HafalanProgressRepository) FindByStudentID(ctx context.Context, studentID string) (*models.HafalanProgress, error) {
	const query = `SELECT id, student_id, total_surah, last_surah, percentage, created_at, updated_at FROM hafalan_progress WHERE student_id = $1`
	var row models.HafalanProgress
	if err := r.db.GetContext(ctx, &row, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || malformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find hafalan progress: %w", err)
	}
	return &row, nil
}

// Upsert writes the summary, replacing the existing row of the same student.
func (r *HafalanProgressRepository) Upsert(ctx context.Context, progress *models.HafalanProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	progress.UpdatedAt = now
	const query = `INSERT INTO hafalan_progress (id, student_id, total_surah, last_surah, percentage, created_at, updated_at)
VALUES (:id, :student_id, :total_surah, :last_surah, :percentage, :created_at, :updated_at)
ON CONFLICT (student_id)
DO UPDATE SET total_surah = EXCLUDED.total_surah, last_surah = EXCLUDED.last_surah,
              percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, progress); err != nil {
		return fmt.Errorf("upsert hafalan progress: %w", err)
	}
	return nil
}
