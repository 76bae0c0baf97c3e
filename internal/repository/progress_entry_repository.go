package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// ProgressEntryRepository appends and reads the per-session progress log.
type ProgressEntryRepository struct {
	db *sqlx.DB
}

// NewProgressEntryRepository constructs a ProgressEntryRepository.
func NewProgressEntryRepository(db *sqlx.DB) *ProgressEntryRepository {
	return &ProgressEntryRepository{db: db}
}

// Create appends an entry. Entries are never updated afterwards. An unknown or malformed
// student surfaces as sql.ErrNoRows.
func (r *ProgressEntryRepository) Create(ctx context.Context, entry *models.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO progress_entries (id, student_id, date, type, surah_or_jilid, ayat_or_page, notes, created_at)
        VALUES (:id, :student_id, :date, :type, :surah_or_jilid, :ayat_or_page, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		if hasPQCode(err, foreignKeyViolation) || malformedID(err) {
			return fmt.Errorf("create progress entry: %w", sql.ErrNoRows)
		}
		return fmt.Errorf("create progress entry: %w", err)
	}
	return nil
}

// ListByStudent returns the entries of a student, newest first.
func (r *ProgressEntryRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ProgressEntry, error) {
	const query = `SELECT id, student_id, date, type, surah_or_jilid, ayat_or_page, notes, created_at
        FROM progress_entries WHERE student_id = $1 ORDER BY date DESC, created_at DESC`
	entries := make([]models.ProgressEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		if malformedID(err) {
			return []models.ProgressEntry{}, nil
		}
		return nil, fmt.Errorf("list progress entries: %w", err)
	}
	return entries, nil
}
