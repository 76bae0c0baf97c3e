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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, name, photo, group_name, grade, teacher, created_at, updated_at FROM students ORDER BY name ASC, created_at ASC`
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID. sql.ErrNoRows is returned untouched.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, name, photo, group_name, grade, teacher, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if malformedID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a student together with empty hafalan and tilawah summaries.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student tx: %w", err)
	}
	const insertStudent = `INSERT INTO students (id, name, photo, group_name, grade, teacher, created_at, updated_at)
        VALUES (:id, :name, :photo, :group_name, :grade, :teacher, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertStudent, student); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create student: %w", err)
	}
	const insertHafalan = `INSERT INTO hafalan_progress (id, student_id, total_surah, last_surah, percentage, created_at, updated_at)
        VALUES ($1, $2, 0, NULL, 0, $3, $3)`
	if _, err := tx.ExecContext(ctx, insertHafalan, uuid.NewString(), student.ID, now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create hafalan summary: %w", err)
	}
	const insertTilawah = `INSERT INTO tilawah_progress (id, student_id, jilid, page, percentage, created_at, updated_at)
        VALUES ($1, $2, NULL, NULL, 0, $3, $3)`
	if _, err := tx.ExecContext(ctx, insertTilawah, uuid.NewString(), student.ID, now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create tilawah summary: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student tx: %w", err)
	}
	return nil
}

// Update modifies an existing student. sql.ErrNoRows is returned when nothing matched.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, photo = :photo, group_name = :group_name, grade = :grade, teacher = :teacher, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		if malformedID(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update student: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a student. Summaries and entries cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		if malformedID(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
