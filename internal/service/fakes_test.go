package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
)

type fakeStudentRepo struct {
	students  []models.Student
	listErr   error
	findErr   error
	writeErr  error
	listCalls int
	deleted   []string
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, s := range f.students {
		if s.ID == id {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.students {
		if f.students[i].ID == student.ID {
			f.students[i] = *student
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.students {
		if f.students[i].ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeHafalanRepo struct {
	rows      []models.HafalanProgress
	listErr   error
	findErr   error
	upsertErr error
}

func (f *fakeHafalanRepo) List(ctx context.Context) ([]models.HafalanProgress, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.HafalanProgress(nil), f.rows...), nil
}

func (f *fakeHafalanRepo) FindByStudentID(ctx context.Context, studentID string) (*models.HafalanProgress, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, row := range f.rows {
		if row.StudentID == studentID {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeHafalanRepo) Upsert(ctx context.Context, progress *models.HafalanProgress) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.rows {
		if f.rows[i].StudentID == progress.StudentID {
			f.rows[i] = *progress
			return nil
		}
	}
	f.rows = append(f.rows, *progress)
	return nil
}

type fakeTilawahRepo struct {
	rows      []models.TilawahProgress
	listErr   error
	findErr   error
	upsertErr error
}

func (f *fakeTilawahRepo) List(ctx context.Context) ([]models.TilawahProgress, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.TilawahProgress(nil), f.rows...), nil
}

func (f *fakeTilawahRepo) FindByStudentID(ctx context.Context, studentID string) (*models.TilawahProgress, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, row := range f.rows {
		if row.StudentID == studentID {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeTilawahRepo) Upsert(ctx context.Context, progress *models.TilawahProgress) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.rows {
		if f.rows[i].StudentID == progress.StudentID {
			f.rows[i] = *progress
			return nil
		}
	}
	f.rows = append(f.rows, *progress)
	return nil
}

type fakeEntryRepo struct {
	entries   []models.ProgressEntry
	createErr error
	listErr   error
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry *models.ProgressEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeEntryRepo) ListByStudent(ctx context.Context, studentID string) ([]models.ProgressEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.ProgressEntry, 0)
	for _, e := range f.entries {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

type stubCacheRepo struct {
	store   map[string][]byte
	deletes int
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.store, key)
	}
	s.deletes++
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range s.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.store, key)
		}
	}
	s.deletes++
	return nil
}
