package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentRequest holds the payload for creating or replacing a student.
type StudentRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Photo     string `json:"photo" validate:"omitempty,uri"`
	GroupName string `json:"group_name" validate:"required"`
	Grade     string `json:"grade"`
	Teacher   string `json:"teacher" validate:"required"`
}

func (r StudentRequest) normalised() StudentRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Photo = strings.TrimSpace(r.Photo)
	r.GroupName = strings.TrimSpace(r.GroupName)
	r.Grade = strings.TrimSpace(r.Grade)
	r.Teacher = strings.TrimSpace(r.Teacher)
	return r
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Create registers a new student with empty progress summaries.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	req = req.normalised()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		Name:      req.Name,
		Photo:     req.Photo,
		GroupName: req.GroupName,
		Grade:     optionalString(req.Grade),
		Teacher:   req.Teacher,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		s.logger.Error("create student failed", zap.Error(err))
		return nil, appErrors.Write(err, "failed to add student, please try again later")
	}
	s.invalidateRoster(ctx)
	return student, nil
}

// Update replaces the editable fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	req = req.normalised()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Fetch(err, "failed to fetch student details, please try again later")
	}
	student.Name = req.Name
	student.Photo = req.Photo
	student.GroupName = req.GroupName
	student.Grade = optionalString(req.Grade)
	student.Teacher = req.Teacher
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("update student failed", zap.String("student_id", id), zap.Error(err))
		return nil, appErrors.Write(err, "failed to update student, please try again later")
	}
	s.invalidateRoster(ctx)
	return student, nil
}

// Delete removes a student along with its summaries and entries.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("delete student failed", zap.String("student_id", id), zap.Error(err))
		return appErrors.Write(err, "failed to delete student, please try again later")
	}
	s.invalidateRoster(ctx)
	return nil
}

func (s *StudentService) invalidateRoster(ctx context.Context) {
	_ = s.cache.InvalidatePattern(ctx, "progress:*")
}
