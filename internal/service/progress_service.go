package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/internal/progress"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
)

// RosterCacheKey holds the joined roster while caching is enabled.
const RosterCacheKey = "progress:students"

const entryDateLayout = "2006-01-02"

type rosterStudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type hafalanSummaryRepository interface {
	List(ctx context.Context) ([]models.HafalanProgress, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.HafalanProgress, error)
	Upsert(ctx context.Context, progress *models.HafalanProgress) error
}

type tilawahSummaryRepository interface {
	List(ctx context.Context) ([]models.TilawahProgress, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.TilawahProgress, error)
	Upsert(ctx context.Context, progress *models.TilawahProgress) error
}

type progressEntryRepository interface {
	Create(ctx context.Context, entry *models.ProgressEntry) error
	ListByStudent(ctx context.Context, studentID string) ([]models.ProgressEntry, error)
}

// SubmitProgressRequest is the payload of a logged hafalan or tilawah session.
type SubmitProgressRequest struct {
	StudentID    string              `json:"-" validate:"required"`
	Date         string              `json:"date" validate:"required,datetime=2006-01-02"`
	Type         models.ProgressType `json:"type" validate:"required,oneof=hafalan tilawah"`
	SurahOrJilid string              `json:"surah_or_jilid" validate:"required"`
	AyatOrPage   string              `json:"ayat_or_page" validate:"required"`
	Notes        string              `json:"notes"`
}

// ProgressServiceConfig tunes roster caching.
type ProgressServiceConfig struct {
	CacheTTL time.Duration
}

// ProgressServiceParams groups constructor dependencies.
type ProgressServiceParams struct {
	Students  rosterStudentRepository
	Hafalan   hafalanSummaryRepository
	Tilawah   tilawahSummaryRepository
	Entries   progressEntryRepository
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ProgressServiceConfig
}

// ProgressService composes the roster view and records progress entries.
type ProgressService struct {
	students  rosterStudentRepository
	hafalan   hafalanSummaryRepository
	tilawah   tilawahSummaryRepository
	entries   progressEntryRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ProgressServiceConfig
}

// NewProgressService constructs a ProgressService with sane defaults.
func NewProgressService(params ProgressServiceParams) *ProgressService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		students:  params.Students,
		hafalan:   params.Hafalan,
		tilawah:   params.Tilawah,
		entries:   params.Entries,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// LoadStudents returns every student joined with both summaries. On a failed
// read it returns an empty roster together with a FETCH_ERROR.
func (s *ProgressService) LoadStudents(ctx context.Context) ([]models.StudentWithProgress, error) {
	roster, _, err := s.loadRoster(ctx)
	return roster, err
}

// Roster returns the filtered roster in storage order and whether it came from cache.
func (s *ProgressService) Roster(ctx context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error) {
	roster, hit, err := s.loadRoster(ctx)
	if err != nil {
		return roster, false, err
	}
	return s.ApplyFilters(roster, state), hit, nil
}

// Leaderboard returns the filtered roster ranked by hafalan progress.
func (s *ProgressService) Leaderboard(ctx context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error) {
	roster, hit, err := s.loadRoster(ctx)
	if err != nil {
		return roster, false, err
	}
	return s.RankByProgress(s.ApplyFilters(roster, state)), hit, nil
}

// Facets lists the distinct grades and teachers present in the roster.
func (s *ProgressService) Facets(ctx context.Context) (models.StudentFacets, error) {
	roster, _, err := s.loadRoster(ctx)
	if err != nil {
		return progress.Facets(nil), err
	}
	return progress.Facets(roster), nil
}

// ApplyFilters narrows a roster by search term, grade and teacher.
func (s *ProgressService) ApplyFilters(students []models.StudentWithProgress, state models.StudentFilterState) []models.StudentWithProgress {
	return progress.ApplyFilters(students, state)
}

// RankByProgress orders a roster for the leaderboard.
func (s *ProgressService) RankByProgress(students []models.StudentWithProgress) []models.StudentWithProgress {
	return progress.RankByProgress(students)
}

// GetStudent returns a single student with progress. Missing summaries read as zero.
func (s *ProgressService) GetStudent(ctx context.Context, id string) (*models.StudentWithProgress, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Fetch(err, "failed to fetch student details, please try again later")
	}

	var (
		hafalan *models.HafalanProgress
		tilawah *models.TilawahProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hafalan, err = s.hafalan.FindByStudentID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tilawah, err = s.tilawah.FindByStudentID(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load student progress failed", zap.String("student_id", id), zap.Error(err))
		return nil, appErrors.Fetch(err, "failed to fetch student details, please try again later")
	}

	view := models.NewStudentWithProgress(*student, hafalan, tilawah)
	return &view, nil
}

// ListEntries returns the entries of a student, newest first. On a failed read
// it returns an empty list together with a FETCH_ERROR.
func (s *ProgressService) ListEntries(ctx context.Context, studentID string) ([]models.ProgressEntry, error) {
	start := time.Now()
	entries, err := s.entries.ListByStudent(ctx, studentID)
	s.metrics.ObserveDBQuery("progress_entries.list", time.Since(start))
	if err != nil {
		s.logger.Error("list progress entries failed", zap.String("student_id", studentID), zap.Error(err))
		return []models.ProgressEntry{}, appErrors.Fetch(err, "failed to fetch progress entries, please try again later")
	}
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	return entries, nil
}

// SubmitProgressEntry appends an entry and then recomputes the matching summary.
// An error is returned only when the entry itself was not saved; a failed
// recompute is reported through the outcome.
func (s *ProgressService) SubmitProgressEntry(ctx context.Context, req SubmitProgressRequest) (*models.SubmitOutcome, error) {
	req.SurahOrJilid = strings.TrimSpace(req.SurahOrJilid)
	req.AyatOrPage = strings.TrimSpace(req.AyatOrPage)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}
	date, err := time.Parse(entryDateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	entry := models.ProgressEntry{
		StudentID:    req.StudentID,
		Date:         date,
		Type:         req.Type,
		SurahOrJilid: optionalString(req.SurahOrJilid),
		AyatOrPage:   optionalString(req.AyatOrPage),
		Notes:        optionalString(req.Notes),
	}
	if err := s.entries.Create(ctx, &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("record progress entry failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, appErrors.Write(err, "failed to record progress, please try again later")
	}
	s.metrics.RecordEntrySubmitted(entry.Type)

	outcome := &models.SubmitOutcome{Entry: entry, EntrySaved: true}
	if err := s.recomputeSummary(ctx, req, outcome); err != nil {
		s.logger.Warn("progress summary not recomputed",
			zap.String("student_id", req.StudentID),
			zap.String("type", string(req.Type)),
			zap.String("entry_id", entry.ID),
			zap.Error(err))
		s.metrics.RecordSummaryRecomputeFailure(req.Type)
		outcome.SummaryError = "progress was recorded but the summary could not be updated"
		return outcome, nil
	}
	outcome.SummaryUpdated = true
	_ = s.cache.Invalidate(ctx, RosterCacheKey)
	return outcome, nil
}

func (s *ProgressService) recomputeSummary(ctx context.Context, req SubmitProgressRequest, outcome *models.SubmitOutcome) error {
	switch req.Type {
	case models.ProgressTypeHafalan:
		previous, err := s.hafalan.FindByStudentID(ctx, req.StudentID)
		if err != nil {
			return err
		}
		next := progress.RecordHafalanEntry(previous, req.StudentID, req.SurahOrJilid)
		if err := s.hafalan.Upsert(ctx, &next); err != nil {
			return err
		}
		outcome.Hafalan = &next
	case models.ProgressTypeTilawah:
		previous, err := s.tilawah.FindByStudentID(ctx, req.StudentID)
		if err != nil {
			return err
		}
		next := progress.RecordTilawahEntry(previous, req.StudentID, req.SurahOrJilid, progress.ParsePage(req.AyatOrPage))
		if err := s.tilawah.Upsert(ctx, &next); err != nil {
			return err
		}
		outcome.Tilawah = &next
	}
	return nil
}

func (s *ProgressService) loadRoster(ctx context.Context) ([]models.StudentWithProgress, bool, error) {
	var cached []models.StudentWithProgress
	if hit, err := s.cache.Get(ctx, RosterCacheKey, &cached); err == nil && hit {
		if cached == nil {
			cached = []models.StudentWithProgress{}
		}
		return cached, true, nil
	}

	var (
		students []models.Student
		hafalan  []models.HafalanProgress
		tilawah  []models.TilawahProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		var err error
		students, err = s.students.List(gctx)
		s.metrics.ObserveDBQuery("students.list", time.Since(start))
		return err
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		hafalan, err = s.hafalan.List(gctx)
		s.metrics.ObserveDBQuery("hafalan_progress.list", time.Since(start))
		return err
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		tilawah, err = s.tilawah.List(gctx)
		s.metrics.ObserveDBQuery("tilawah_progress.list", time.Since(start))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load students failed", zap.Error(err))
		return []models.StudentWithProgress{}, false, appErrors.Fetch(err, "failed to fetch students, please try again later")
	}

	roster := joinRoster(students, hafalan, tilawah)
	_ = s.cache.Set(ctx, RosterCacheKey, roster, s.cfg.CacheTTL)
	return roster, false, nil
}

// joinRoster left-joins summaries onto students by student id. The first
// summary row of a student wins.
func joinRoster(students []models.Student, hafalan []models.HafalanProgress, tilawah []models.TilawahProgress) []models.StudentWithProgress {
	hafalanByStudent := make(map[string]*models.HafalanProgress, len(hafalan))
	for i := range hafalan {
		if _, ok := hafalanByStudent[hafalan[i].StudentID]; !ok {
			hafalanByStudent[hafalan[i].StudentID] = &hafalan[i]
		}
	}
	tilawahByStudent := make(map[string]*models.TilawahProgress, len(tilawah))
	for i := range tilawah {
		if _, ok := tilawahByStudent[tilawah[i].StudentID]; !ok {
			tilawahByStudent[tilawah[i].StudentID] = &tilawah[i]
		}
	}
	roster := make([]models.StudentWithProgress, 0, len(students))
	for _, student := range students {
		roster = append(roster, models.NewStudentWithProgress(student, hafalanByStudent[student.ID], tilawahByStudent[student.ID]))
	}
	return roster
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
