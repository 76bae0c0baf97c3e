package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hafalan-progress-api/internal/middleware"
	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/internal/service"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
	"github.com/noah-isme/hafalan-progress-api/pkg/response"
)

type rosterService interface {
	Roster(ctx context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error)
	Leaderboard(ctx context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error)
	Facets(ctx context.Context) (models.StudentFacets, error)
	GetStudent(ctx context.Context, id string) (*models.StudentWithProgress, error)
}

type studentWriter interface {
	Create(ctx context.Context, req service.StudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req service.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

// StudentHandler exposes roster and student endpoints.
type StudentHandler struct {
	roster   rosterService
	students studentWriter
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(roster rosterService, students studentWriter) *StudentHandler {
	return &StudentHandler{roster: roster, students: students}
}

// List godoc
// @Summary List students with progress
// @Tags Students
// @Produce json
// @Param search query string false "Case-insensitive name search"
// @Param grade query []string false "Class labels" collectionFormat(multi)
// @Param teacher query []string false "Teacher labels" collectionFormat(multi)
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, hit, err := h.roster.Roster(c.Request.Context(), filterStateFromQuery(c))
	h.respondRoster(c, students, hit, err)
}

// Leaderboard godoc
// @Summary Students ranked by hafalan progress
// @Tags Students
// @Produce json
// @Param search query string false "Case-insensitive name search"
// @Param grade query []string false "Class labels" collectionFormat(multi)
// @Param teacher query []string false "Teacher labels" collectionFormat(multi)
// @Success 200 {object} response.Envelope
// @Router /students/leaderboard [get]
func (h *StudentHandler) Leaderboard(c *gin.Context) {
	students, hit, err := h.roster.Leaderboard(c.Request.Context(), filterStateFromQuery(c))
	h.respondRoster(c, students, hit, err)
}

func (h *StudentHandler) respondRoster(c *gin.Context, students []models.StudentWithProgress, hit bool, err error) {
	if students == nil {
		students = []models.StudentWithProgress{}
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetCount(c, len(students))
	meta := middleware.ExtractMeta(c)
	if err != nil {
		response.Degraded(c, students, err, meta)
		return
	}
	response.JSON(c, http.StatusOK, students, meta)
}

// Filters godoc
// @Summary Distinct grades and teachers for the filter panel
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/filters [get]
func (h *StudentHandler) Filters(c *gin.Context) {
	facets, err := h.roster.Facets(c.Request.Context())
	if err != nil {
		response.Degraded(c, facets, err)
		return
	}
	response.JSON(c, http.StatusOK, facets)
}

// Get godoc
// @Summary Get student detail with progress
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.roster.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
