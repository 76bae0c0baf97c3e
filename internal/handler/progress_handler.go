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

type progressService interface {
	ListEntries(ctx context.Context, studentID string) ([]models.ProgressEntry, error)
	SubmitProgressEntry(ctx context.Context, req service.SubmitProgressRequest) (*models.SubmitOutcome, error)
}

// ProgressHandler exposes the per-student progress log.
type ProgressHandler struct {
	service progressService
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(service progressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// List godoc
// @Summary Progress entries of a student, newest first
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) List(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context(), c.Param("id"))
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	middleware.SetCount(c, len(entries))
	meta := middleware.ExtractMeta(c)
	if err != nil {
		response.Degraded(c, entries, err, meta)
		return
	}
	response.JSON(c, http.StatusOK, entries, meta)
}

// Submit godoc
// @Summary Record a hafalan or tilawah session
// @Description The entry is stored first and the student's summary is recomputed afterwards. A failed recompute still answers 201 with meta.summary_updated=false.
// @Tags Progress
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.SubmitProgressRequest true "Progress entry"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/progress [post]
func (h *ProgressHandler) Submit(c *gin.Context) {
	var req service.SubmitProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.StudentID = c.Param("id")

	outcome, err := h.service.SubmitProgressEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, middleware.MetaEntrySaved, outcome.EntrySaved)
	middleware.SetMeta(c, middleware.MetaSummaryUpdated, outcome.SummaryUpdated)
	if outcome.SummaryError != "" {
		middleware.SetMeta(c, middleware.MetaSummaryError, outcome.SummaryError)
	}
	if claims := claimsFromContext(c); claims != nil {
		middleware.SetMeta(c, middleware.MetaRecordedBy, claims.UserID)
	}
	response.Created(c, outcome, middleware.ExtractMeta(c))
}
