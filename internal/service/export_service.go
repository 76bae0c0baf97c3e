package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
	"github.com/noah-isme/hafalan-progress-api/pkg/export"
)

// ExportFormat selects the leaderboard rendering.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type leaderboardSource interface {
	Leaderboard(ctx context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Title string
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders the leaderboard as a downloadable document.
type ExportService struct {
	source leaderboardSource
	csv    csvRenderer
	pdf    documentRenderer
	xlsx   documentRenderer
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source leaderboardSource, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Hafalan Leaderboard"
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{source: source, csv: csv, pdf: pdf, xlsx: export.NewXLSXExporter(), logger: logger, cfg: cfg, now: time.Now}
}

// Leaderboard renders the filtered, ranked roster in the requested format.
func (s *ExportService) Leaderboard(ctx context.Context, state models.StudentFilterState, format ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF && format != ExportFormatXLSX {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	ranked, _, err := s.source.Leaderboard(ctx, state)
	if err != nil {
		return nil, err
	}
	dataset := leaderboardDataset(ranked)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, s.cfg.Title)
		contentType = "application/pdf"
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, s.cfg.Title)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		s.logger.Error("render leaderboard export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", sanitizeFilename(s.cfg.Title), s.now().UTC().Format("20060102_150405"), format),
		ContentType: contentType,
		Payload:     payload,
		Rows:        len(ranked),
	}, nil
}

func leaderboardDataset(ranked []models.StudentWithProgress) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Rank", "Name", "Class", "Teacher", "Surahs", "Last Surah", "Hafalan %", "Jilid", "Page", "Tilawah %"},
		Widths:  []float64{0.6, 3, 1, 2, 0.8, 2, 1, 0.8, 0.8, 1},
		Rows:    make([]map[string]string, 0, len(ranked)),
	}
	for i, student := range ranked {
		data.Rows = append(data.Rows, map[string]string{
			"Rank":       strconv.Itoa(i + 1),
			"Name":       student.Name,
			"Class":      student.Group,
			"Teacher":    student.Teacher,
			"Surahs":     strconv.Itoa(student.HafalanProgress.Total),
			"Last Surah": student.HafalanProgress.LastSurah,
			"Hafalan %":  strconv.Itoa(student.HafalanProgress.Percentage),
			"Jilid":      student.TilawahProgress.Jilid,
			"Page":       strconv.Itoa(student.TilawahProgress.Page),
			"Tilawah %":  strconv.Itoa(student.TilawahProgress.Percentage),
		})
	}
	return data
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
