package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
	"github.com/noah-isme/hafalan-progress-api/pkg/export"
)

type stubLeaderboard struct {
	rows      []models.StudentWithProgress
	err       error
	lastState models.StudentFilterState
}

func (s *stubLeaderboard) Leaderboard(_ context.Context, state models.StudentFilterState) ([]models.StudentWithProgress, bool, error) {
	s.lastState = state
	return s.rows, false, s.err
}

func TestExportServiceLeaderboardCSV(t *testing.T) {
	source := &stubLeaderboard{rows: []models.StudentWithProgress{
		{Name: "Fatima", Group: "3B", Teacher: "Aisha", HafalanProgress: models.HafalanSummary{Total: 114, LastSurah: "An-Nas", Percentage: 100}},
		{Name: "Ahmad", Group: "3A", Teacher: "Hasan", TilawahProgress: models.TilawahSummary{Jilid: "3", Page: 40, Percentage: 40}},
	}}
	svc := NewExportService(source, ExportConfig{Title: "Hafalan Leaderboard"}, zap.NewNop(), export.NewCSVExporter(false), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }

	state := models.StudentFilterState{SelectedGrades: []string{"3A", "3B"}}
	result, err := svc.Leaderboard(context.Background(), state, "")
	require.NoError(t, err)
	assert.Equal(t, "hafalan_leaderboard_20240301_080000.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, state, source.lastState)

	records, err := csv.NewReader(bytes.NewReader(result.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "Fatima", "3B", "Aisha", "114", "An-Nas", "100", "", "0", "0"}, records[1])
	assert.Equal(t, "40", records[2][8])
}

func TestExportServiceLeaderboardPDF(t *testing.T) {
	svc := NewExportService(&stubLeaderboard{rows: []models.StudentWithProgress{{Name: "Ahmad"}}}, ExportConfig{}, nil, nil, nil)

	result, err := svc.Leaderboard(context.Background(), models.StudentFilterState{}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Payload, []byte("%PDF")))
}

func TestExportServiceLeaderboardXLSX(t *testing.T) {
	svc := NewExportService(&stubLeaderboard{rows: []models.StudentWithProgress{{Name: "Ahmad"}, {Name: "Fatima"}}}, ExportConfig{}, nil, nil, nil)

	result, err := svc.Leaderboard(context.Background(), models.StudentFilterState{}, ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.True(t, strings.HasSuffix(result.Filename, ".xlsx"))
	assert.True(t, bytes.HasPrefix(result.Payload, []byte("PK")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubLeaderboard{}, ExportConfig{}, nil, nil, nil)

	_, err := svc.Leaderboard(context.Background(), models.StudentFilterState{}, "docx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServicePropagatesFetchError(t *testing.T) {
	svc := NewExportService(&stubLeaderboard{err: appErrors.Fetch(assert.AnError, "")}, ExportConfig{}, nil, nil, nil)

	_, err := svc.Leaderboard(context.Background(), models.StudentFilterState{}, ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrFetch)
}
