package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/students", http.StatusOK, 20*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordEntrySubmitted(models.ProgressTypeTilawah)
	m.RecordSummaryRecomputeFailure(models.ProgressTypeTilawah)

	snapshot := m.Snapshot()
	assert.EqualValues(t, 1, snapshot.RequestsTotal)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.001)
	assert.EqualValues(t, 1, snapshot.EntriesSubmitted["tilawah"])
	assert.EqualValues(t, 0, snapshot.EntriesSubmitted["hafalan"])
	assert.EqualValues(t, 1, snapshot.SummaryRecomputeFailures)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "progress_summary_recompute_failures_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordEntrySubmitted(models.ProgressTypeHafalan)
	m.ObserveDBQuery("students.list", time.Millisecond)
	assert.Equal(t, models.SystemMetrics{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
