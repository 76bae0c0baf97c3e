package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hafalan-progress-api/internal/handler"
	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/internal/service"
	"github.com/noah-isme/hafalan-progress-api/pkg/config"
)

func newTestEngine(authEnabled bool) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(nil, service.AuthConfig{Enabled: authEnabled, AccessTokenSecret: "secret", AccessTokenExpiry: time.Minute})
	metrics := service.NewMetricsService()
	engine := New(Params{
		Config:  &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"},
		Auth:    authSvc,
		Metrics: metrics,
		Handlers: Handlers{
			Students: handler.NewStudentHandler(nil, nil),
			Progress: handler.NewProgressHandler(nil),
			Export:   handler.NewExportHandler(nil),
			Surahs:   handler.NewSurahHandler(),
			Metrics:  handler.NewMetricsHandler(metrics, nil),
		},
	})
	return engine, authSvc
}

func TestRouterHealthAndSurahs(t *testing.T) {
	engine, _ := newTestEngine(false)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/surahs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			Rank int    `json:"rank"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 114)
	assert.Equal(t, "An-Nas", body.Data[113].Name)
}

func TestRouterRequiresTokenWhenAuthEnabled(t *testing.T) {
	engine, _ := newTestEngine(true)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/surahs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterForbidsParentWrites(t *testing.T) {
	engine, authSvc := newTestEngine(true)
	token, _, err := authSvc.IssueToken("parent-1", models.RoleParent, "Parent")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/s1/progress", strings.NewReader(`{"date":"2024-03-01","type":"hafalan"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	engine, _ := newTestEngine(false)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
