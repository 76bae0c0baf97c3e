package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/internal/handler"
	"github.com/noah-isme/hafalan-progress-api/internal/middleware"
	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/internal/service"
	"github.com/noah-isme/hafalan-progress-api/pkg/config"
	"github.com/noah-isme/hafalan-progress-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hafalan-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hafalan-progress-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Students *handler.StudentHandler
	Progress *handler.ProgressHandler
	Export   *handler.ExportHandler
	Surahs   *handler.SurahHandler
	Metrics  *handler.MetricsHandler
}

// Params groups router dependencies. ReportError receives errors of 5xx responses; nil disables reporting.
type Params struct {
	Config      *config.Config
	Logger      *zap.Logger
	Auth        *service.AuthService
	Metrics     *service.MetricsService
	Handlers    Handlers
	ReportError func(error)
}

// New builds the gin engine with the ambient middleware chain and all routes.
func New(p Params) *gin.Engine {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(p.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(p.Metrics))
	r.Use(middleware.ReportErrors(p.ReportError))

	h := p.Handlers
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if p.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(p.Config.APIPrefix)
	api.Use(middleware.WithResponseMeta(), middleware.Auth(p.Auth))
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)

	api.GET("/metrics/summary", teacherOnly, h.Metrics.Summary)
	api.GET("/surahs", h.Surahs.List)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/leaderboard", h.Students.Leaderboard)
	students.GET("/leaderboard/export", h.Export.Leaderboard)
	students.GET("/filters", h.Students.Filters)
	students.GET("/:id", h.Students.Get)
	students.POST("", teacherOnly, h.Students.Create)
	students.PUT("/:id", teacherOnly, h.Students.Update)
	students.DELETE("/:id", teacherOnly, h.Students.Delete)
	students.GET("/:id/progress", h.Progress.List)
	students.POST("/:id/progress", teacherOnly, h.Progress.Submit)

	return r
}
