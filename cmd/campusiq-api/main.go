package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campusiq-api/api/swagger"
	"github.com/noah-isme/campusiq-api/internal/handler"
	"github.com/noah-isme/campusiq-api/internal/middleware"
	"github.com/noah-isme/campusiq-api/internal/models"
	"github.com/noah-isme/campusiq-api/internal/repository"
	"github.com/noah-isme/campusiq-api/internal/service"
	"github.com/noah-isme/campusiq-api/pkg/config"
	"github.com/noah-isme/campusiq-api/pkg/database"
	"github.com/noah-isme/campusiq-api/pkg/export"
	"github.com/noah-isme/campusiq-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campusiq-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campusiq-api/pkg/middleware/requestid"
	"github.com/noah-isme/campusiq-api/pkg/response"
)

// @title CampusIQ Analytics API
// @version 1.0.0
// @description Read-only risk scoring and campus analytics.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	response.ExposeErrorDetail(cfg.Env != config.EnvProduction)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	tokens, err := service.NewTokenService(cfg.JWT)
	if err != nil {
		logr.Sugar().Fatalw("token service init failed", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	analyticsRepo := repository.NewAnalyticsRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)

	parallel := cfg.Analytics.MaxParallelQueries
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, metricsSvc, logr, parallel)
	studentSvc := service.NewStudentAnalyticsService(analyticsRepo, studentRepo, metricsSvc, logr, parallel)
	classSvc := service.NewClassAnalyticsService(analyticsRepo, subjectRepo, metricsSvc, logr, parallel)
	dashboardSvc := service.NewDashboardService(map[models.UserRole]service.DashboardProvider{
		models.RoleAdmin:            service.AdminDashboard{Analytics: analyticsSvc},
		models.RoleFaculty:          service.FacultyDashboard{Analytics: analyticsSvc, Faculty: facultyRepo},
		models.RoleStudent:          service.StudentDashboard{Students: studentSvc},
		models.RolePlacementOfficer: service.PlacementDashboard{Analytics: analyticsSvc},
	})
	exportSvc := service.NewExportService(analyticsSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	handlers := routeHandlers{
		analytics: handler.NewAnalyticsHandler(analyticsSvc, dashboardSvc, exportSvc, handler.NewFilterBinder(validator.New())),
		students:  handler.NewStudentHandler(studentSvc),
		faculty:   handler.NewFacultyHandler(classSvc),
		metrics:   handler.NewMetricsHandler(metricsSvc, db),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.metrics.Health)
	r.GET("/ready", handlers.metrics.Ready)
	r.GET("/metrics", handlers.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), tokens, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
