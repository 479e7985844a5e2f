package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/internal/handler"
	"github.com/noah-isme/campusiq-api/internal/middleware"
	"github.com/noah-isme/campusiq-api/internal/models"
)

type routeHandlers struct {
	analytics *handler.AnalyticsHandler
	students  *handler.StudentHandler
	faculty   *handler.FacultyHandler
	metrics   *handler.MetricsHandler
}

// registerRoutes mounts the authenticated API. Every route requires a bearer
// token; role gates sit on each group.
func registerRoutes(api *gin.RouterGroup, tokens middleware.TokenVerifier, h routeHandlers) {
	api.Use(middleware.WithResponseMeta(), middleware.JWT(tokens))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)

	analytics := api.Group("/analytics")
	analytics.GET("/dashboard", h.analytics.Dashboard)
	analytics.GET("/academic", staff, h.analytics.Academic)
	analytics.GET("/attendance", staff, h.analytics.Attendance)
	analytics.GET("/risk", staff, h.analytics.Risk)
	analytics.GET("/risk/export", staff, h.analytics.RiskExport)
	analytics.GET("/subject-difficulty", staff, h.analytics.SubjectDifficulty)
	analytics.GET("/placement", middleware.RequireRoles(models.RoleAdmin, models.RolePlacementOfficer), h.analytics.Placement)
	analytics.GET("/system", middleware.RequireRoles(models.RoleAdmin), h.analytics.System)

	api.GET("/students/:id/analytics", staff, h.students.Analytics)

	self := api.Group("/student", middleware.RequireRoles(models.RoleStudent))
	self.GET("/performance", h.students.Performance)
	self.GET("/attendance", h.students.Attendance)
	self.GET("/placement", h.students.Placement)

	api.GET("/faculty/class-analytics/:subjectId", staff, h.faculty.ClassAnalytics)
}
