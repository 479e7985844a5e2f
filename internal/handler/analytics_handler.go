package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/middleware"
	"github.com/noah-isme/campusiq-api/internal/models"
	"github.com/noah-isme/campusiq-api/internal/service"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
	"github.com/noah-isme/campusiq-api/pkg/response"
)

type analyticsReports interface {
	Academic(ctx context.Context, filter models.AnalyticsFilter) (*dto.AcademicReport, error)
	Attendance(ctx context.Context, filter models.AnalyticsFilter) (*dto.AttendanceReport, error)
	Risk(ctx context.Context, filter models.AnalyticsFilter) (*dto.RiskReport, error)
	Placement(ctx context.Context, filter models.AnalyticsFilter) (*dto.PlacementReport, error)
	SubjectDifficulty(ctx context.Context, filter models.AnalyticsFilter) ([]dto.SubjectDifficulty, error)
	SystemMetrics() models.AnalyticsSystemMetrics
}

type dashboardDispatcher interface {
	Dashboard(ctx context.Context, caller models.Caller) (interface{}, error)
}

type riskExporter interface {
	RiskRoster(ctx context.Context, filter models.AnalyticsFilter, format service.ExportFormat) (*service.ExportFile, error)
}

// AnalyticsHandler exposes the institution analytics endpoints.
type AnalyticsHandler struct {
	reports    analyticsReports
	dashboards dashboardDispatcher
	exports    riskExporter
	filters    *FilterBinder
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(reports analyticsReports, dashboards dashboardDispatcher, exports riskExporter, filters *FilterBinder) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, dashboards: dashboards, exports: exports, filters: filters}
}

// Dashboard godoc
// @Summary Role dashboard
// @Description Admin headline counts, faculty subject overview, student risk snapshot or placement overview depending on the caller role.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	if h.dashboards == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	caller, err := callerFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	payload, err := h.dashboards.Dashboard(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payload, middleware.ExtractMeta(c, start))
}

// Academic godoc
// @Summary Academic analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course ID"
// @Param semesterId query int false "Semester ID"
// @Param subjectId query int false "Subject ID"
// @Success 200 {object} response.Envelope{data=dto.AcademicReport}
// @Failure 400 {object} response.Envelope
// @Router /analytics/academic [get]
func (h *AnalyticsHandler) Academic(c *gin.Context) {
	filter, ok := h.bind(c, byCourse, bySemester, bySubject)
	if !ok {
		return
	}
	start := time.Now()
	report, err := h.reports.Academic(c.Request.Context(), filter)
	respond(c, start, report, err)
}

// Attendance godoc
// @Summary Attendance analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course ID"
// @Param semesterId query int false "Semester ID"
// @Param subjectId query int false "Subject ID"
// @Param studentId query int false "Student ID"
// @Param batch query string false "Batch"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.AttendanceReport}
// @Failure 400 {object} response.Envelope
// @Router /analytics/attendance [get]
func (h *AnalyticsHandler) Attendance(c *gin.Context) {
	filter, ok := h.bind(c, byCourse, bySemester, bySubject, byStudent, byBatch, byDateRange)
	if !ok {
		return
	}
	start := time.Now()
	report, err := h.reports.Attendance(c.Request.Context(), filter)
	respond(c, start, report, err)
}

// Risk godoc
// @Summary At-risk students
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param riskLevel query string false "High, Medium or Low"
// @Param courseId query int false "Course ID"
// @Param semesterId query int false "Semester ID"
// @Param batch query string false "Batch"
// @Success 200 {object} response.Envelope{data=dto.RiskReport}
// @Failure 400 {object} response.Envelope
// @Router /analytics/risk [get]
func (h *AnalyticsHandler) Risk(c *gin.Context) {
	filter, ok := h.bind(c, byRiskLevel, byCourse, bySemester, byBatch)
	if !ok {
		return
	}
	start := time.Now()
	report, err := h.reports.Risk(c.Request.Context(), filter)
	respond(c, start, report, err)
}

// RiskExport godoc
// @Summary Export the risk roster
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param riskLevel query string false "High, Medium or Low"
// @Param courseId query int false "Course ID"
// @Param semesterId query int false "Semester ID"
// @Param batch query string false "Batch"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /analytics/risk/export [get]
func (h *AnalyticsHandler) RiskExport(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, ok := h.bind(c, byRiskLevel, byCourse, bySemester, byBatch)
	if !ok {
		return
	}
	file, err := h.exports.RiskRoster(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Placement godoc
// @Summary Placement analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course ID"
// @Param batch query string false "Batch"
// @Success 200 {object} response.Envelope{data=dto.PlacementReport}
// @Failure 400 {object} response.Envelope
// @Router /analytics/placement [get]
func (h *AnalyticsHandler) Placement(c *gin.Context) {
	filter, ok := h.bind(c, byCourse, byBatch)
	if !ok {
		return
	}
	start := time.Now()
	report, err := h.reports.Placement(c.Request.Context(), filter)
	respond(c, start, report, err)
}

// SubjectDifficulty godoc
// @Summary Subject difficulty ranking
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course ID"
// @Param semesterId query int false "Semester ID"
// @Success 200 {object} response.Envelope{data=[]dto.SubjectDifficulty}
// @Failure 400 {object} response.Envelope
// @Router /analytics/subject-difficulty [get]
func (h *AnalyticsHandler) SubjectDifficulty(c *gin.Context) {
	filter, ok := h.bind(c, byCourse, bySemester)
	if !ok {
		return
	}
	start := time.Now()
	report, err := h.reports.SubjectDifficulty(c.Request.Context(), filter)
	respond(c, start, report, err)
}

// System godoc
// @Summary Analytics instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.AnalyticsSystemMetrics}
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.OK(c, h.reports.SystemMetrics())
}

func (h *AnalyticsHandler) bind(c *gin.Context, fields ...filterField) (models.AnalyticsFilter, bool) {
	if h.reports == nil || h.filters == nil {
		response.Error(c, appErrors.ErrInternal)
		return models.AnalyticsFilter{}, false
	}
	filter, err := h.filters.Bind(c, fields...)
	if err != nil {
		response.Error(c, err)
		return models.AnalyticsFilter{}, false
	}
	return filter, true
}

// respond writes a report or its error with timing metadata.
func respond(c *gin.Context, start time.Time, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data, middleware.ExtractMeta(c, start))
}
