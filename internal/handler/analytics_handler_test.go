package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
	"github.com/noah-isme/campusiq-api/internal/service"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

type fakeReports struct {
	filter models.AnalyticsFilter
	calls  int
	err    error
}

func (f *fakeReports) Academic(_ context.Context, filter models.AnalyticsFilter) (*dto.AcademicReport, error) {
	f.filter, f.calls = filter, f.calls+1
	return &dto.AcademicReport{SubjectMarks: []dto.SubjectMarks{{SubjectID: 1, AverageMarks: 61.5}}}, f.err
}

func (f *fakeReports) Attendance(_ context.Context, filter models.AnalyticsFilter) (*dto.AttendanceReport, error) {
	f.filter, f.calls = filter, f.calls+1
	return &dto.AttendanceReport{}, f.err
}

func (f *fakeReports) Risk(_ context.Context, filter models.AnalyticsFilter) (*dto.RiskReport, error) {
	f.filter, f.calls = filter, f.calls+1
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RiskReport{AtRiskStudents: []dto.RiskStudent{}, RiskSummary: []dto.RiskBand{{RiskLevel: models.RiskHigh, Count: 2}}}, nil
}

func (f *fakeReports) Placement(_ context.Context, filter models.AnalyticsFilter) (*dto.PlacementReport, error) {
	f.filter, f.calls = filter, f.calls+1
	return &dto.PlacementReport{}, f.err
}

func (f *fakeReports) SubjectDifficulty(_ context.Context, filter models.AnalyticsFilter) ([]dto.SubjectDifficulty, error) {
	f.filter, f.calls = filter, f.calls+1
	return []dto.SubjectDifficulty{}, f.err
}

func (f *fakeReports) SystemMetrics() models.AnalyticsSystemMetrics {
	return models.AnalyticsSystemMetrics{ReportsTotal: 3}
}

type fakeDashboards struct {
	caller models.Caller
}

func (f *fakeDashboards) Dashboard(_ context.Context, caller models.Caller) (interface{}, error) {
	f.caller = caller
	if caller.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no dashboard available for role")
	}
	return &dto.DashboardSummary{TotalStudents: 10, AtRiskStudents: 4}, nil
}

type fakeExporter struct {
	format service.ExportFormat
	filter models.AnalyticsFilter
}

func (f *fakeExporter) RiskRoster(_ context.Context, filter models.AnalyticsFilter, format service.ExportFormat) (*service.ExportFile, error) {
	f.format, f.filter = format, filter
	return &service.ExportFile{Filename: "risk-roster-20240101." + string(format), ContentType: "text/csv; charset=utf-8", Payload: []byte("Enrollment\n")}, nil
}

var adminClaims = &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}

func analyticsRoutes(h *AnalyticsHandler) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		r.GET("/analytics/dashboard", h.Dashboard)
		r.GET("/analytics/academic", h.Academic)
		r.GET("/analytics/attendance", h.Attendance)
		r.GET("/analytics/risk", h.Risk)
		r.GET("/analytics/risk/export", h.RiskExport)
		r.GET("/analytics/placement", h.Placement)
		r.GET("/analytics/subject-difficulty", h.SubjectDifficulty)
		r.GET("/analytics/system", h.System)
	}
}

func newAnalyticsHandler() (*AnalyticsHandler, *fakeReports, *fakeDashboards, *fakeExporter) {
	reports, dashboards, exporter := &fakeReports{}, &fakeDashboards{}, &fakeExporter{}
	return NewAnalyticsHandler(reports, dashboards, exporter, newBinder()), reports, dashboards, exporter
}

func TestAnalyticsHandlerAcademicBindsFilters(t *testing.T) {
	h, reports, _, _ := newAnalyticsHandler()

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/academic?courseId=2&semesterId=3&subjectId=4&batch=2021")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, env.Meta, "processingTimeMs")

	require.NotNil(t, reports.filter.CourseID)
	assert.Equal(t, int64(2), *reports.filter.CourseID)
	assert.Equal(t, int64(3), *reports.filter.SemesterID)
	assert.Equal(t, int64(4), *reports.filter.SubjectID)
	assert.Empty(t, reports.filter.Batch, "academic ignores batch")

	var report dto.AcademicReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 61.5, report.SubjectMarks[0].AverageMarks)
}

func TestAnalyticsHandlerRejectsInvalidFilters(t *testing.T) {
	cases := map[string]string{
		"/analytics/academic?courseId=abc":                            "invalid courseId parameter",
		"/analytics/academic?courseId=0":                              "invalid courseId parameter",
		"/analytics/academic?subjectId=1%3B+DROP+TABLE+marks":         "invalid subjectId parameter",
		"/analytics/risk?riskLevel=Critical":                          "invalid riskLevel parameter",
		"/analytics/attendance?dateFrom=2024-13-01":                   "invalid dateFrom parameter",
		"/analytics/attendance?dateFrom=2024-05-02&dateTo=2024-05-01": "dateFrom must not be after dateTo",
	}
	for target, message := range cases {
		h, reports, _, _ := newAnalyticsHandler()
		rec, env := serve(t, adminClaims, analyticsRoutes(h), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.NotNil(t, env.Error, target)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code, target)
		assert.Equal(t, message, env.Error.Message, target)
		assert.Zero(t, reports.calls, target)
	}
}

func TestAnalyticsHandlerAttendanceDateRange(t *testing.T) {
	h, reports, _, _ := newAnalyticsHandler()

	rec, _ := serve(t, adminClaims, analyticsRoutes(h), "/analytics/attendance?dateFrom=2024-01-01&dateTo=2024-01-31&studentId=9")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reports.filter.DateFrom)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *reports.filter.DateFrom)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *reports.filter.DateTo)
	assert.Equal(t, int64(9), *reports.filter.StudentID)
}

func TestAnalyticsHandlerRiskLevelFilter(t *testing.T) {
	h, reports, _, _ := newAnalyticsHandler()

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk?riskLevel=High&batch=2022")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reports.filter.RiskLevel)
	assert.Equal(t, models.RiskHigh, *reports.filter.RiskLevel)
	assert.Equal(t, "2022", reports.filter.Batch)

	var report dto.RiskReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, int64(2), report.RiskSummary[0].Count)
}

func TestAnalyticsHandlerRiskLevelTrimsWhitespace(t *testing.T) {
	h, reports, _, _ := newAnalyticsHandler()

	rec, _ := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk?riskLevel=%20Medium%20")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reports.filter.RiskLevel)
	assert.Equal(t, models.RiskMedium, *reports.filter.RiskLevel)
}

func TestAnalyticsHandlerRiskLevelIsCaseSensitive(t *testing.T) {
	h, _, _, _ := newAnalyticsHandler()

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk?riskLevel=high")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid riskLevel parameter", env.Error.Message)
}

func TestAnalyticsHandlerDataStoreFailure(t *testing.T) {
	h, reports, _, _ := newAnalyticsHandler()
	reports.err = appErrors.DataStore(errors.New("connection reset"), "failed to load risk analytics")

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DATA_STORE_ERROR", env.Error.Code)
	assert.Equal(t, "failed to load risk analytics", env.Error.Message)
}

func TestAnalyticsHandlerDashboardUsesCaller(t *testing.T) {
	h, _, dashboards, _ := newAnalyticsHandler()

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Caller{UserID: 1, Role: models.RoleAdmin}, dashboards.caller)

	var summary dto.DashboardSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, int64(4), summary.AtRiskStudents)

	rec, env = serve(t, &models.JWTClaims{UserID: 5, Role: models.UserRole("auditor")}, analyticsRoutes(h), "/analytics/dashboard")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = serve(t, nil, analyticsRoutes(h), "/analytics/dashboard")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsHandlerRiskExport(t *testing.T) {
	h, _, _, exporter := newAnalyticsHandler()

	rec, _ := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk/export?format=CSV&riskLevel=Medium")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportCSV, exporter.format)
	assert.Equal(t, models.RiskMedium, *exporter.filter.RiskLevel)
	assert.Equal(t, "attachment; filename=risk-roster-20240101.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Enrollment\n", rec.Body.String())

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/risk/export?format=xlsx")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "format must be csv or pdf", env.Error.Message)
}

func TestAnalyticsHandlerSystem(t *testing.T) {
	h, _, _, _ := newAnalyticsHandler()

	rec, env := serve(t, adminClaims, analyticsRoutes(h), "/analytics/system")
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot models.AnalyticsSystemMetrics
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Equal(t, uint64(3), snapshot.ReportsTotal)
}
