package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/internal/dto"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
	"github.com/noah-isme/campusiq-api/pkg/response"
)

type studentReports interface {
	StudentAnalytics(ctx context.Context, studentID int64) (*dto.StudentAnalytics, error)
	Performance(ctx context.Context, userID int64) (*dto.StudentPerformanceReport, error)
	Attendance(ctx context.Context, userID int64) (*dto.StudentAttendanceReport, error)
	Placement(ctx context.Context, userID int64) (*dto.StudentPlacementReport, error)
}

// StudentHandler serves per-student analytics.
type StudentHandler struct {
	reports studentReports
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(reports studentReports) *StudentHandler {
	return &StudentHandler{reports: reports}
}

// Analytics godoc
// @Summary Risk snapshot of one student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.StudentAnalytics}
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/analytics [get]
func (h *StudentHandler) Analytics(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	out, err := h.reports.StudentAnalytics(c.Request.Context(), id)
	respond(c, start, out, err)
}

// Performance godoc
// @Summary Marks overview of the calling student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.StudentPerformanceReport}
// @Failure 404 {object} response.Envelope
// @Router /student/performance [get]
func (h *StudentHandler) Performance(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	caller, err := callerFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	out, err := h.reports.Performance(c.Request.Context(), caller.UserID)
	respond(c, start, out, err)
}

// Attendance godoc
// @Summary Attendance overview of the calling student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.StudentAttendanceReport}
// @Failure 404 {object} response.Envelope
// @Router /student/attendance [get]
func (h *StudentHandler) Attendance(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	caller, err := callerFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	out, err := h.reports.Attendance(c.Request.Context(), caller.UserID)
	respond(c, start, out, err)
}

// Placement godoc
// @Summary Placement offers of the calling student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.StudentPlacementReport}
// @Failure 404 {object} response.Envelope
// @Router /student/placement [get]
func (h *StudentHandler) Placement(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	caller, err := callerFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	out, err := h.reports.Placement(c.Request.Context(), caller.UserID)
	respond(c, start, out, err)
}
