package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/internal/dto"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
	"github.com/noah-isme/campusiq-api/pkg/response"
)

type classReports interface {
	ClassAnalytics(ctx context.Context, subjectID int64) (*dto.ClassAnalytics, error)
}

// FacultyHandler serves the class views of faculty members.
type FacultyHandler struct {
	classes classReports
}

// NewFacultyHandler constructs the handler.
func NewFacultyHandler(classes classReports) *FacultyHandler {
	return &FacultyHandler{classes: classes}
}

// ClassAnalytics godoc
// @Summary Class analytics of one subject
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} response.Envelope{data=dto.ClassAnalytics}
// @Failure 404 {object} response.Envelope
// @Router /faculty/class-analytics/{subjectId} [get]
func (h *FacultyHandler) ClassAnalytics(c *gin.Context) {
	if h.classes == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	subjectID, err := pathID(c, "subjectId")
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	out, err := h.classes.ClassAnalytics(c.Request.Context(), subjectID)
	respond(c, start, out, err)
}
