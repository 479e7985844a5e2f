package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
	"github.com/noah-isme/campusiq-api/pkg/export"
)

// ExportFormat names a supported export rendering.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// Renderer turns a dataset into a downloadable file.
type Renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type riskRosterSource interface {
	RiskRoster(ctx context.Context, filter models.AnalyticsFilter) ([]dto.RiskStudent, error)
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

var riskRosterHeaders = []string{
	"Enrollment", "Student", "Course", "Semester", "Batch", "Email", "Phone",
	"Guardian", "Guardian Phone", "Average Marks", "Attendance %", "Risk Level",
}

// ExportService renders the classified risk roster.
type ExportService struct {
	roster    riskRosterSource
	renderers map[ExportFormat]Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs the export service with CSV and PDF renderers.
func NewExportService(roster riskRosterSource, csv, pdf Renderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		roster:    roster,
		renderers: map[ExportFormat]Renderer{ExportCSV: csv, ExportPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// ParseExportFormat accepts csv or pdf, case-insensitively. Empty means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportPDF:
		return format, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// RiskRoster renders the roster for filter in the requested format.
func (s *ExportService) RiskRoster(ctx context.Context, filter models.AnalyticsFilter, format ExportFormat) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok || renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	students, err := s.roster.RiskRoster(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   "Student Risk Roster",
		Headers: riskRosterHeaders,
		Rows:    make([]map[string]string, 0, len(students)),
	}
	for _, st := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Enrollment":     st.EnrollmentNumber,
			"Student":        st.StudentName,
			"Course":         deref(st.CourseName),
			"Semester":       strconv.Itoa(st.CurrentSemester),
			"Batch":          deref(st.Batch),
			"Email":          st.Email,
			"Phone":          deref(st.Phone),
			"Guardian":       deref(st.GuardianName),
			"Guardian Phone": deref(st.GuardianPhone),
			"Average Marks":  strconv.FormatFloat(st.AverageMarks, 'f', 2, 64),
			"Attendance %":   strconv.FormatFloat(st.AttendancePercentage, 'f', 2, 64),
			"Risk Level":     string(st.RiskLevel),
		})
	}

	payload, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render risk roster", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("risk-roster-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
