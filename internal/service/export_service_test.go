package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
	"github.com/noah-isme/campusiq-api/pkg/export"
)

type stubRoster struct {
	students []dto.RiskStudent
	err      error
	filter   models.AnalyticsFilter
}

func (s *stubRoster) RiskRoster(ctx context.Context, filter models.AnalyticsFilter) ([]dto.RiskStudent, error) {
	s.filter = filter
	return s.students, s.err
}

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("font missing") }
func (failingRenderer) ContentType() string                   { return "application/pdf" }
func (failingRenderer) Extension() string                     { return "pdf" }

type capturingRenderer struct {
	dataset export.Dataset
}

func (r *capturingRenderer) Render(d export.Dataset) ([]byte, error) {
	r.dataset = d
	return []byte("%PDF"), nil
}
func (r *capturingRenderer) ContentType() string { return "application/pdf" }
func (r *capturingRenderer) Extension() string   { return "pdf" }

func newExportService(roster *stubRoster, pdf Renderer) *ExportService {
	svc := NewExportService(roster, export.NewCSVExporter(), pdf, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestParseExportFormat(t *testing.T) {
	cases := map[string]ExportFormat{"": ExportCSV, "csv": ExportCSV, " PDF ": ExportPDF}
	for raw, want := range cases {
		got, err := ParseExportFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceRiskRosterCSV(t *testing.T) {
	course := "B.Tech"
	roster := &stubRoster{students: []dto.RiskStudent{{
		EnrollmentNumber:     "EN001",
		StudentName:          "Asha Rao",
		Email:                "asha@example.edu",
		CourseName:           &course,
		CurrentSemester:      3,
		AverageMarks:         32.5,
		AttendancePercentage: 55,
		RiskLevel:            models.RiskHigh,
	}}}
	svc := newExportService(roster, export.NewPDFExporter())

	high := models.RiskHigh
	file, err := svc.RiskRoster(context.Background(), models.AnalyticsFilter{RiskLevel: &high}, ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, "risk-roster-20240517.csv", file.Filename)
	assert.Equal(t, export.NewCSVExporter().ContentType(), file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Enrollment,Student,Course,Semester,Batch,Email,Phone,Guardian,Guardian Phone,Average Marks,Attendance %,Risk Level", lines[0])
	assert.Equal(t, "EN001,Asha Rao,B.Tech,3,,asha@example.edu,,,,32.50,55.00,High", lines[1])
	assert.Equal(t, &high, roster.filter.RiskLevel)
}

func TestExportServiceRiskRosterPDF(t *testing.T) {
	svc := newExportService(&stubRoster{}, export.NewPDFExporter())

	file, err := svc.RiskRoster(context.Background(), models.AnalyticsFilter{}, ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "risk-roster-20240517.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := newExportService(&stubRoster{}, failingRenderer{})

	_, err := svc.RiskRoster(context.Background(), models.AnalyticsFilter{}, ExportPDF)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestExportServicePropagatesRosterError(t *testing.T) {
	rosterErr := appErrors.DataStore(errors.New("timeout"), "failed to load risk roster")
	svc := newExportService(&stubRoster{err: rosterErr}, export.NewPDFExporter())

	_, err := svc.RiskRoster(context.Background(), models.AnalyticsFilter{}, ExportCSV)
	assert.ErrorIs(t, err, appErrors.ErrDataStore)
}

func TestExportServiceRosterTitleCoversEveryLevel(t *testing.T) {
	roster := &stubRoster{students: []dto.RiskStudent{
		{EnrollmentNumber: "EN001", RiskLevel: models.RiskHigh},
		{EnrollmentNumber: "EN002", RiskLevel: models.RiskLow},
	}}
	pdf := &capturingRenderer{}
	svc := newExportService(roster, pdf)

	_, err := svc.RiskRoster(context.Background(), models.AnalyticsFilter{}, ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "Student Risk Roster", pdf.dataset.Title)
	require.Len(t, pdf.dataset.Rows, 2)
	assert.Equal(t, "Low", pdf.dataset.Rows[1]["Risk Level"])
}
