package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/analytics"
	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// ClassAttendanceDays is how many of the latest class dates the attendance
// trend covers.
const ClassAttendanceDays = 30

// SubjectLookup resolves subjects.
type SubjectLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

// ClassAnalyticsRepository is the data store surface of the class report.
type ClassAnalyticsRepository interface {
	SubjectMarks(ctx context.Context, subjectID int64, examType models.ExamType) ([]float64, error)
	DailyAttendance(ctx context.Context, subjectID int64, limit uint64) ([]models.AttendanceBucket, error)
	ClassRoster(ctx context.Context, subject models.Subject) ([]models.StudentPerformance, error)
}

// ClassAnalyticsService composes the faculty view of one subject.
type ClassAnalyticsService struct {
	repo     ClassAnalyticsRepository
	subjects SubjectLookup
	runner   reportRunner
}

// NewClassAnalyticsService constructs the service.
func NewClassAnalyticsService(repo ClassAnalyticsRepository, subjects SubjectLookup, metrics *MetricsService, logger *zap.Logger, maxParallel int) *ClassAnalyticsService {
	return &ClassAnalyticsService{repo: repo, subjects: subjects, runner: newReportRunner(metrics, logger, maxParallel)}
}

// ClassAnalytics returns the grade distribution, attendance trend and at-risk
// roster of a subject.
func (s *ClassAnalyticsService) ClassAnalytics(ctx context.Context, subjectID int64) (*dto.ClassAnalytics, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.DataStore(err, "failed to load subject")
	}

	var (
		marks  []float64
		days   []models.AttendanceBucket
		roster []models.StudentPerformance
	)
	err = s.runner.run(ctx, "class analytics",
		fetch("class_marks", &marks, func(ctx context.Context) ([]float64, error) {
			return s.repo.SubjectMarks(ctx, subject.ID, models.ExamFinal)
		}),
		fetch("class_daily_attendance", &days, func(ctx context.Context) ([]models.AttendanceBucket, error) {
			return s.repo.DailyAttendance(ctx, subject.ID, ClassAttendanceDays)
		}),
		fetch("class_roster", &roster, func(ctx context.Context) ([]models.StudentPerformance, error) {
			return s.repo.ClassRoster(ctx, *subject)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.ClassAnalytics{
		SubjectID:         subject.ID,
		SubjectCode:       subject.Code,
		SubjectName:       subject.Name,
		MarksDistribution: make([]dto.GradeCount, 0),
		AttendanceTrend:   make([]dto.DailyAttendance, 0, len(days)),
		AtRiskStudents:    make([]dto.ClassRiskStudent, 0),
	}
	for _, band := range analytics.GradeDistribution(marks) {
		report.MarksDistribution = append(report.MarksDistribution, dto.GradeCount{Grade: band.Label, Count: band.Count})
	}
	for _, d := range days {
		report.AttendanceTrend = append(report.AttendanceTrend, dto.DailyAttendance{Date: d.Key, Present: d.Present, Absent: d.Total - d.Present})
	}
	for _, row := range roster {
		scored := scoreStudent(row)
		if !scored.risk.AtRisk() {
			continue
		}
		report.AtRiskStudents = append(report.AtRiskStudents, dto.ClassRiskStudent{
			StudentID:            row.StudentID,
			EnrollmentNumber:     row.EnrollmentNumber,
			StudentName:          row.StudentName,
			AverageMarks:         scored.average,
			AttendancePercentage: scored.attendance,
			RiskLevel:            scored.risk,
		})
	}
	sort.SliceStable(report.AtRiskStudents, func(i, j int) bool {
		return report.AtRiskStudents[i].AverageMarks < report.AtRiskStudents[j].AverageMarks
	})
	return report, nil
}
