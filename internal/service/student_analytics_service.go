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

// StudentLookup resolves student profiles.
type StudentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// StudentAnalyticsRepository is the data store surface of per-student reports.
type StudentAnalyticsRepository interface {
	StudentPerformance(ctx context.Context, filter models.AnalyticsFilter) ([]models.StudentPerformance, error)
	StudentMarkStats(ctx context.Context, studentID int64) (*models.StudentMarkStats, error)
	StudentSubjectMarks(ctx context.Context, studentID int64) ([]models.StudentSubjectMark, error)
	SemesterMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SemesterMarkAggregate, error)
	PeerRank(ctx context.Context, studentID int64) (int64, error)
	SubjectAttendance(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectAttendance, error)
	MonthlyAttendance(ctx context.Context, studentID int64) ([]models.AttendanceBucket, error)
	StudentPlacements(ctx context.Context, studentID int64) ([]models.Placement, error)
}

// StudentAnalyticsService composes reports about a single student.
type StudentAnalyticsService struct {
	repo     StudentAnalyticsRepository
	students StudentLookup
	runner   reportRunner
}

// NewStudentAnalyticsService constructs the service.
func NewStudentAnalyticsService(repo StudentAnalyticsRepository, students StudentLookup, metrics *MetricsService, logger *zap.Logger, maxParallel int) *StudentAnalyticsService {
	return &StudentAnalyticsService{repo: repo, students: students, runner: newReportRunner(metrics, logger, maxParallel)}
}

// StudentAnalytics returns the risk snapshot of a student by id.
func (s *StudentAnalyticsService) StudentAnalytics(ctx context.Context, studentID int64) (*dto.StudentAnalytics, error) {
	student, err := s.resolve(ctx, s.students.FindByID, studentID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, student)
}

// Snapshot returns the risk snapshot of the student linked to userID.
func (s *StudentAnalyticsService) Snapshot(ctx context.Context, userID int64) (*dto.StudentAnalytics, error) {
	student, err := s.resolve(ctx, s.students.FindByUserID, userID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, student)
}

func (s *StudentAnalyticsService) snapshot(ctx context.Context, student *models.Student) (*dto.StudentAnalytics, error) {
	var rows []models.StudentPerformance
	err := s.runner.run(ctx, "student analytics", fetch("student_performance", &rows, func(ctx context.Context) ([]models.StudentPerformance, error) {
		return s.repo.StudentPerformance(ctx, models.AnalyticsFilter{StudentID: &student.ID})
	}))
	if err != nil {
		return nil, err
	}

	// Inactive students are absent from the snapshot and score as zero.
	row := models.StudentPerformance{StudentID: student.ID}
	if len(rows) > 0 {
		row = rows[0]
	}
	scored := scoreStudent(row)
	return &dto.StudentAnalytics{
		StudentID:            student.ID,
		EnrollmentNumber:     student.EnrollmentNumber,
		StudentName:          student.FullName(),
		CourseName:           student.CourseName,
		CurrentSemester:      student.CurrentSemester,
		Batch:                student.Batch,
		AverageMarks:         scored.average,
		AttendancePercentage: scored.attendance,
		RiskLevel:            scored.risk,
	}, nil
}

// Performance returns the marks view of the student linked to userID.
func (s *StudentAnalyticsService) Performance(ctx context.Context, userID int64) (*dto.StudentPerformanceReport, error) {
	student, err := s.resolve(ctx, s.students.FindByUserID, userID)
	if err != nil {
		return nil, err
	}

	var (
		stats     *models.StudentMarkStats
		marks     []models.StudentSubjectMark
		semesters []models.SemesterMarkAggregate
		rank      int64
	)
	err = s.runner.run(ctx, "student performance",
		fetch("student_mark_stats", &stats, func(ctx context.Context) (*models.StudentMarkStats, error) {
			return s.repo.StudentMarkStats(ctx, student.ID)
		}),
		fetch("student_subject_marks", &marks, func(ctx context.Context) ([]models.StudentSubjectMark, error) {
			return s.repo.StudentSubjectMarks(ctx, student.ID)
		}),
		fetch("student_semesters", &semesters, func(ctx context.Context) ([]models.SemesterMarkAggregate, error) {
			return s.repo.SemesterMarkAggregates(ctx, models.AnalyticsFilter{StudentID: &student.ID})
		}),
		fetch("student_rank", &rank, func(ctx context.Context) (int64, error) {
			return s.repo.PeerRank(ctx, student.ID)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.StudentPerformanceReport{
		Overall: dto.PerformanceOverview{
			AverageMarks:  analytics.AverageMarks(stats.Sum, stats.Count),
			HighestMarks:  roundPtr(stats.Highest),
			LowestMarks:   roundPtr(stats.Lowest),
			TotalSubjects: stats.Subjects,
		},
		SubjectMarks:  make([]dto.StudentSubjectMark, 0, len(marks)),
		SemesterTrend: semesterTrend(semesters),
	}
	if stats.Count > 0 {
		report.Rank = &rank
	}
	for _, m := range marks {
		report.SubjectMarks = append(report.SubjectMarks, dto.StudentSubjectMark{
			SubjectCode:    m.SubjectCode,
			SubjectName:    m.SubjectName,
			SemesterNumber: m.SemesterNumber,
			ExamType:       m.ExamType,
			MarksObtained:  analytics.Round2(m.MarksObtained),
			MaxMarks:       m.MaxMarks,
			Percentage:     analytics.MarkPercentage(m.MarksObtained, m.MaxMarks),
			Passed:         m.MarksObtained >= m.PassingMarks,
		})
	}
	return report, nil
}

// Attendance returns the attendance view of the student linked to userID.
func (s *StudentAnalyticsService) Attendance(ctx context.Context, userID int64) (*dto.StudentAttendanceReport, error) {
	student, err := s.resolve(ctx, s.students.FindByUserID, userID)
	if err != nil {
		return nil, err
	}

	var (
		pairs   []models.SubjectAttendance
		monthly []models.AttendanceBucket
	)
	err = s.runner.run(ctx, "student attendance",
		fetch("student_subject_attendance", &pairs, func(ctx context.Context) ([]models.SubjectAttendance, error) {
			return s.repo.SubjectAttendance(ctx, models.AnalyticsFilter{StudentID: &student.ID})
		}),
		fetch("student_monthly_attendance", &monthly, func(ctx context.Context) ([]models.AttendanceBucket, error) {
			return s.repo.MonthlyAttendance(ctx, student.ID)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.StudentAttendanceReport{
		SubjectWise:  make([]dto.SubjectAttendance, 0, len(pairs)),
		MonthlyTrend: make([]dto.MonthlyAttendance, 0, len(monthly)),
	}
	var present, total int64
	for _, p := range pairs {
		present += p.Present
		total += p.Total
		report.SubjectWise = append(report.SubjectWise, dto.SubjectAttendance{
			SubjectID:        p.SubjectID,
			SubjectCode:      p.SubjectCode,
			SubjectName:      p.SubjectName,
			AttendanceTotals: attendanceTotals(p.Present, p.Total),
		})
	}
	sort.SliceStable(report.SubjectWise, func(i, j int) bool {
		return report.SubjectWise[i].Percentage < report.SubjectWise[j].Percentage
	})
	report.Overall = attendanceTotals(present, total)
	for _, m := range monthly {
		report.MonthlyTrend = append(report.MonthlyTrend, dto.MonthlyAttendance{Month: m.Key, AttendanceTotals: attendanceTotals(m.Present, m.Total)})
	}
	return report, nil
}

// Placement returns the offers of the student linked to userID, latest first.
func (s *StudentAnalyticsService) Placement(ctx context.Context, userID int64) (*dto.StudentPlacementReport, error) {
	student, err := s.resolve(ctx, s.students.FindByUserID, userID)
	if err != nil {
		return nil, err
	}

	var placements []models.Placement
	err = s.runner.run(ctx, "student placement", fetch("student_placements", &placements, func(ctx context.Context) ([]models.Placement, error) {
		return s.repo.StudentPlacements(ctx, student.ID)
	}))
	if err != nil {
		return nil, err
	}

	report := &dto.StudentPlacementReport{
		CurrentSemester: student.CurrentSemester,
		Eligible:        student.CurrentSemester >= models.PlacementEligibleSemester,
		Offers:          make([]dto.PlacementOffer, 0, len(placements)),
	}
	for _, p := range placements {
		if p.Status == models.PlacementAccepted && !p.IsInternship {
			report.Placed = true
		}
		offer := dto.PlacementOffer{
			PlacementID:  p.ID,
			CompanyName:  p.CompanyName,
			JobRole:      p.JobRole,
			PackageLPA:   analytics.Round2(p.PackageLPA),
			Status:       p.Status,
			IsInternship: p.IsInternship,
		}
		if p.PlacementDate != nil {
			date := p.PlacementDate.Format("2006-01-02")
			offer.PlacementDate = &date
		}
		report.Offers = append(report.Offers, offer)
	}
	return report, nil
}

func (s *StudentAnalyticsService) resolve(ctx context.Context, find func(context.Context, int64) (*models.Student, error), id int64) (*models.Student, error) {
	student, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.DataStore(err, "failed to load student")
	}
	return student, nil
}

func attendanceTotals(present, total int64) dto.AttendanceTotals {
	return dto.AttendanceTotals{TotalClasses: total, Attended: present, Percentage: analytics.AttendancePercentage(present, total)}
}
