package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/analytics"
	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
)

// TopPerformersLimit caps the academic top performers ranking.
const TopPerformersLimit = 10

// AnalyticsRepository describes the persistence layer required by AnalyticsService.
type AnalyticsRepository interface {
	InstitutionCounts(ctx context.Context) (*models.InstitutionCounts, error)
	StudentPerformance(ctx context.Context, filter models.AnalyticsFilter) ([]models.StudentPerformance, error)
	SubjectMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectMarkAggregate, error)
	SemesterMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SemesterMarkAggregate, error)
	SubjectAttendance(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectAttendance, error)
	PlacementOverview(ctx context.Context, filter models.AnalyticsFilter) (*models.PlacementOverview, error)
	AcceptedPackages(ctx context.Context, filter models.AnalyticsFilter) ([]float64, error)
	CompanyPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.CompanyPlacement, error)
	BatchPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.BatchPlacement, error)
}

// AnalyticsService composes institution-wide reports. Every call recomputes
// from the data store.
type AnalyticsService struct {
	repo    AnalyticsRepository
	metrics *MetricsService
	runner  reportRunner
}

// NewAnalyticsService constructs an analytics service. maxParallel bounds the
// queries one report runs at a time.
func NewAnalyticsService(repo AnalyticsRepository, metrics *MetricsService, logger *zap.Logger, maxParallel int) *AnalyticsService {
	return &AnalyticsService{repo: repo, metrics: metrics, runner: newReportRunner(metrics, logger, maxParallel)}
}

// Dashboard returns the admin headline counts. The at-risk count comes from
// the same snapshot and classifier as the risk report.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.DashboardSummary, error) {
	var (
		counts *models.InstitutionCounts
		rows   []models.StudentPerformance
	)
	err := s.runner.run(ctx, "dashboard",
		fetch("dashboard_counts", &counts, s.repo.InstitutionCounts),
		fetch("dashboard_performance", &rows, func(ctx context.Context) ([]models.StudentPerformance, error) {
			return s.repo.StudentPerformance(ctx, models.AnalyticsFilter{})
		}),
	)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		TotalStudents:  counts.TotalStudents,
		TotalFaculty:   counts.TotalFaculty,
		TotalCourses:   counts.TotalCourses,
		PlacedStudents: counts.PlacedStudents,
	}
	for _, row := range rows {
		if scoreStudent(row).risk.AtRisk() {
			summary.AtRiskStudents++
		}
	}
	return summary, nil
}

// Academic returns subject averages, top performers, the semester trend and
// pass/fail counts over final-exam marks.
func (s *AnalyticsService) Academic(ctx context.Context, filter models.AnalyticsFilter) (*dto.AcademicReport, error) {
	var (
		subjects  []models.SubjectMarkAggregate
		semesters []models.SemesterMarkAggregate
		students  []models.StudentPerformance
	)
	err := s.runner.run(ctx, "academic analytics",
		fetch("academic_subjects", &subjects, func(ctx context.Context) ([]models.SubjectMarkAggregate, error) {
			return s.repo.SubjectMarkAggregates(ctx, filter)
		}),
		fetch("academic_semesters", &semesters, func(ctx context.Context) ([]models.SemesterMarkAggregate, error) {
			return s.repo.SemesterMarkAggregates(ctx, filter)
		}),
		fetch("academic_students", &students, func(ctx context.Context) ([]models.StudentPerformance, error) {
			return s.repo.StudentPerformance(ctx, filter)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.AcademicReport{
		SubjectMarks:  make([]dto.SubjectMarks, 0, len(subjects)),
		TopPerformers: []dto.StudentAverage{},
		SemesterTrend: semesterTrend(semesters),
		PassFailStats: []dto.PassFailStat{},
	}
	for _, sub := range subjects {
		report.SubjectMarks = append(report.SubjectMarks, dto.SubjectMarks{
			SubjectID:      sub.SubjectID,
			SubjectCode:    sub.SubjectCode,
			SubjectName:    sub.SubjectName,
			AverageMarks:   analytics.AverageMarks(sub.MarksSum, sub.Attempts),
			TotalStudents:  sub.Students,
			PassPercentage: analytics.PassRate(sub.Passed, sub.Attempts),
		})
		if sub.Attempts > 0 {
			report.PassFailStats = append(report.PassFailStats, dto.PassFailStat{
				SubjectID:   sub.SubjectID,
				SubjectName: sub.SubjectName,
				Passed:      sub.Passed,
				Failed:      sub.Attempts - sub.Passed,
			})
		}
	}
	sort.SliceStable(report.SubjectMarks, func(i, j int) bool {
		return report.SubjectMarks[i].AverageMarks > report.SubjectMarks[j].AverageMarks
	})

	ranked := make([]dto.StudentAverage, 0, len(students))
	for _, row := range students {
		if row.MarksCount == 0 {
			continue
		}
		ranked = append(ranked, dto.StudentAverage{
			StudentID:        row.StudentID,
			EnrollmentNumber: row.EnrollmentNumber,
			StudentName:      row.StudentName,
			CourseName:       row.CourseName,
			CurrentSemester:  row.CurrentSemester,
			AverageMarks:     analytics.AverageMarks(row.MarksSum, row.MarksCount),
		})
	}
	report.TopPerformers = analytics.TopByAverage(ranked, func(a dto.StudentAverage) float64 { return a.AverageMarks }, TopPerformersLimit)
	return report, nil
}

// Attendance returns per-student attendance, low attendance alerts, the
// attendance/marks correlation and per-subject attendance.
func (s *AnalyticsService) Attendance(ctx context.Context, filter models.AnalyticsFilter) (*dto.AttendanceReport, error) {
	var (
		pairs    []models.SubjectAttendance
		students []models.StudentPerformance
	)
	err := s.runner.run(ctx, "attendance analytics",
		fetch("attendance_subject_pairs", &pairs, func(ctx context.Context) ([]models.SubjectAttendance, error) {
			return s.repo.SubjectAttendance(ctx, filter)
		}),
		fetch("attendance_students", &students, func(ctx context.Context) ([]models.StudentPerformance, error) {
			return s.repo.StudentPerformance(ctx, filter)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.AttendanceReport{
		AttendanceSummary: summariseStudentAttendance(pairs),
		LowAttendance:     []dto.LowAttendanceAlert{},
		Correlation:       []dto.AttendanceCorrelation{},
		SubjectAttendance: summariseSubjectAttendance(pairs),
	}

	for _, pair := range pairs {
		pct := analytics.AttendancePercentage(pair.Present, pair.Total)
		if pct < analytics.LowAttendanceAlertThreshold {
			report.LowAttendance = append(report.LowAttendance, dto.LowAttendanceAlert{
				StudentID:        pair.StudentID,
				StudentName:      pair.StudentName,
				EnrollmentNumber: pair.EnrollmentNumber,
				SubjectID:        pair.SubjectID,
				SubjectName:      pair.SubjectName,
				Percentage:       pct,
			})
		}
	}
	sort.SliceStable(report.LowAttendance, func(i, j int) bool {
		return report.LowAttendance[i].Percentage < report.LowAttendance[j].Percentage
	})

	for _, row := range students {
		if row.AttendanceTotal == 0 || row.MarksCount == 0 {
			continue
		}
		report.Correlation = append(report.Correlation, dto.AttendanceCorrelation{
			StudentID:            row.StudentID,
			StudentName:          row.StudentName,
			AttendancePercentage: analytics.AttendancePercentage(row.PresentCount, row.AttendanceTotal),
			AverageMarks:         analytics.AverageMarks(row.MarksSum, row.MarksCount),
		})
	}
	sort.SliceStable(report.Correlation, func(i, j int) bool {
		return report.Correlation[i].AttendancePercentage > report.Correlation[j].AttendancePercentage
	})
	return report, nil
}

// Risk classifies every active student in scope. Only Medium and High
// students are listed; the summary counts all three levels.
func (s *AnalyticsService) Risk(ctx context.Context, filter models.AnalyticsFilter) (*dto.RiskReport, error) {
	scored, err := s.classify(ctx, "risk analytics", filter)
	if err != nil {
		return nil, err
	}

	counts := map[models.RiskLevel]int64{}
	list := make([]dto.RiskStudent, 0)
	for _, st := range scored {
		counts[st.risk]++
		if !st.risk.AtRisk() {
			continue
		}
		if filter.RiskLevel != nil && st.risk != *filter.RiskLevel {
			continue
		}
		list = append(list, st.riskStudent())
	}
	sortRiskStudents(list)

	return &dto.RiskReport{
		AtRiskStudents: list,
		RiskSummary: []dto.RiskBand{
			{RiskLevel: models.RiskHigh, Count: counts[models.RiskHigh]},
			{RiskLevel: models.RiskMedium, Count: counts[models.RiskMedium]},
			{RiskLevel: models.RiskLow, Count: counts[models.RiskLow]},
		},
	}, nil
}

// RiskRoster returns every classified student in scope, or only the requested
// level, ordered like the risk report.
func (s *AnalyticsService) RiskRoster(ctx context.Context, filter models.AnalyticsFilter) ([]dto.RiskStudent, error) {
	scored, err := s.classify(ctx, "risk roster", filter)
	if err != nil {
		return nil, err
	}
	roster := make([]dto.RiskStudent, 0, len(scored))
	for _, st := range scored {
		if filter.RiskLevel != nil && st.risk != *filter.RiskLevel {
			continue
		}
		roster = append(roster, st.riskStudent())
	}
	sortRiskStudents(roster)
	return roster, nil
}

func (s *AnalyticsService) classify(ctx context.Context, report string, filter models.AnalyticsFilter) ([]scoredStudent, error) {
	var rows []models.StudentPerformance
	err := s.runner.run(ctx, report, fetch("risk_performance", &rows, func(ctx context.Context) ([]models.StudentPerformance, error) {
		return s.repo.StudentPerformance(ctx, filter)
	}))
	if err != nil {
		return nil, err
	}
	scored := make([]scoredStudent, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, scoreStudent(row))
	}
	return scored, nil
}

// Placement returns eligibility and package statistics over accepted
// non-internship offers.
func (s *AnalyticsService) Placement(ctx context.Context, filter models.AnalyticsFilter) (*dto.PlacementReport, error) {
	var (
		overview  *models.PlacementOverview
		companies []models.CompanyPlacement
		packages  []float64
		batches   []models.BatchPlacement
	)
	err := s.runner.run(ctx, "placement analytics",
		fetch("placement_overview", &overview, func(ctx context.Context) (*models.PlacementOverview, error) {
			return s.repo.PlacementOverview(ctx, filter)
		}),
		fetch("placement_companies", &companies, func(ctx context.Context) ([]models.CompanyPlacement, error) {
			return s.repo.CompanyPlacements(ctx, filter)
		}),
		fetch("placement_packages", &packages, func(ctx context.Context) ([]float64, error) {
			return s.repo.AcceptedPackages(ctx, filter)
		}),
		fetch("placement_batches", &batches, func(ctx context.Context) ([]models.BatchPlacement, error) {
			return s.repo.BatchPlacements(ctx, filter)
		}),
	)
	if err != nil {
		return nil, err
	}

	report := &dto.PlacementReport{
		OverallStats:        placementStats(overview),
		CompanyWise:         make([]dto.CompanyPlacement, 0, len(companies)),
		PackageDistribution: packageRanges(packages),
		BatchTrend:          make([]dto.BatchPlacementSummary, 0, len(batches)),
	}
	for _, c := range companies {
		report.CompanyWise = append(report.CompanyWise, dto.CompanyPlacement{
			CompanyName:    c.CompanyName,
			StudentsPlaced: c.Offers,
			AveragePackage: analytics.Round2(c.AveragePackage),
			MaxPackage:     analytics.Round2(c.HighestPackage),
			Roles:          c.Roles,
		})
	}
	for _, b := range batches {
		report.BatchTrend = append(report.BatchTrend, dto.BatchPlacementSummary{
			Batch:               b.Batch,
			Total:               b.Eligible,
			Placed:              b.Placed,
			PlacementPercentage: analytics.Percentage(float64(b.Placed), float64(b.Eligible)),
			AveragePackage:      roundOrZero(b.AveragePackage),
		})
	}
	return report, nil
}

// PlacementSummary is the reduced placement view of the placement officer dashboard.
func (s *AnalyticsService) PlacementSummary(ctx context.Context) (*dto.PlacementDashboard, error) {
	var (
		overview *models.PlacementOverview
		packages []float64
	)
	filter := models.AnalyticsFilter{}
	err := s.runner.run(ctx, "placement dashboard",
		fetch("placement_overview", &overview, func(ctx context.Context) (*models.PlacementOverview, error) {
			return s.repo.PlacementOverview(ctx, filter)
		}),
		fetch("placement_packages", &packages, func(ctx context.Context) ([]float64, error) {
			return s.repo.AcceptedPackages(ctx, filter)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &dto.PlacementDashboard{OverallStats: placementStats(overview), PackageDistribution: packageRanges(packages)}, nil
}

// SubjectDifficulty scores every subject with final-exam marks, highest fail
// rate first.
func (s *AnalyticsService) SubjectDifficulty(ctx context.Context, filter models.AnalyticsFilter) ([]dto.SubjectDifficulty, error) {
	var subjects []models.SubjectMarkAggregate
	err := s.runner.run(ctx, "subject difficulty", fetch("difficulty_subjects", &subjects, func(ctx context.Context) ([]models.SubjectMarkAggregate, error) {
		return s.repo.SubjectMarkAggregates(ctx, filter)
	}))
	if err != nil {
		return nil, err
	}

	result := make([]dto.SubjectDifficulty, 0, len(subjects))
	for _, sub := range subjects {
		if sub.Attempts == 0 {
			continue
		}
		// labelled on the unrounded mean
		rawAvg := sub.MarksSum / float64(sub.Attempts)
		result = append(result, dto.SubjectDifficulty{
			SubjectID:         sub.SubjectID,
			SubjectCode:       sub.SubjectCode,
			SubjectName:       sub.SubjectName,
			SemesterNumber:    sub.SemesterNumber,
			AverageMarks:      analytics.AverageMarks(sub.MarksSum, sub.Attempts),
			StdDeviation:      analytics.StdDev(sub.MarksSum, sub.MarksSquares, sub.Attempts),
			FailRate:          analytics.FailRate(sub.Passed, sub.Attempts),
			StudentsAttempted: sub.Students,
			DifficultyLevel:   analytics.DifficultyLabel(rawAvg),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].FailRate > result[j].FailRate })
	return result, nil
}

// FacultySubjects summarises final marks of the subjects a faculty member teaches.
func (s *AnalyticsService) FacultySubjects(ctx context.Context, facultyID int64) (*dto.FacultyDashboard, error) {
	var subjects []models.SubjectMarkAggregate
	err := s.runner.run(ctx, "faculty dashboard", fetch("faculty_subjects", &subjects, func(ctx context.Context) ([]models.SubjectMarkAggregate, error) {
		return s.repo.SubjectMarkAggregates(ctx, models.AnalyticsFilter{FacultyID: &facultyID})
	}))
	if err != nil {
		return nil, err
	}
	out := &dto.FacultyDashboard{Subjects: make([]dto.FacultySubject, 0, len(subjects))}
	for _, sub := range subjects {
		out.Subjects = append(out.Subjects, dto.FacultySubject{
			SubjectID:      sub.SubjectID,
			SubjectCode:    sub.SubjectCode,
			SubjectName:    sub.SubjectName,
			SemesterNumber: sub.SemesterNumber,
			AverageMarks:   analytics.AverageMarks(sub.MarksSum, sub.Attempts),
			TotalStudents:  sub.Students,
			PassPercentage: analytics.PassRate(sub.Passed, sub.Attempts),
		})
	}
	return out, nil
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{}
	}
	return s.metrics.Snapshot()
}
