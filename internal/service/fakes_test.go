package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/campusiq-api/internal/models"
)

// fakeAnalyticsRepo serves canned rows for every analytics query. Setting
// failOn makes the named method return err.
type fakeAnalyticsRepo struct {
	mu sync.Mutex

	counts      models.InstitutionCounts
	performance []models.StudentPerformance
	subjects    []models.SubjectMarkAggregate
	semesters   []models.SemesterMarkAggregate
	pairs       []models.SubjectAttendance
	overview    models.PlacementOverview
	packages    []float64
	companies   []models.CompanyPlacement
	batches     []models.BatchPlacement
	markStats   models.StudentMarkStats
	marks       []models.StudentSubjectMark
	rank        int64
	monthly     []models.AttendanceBucket
	classMarks  []float64
	daily       []models.AttendanceBucket
	roster      []models.StudentPerformance
	placements  []models.Placement

	failOn  string
	err     error
	filters []models.AnalyticsFilter
}

func (f *fakeAnalyticsRepo) fail(method string) error {
	if f.failOn == method {
		return f.err
	}
	return nil
}

func (f *fakeAnalyticsRepo) record(filter models.AnalyticsFilter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
}

func (f *fakeAnalyticsRepo) InstitutionCounts(ctx context.Context) (*models.InstitutionCounts, error) {
	if err := f.fail("InstitutionCounts"); err != nil {
		return nil, err
	}
	counts := f.counts
	return &counts, nil
}

func (f *fakeAnalyticsRepo) StudentPerformance(ctx context.Context, filter models.AnalyticsFilter) ([]models.StudentPerformance, error) {
	f.record(filter)
	if err := f.fail("StudentPerformance"); err != nil {
		return nil, err
	}
	if filter.StudentID != nil {
		for _, row := range f.performance {
			if row.StudentID == *filter.StudentID {
				return []models.StudentPerformance{row}, nil
			}
		}
		return nil, nil
	}
	return f.performance, nil
}

func (f *fakeAnalyticsRepo) SubjectMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectMarkAggregate, error) {
	f.record(filter)
	return f.subjects, f.fail("SubjectMarkAggregates")
}

func (f *fakeAnalyticsRepo) SemesterMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SemesterMarkAggregate, error) {
	return f.semesters, f.fail("SemesterMarkAggregates")
}

func (f *fakeAnalyticsRepo) SubjectAttendance(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectAttendance, error) {
	return f.pairs, f.fail("SubjectAttendance")
}

func (f *fakeAnalyticsRepo) PlacementOverview(ctx context.Context, filter models.AnalyticsFilter) (*models.PlacementOverview, error) {
	if err := f.fail("PlacementOverview"); err != nil {
		return nil, err
	}
	overview := f.overview
	return &overview, nil
}

func (f *fakeAnalyticsRepo) AcceptedPackages(ctx context.Context, filter models.AnalyticsFilter) ([]float64, error) {
	return f.packages, f.fail("AcceptedPackages")
}

func (f *fakeAnalyticsRepo) CompanyPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.CompanyPlacement, error) {
	return f.companies, f.fail("CompanyPlacements")
}

func (f *fakeAnalyticsRepo) BatchPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.BatchPlacement, error) {
	return f.batches, f.fail("BatchPlacements")
}

func (f *fakeAnalyticsRepo) StudentMarkStats(ctx context.Context, studentID int64) (*models.StudentMarkStats, error) {
	if err := f.fail("StudentMarkStats"); err != nil {
		return nil, err
	}
	stats := f.markStats
	return &stats, nil
}

func (f *fakeAnalyticsRepo) StudentSubjectMarks(ctx context.Context, studentID int64) ([]models.StudentSubjectMark, error) {
	return f.marks, f.fail("StudentSubjectMarks")
}

func (f *fakeAnalyticsRepo) PeerRank(ctx context.Context, studentID int64) (int64, error) {
	return f.rank, f.fail("PeerRank")
}

func (f *fakeAnalyticsRepo) MonthlyAttendance(ctx context.Context, studentID int64) ([]models.AttendanceBucket, error) {
	return f.monthly, f.fail("MonthlyAttendance")
}

func (f *fakeAnalyticsRepo) SubjectMarks(ctx context.Context, subjectID int64, examType models.ExamType) ([]float64, error) {
	return f.classMarks, f.fail("SubjectMarks")
}

func (f *fakeAnalyticsRepo) DailyAttendance(ctx context.Context, subjectID int64, limit uint64) ([]models.AttendanceBucket, error) {
	return f.daily, f.fail("DailyAttendance")
}

func (f *fakeAnalyticsRepo) ClassRoster(ctx context.Context, subject models.Subject) ([]models.StudentPerformance, error) {
	return f.roster, f.fail("ClassRoster")
}

func (f *fakeAnalyticsRepo) StudentPlacements(ctx context.Context, studentID int64) ([]models.Placement, error) {
	return f.placements, f.fail("StudentPlacements")
}

type fakeStudents struct {
	byID     map[int64]*models.Student
	byUserID map[int64]*models.Student
	err      error
}

func (f *fakeStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return f.lookup(f.byID, id)
}

func (f *fakeStudents) FindByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return f.lookup(f.byUserID, userID)
}

func (f *fakeStudents) lookup(m map[int64]*models.Student, key int64) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := m[key]; ok {
		return s, nil
	}
	return nil, errNoRows
}

type fakeSubjects struct {
	subjects map[int64]*models.Subject
}

func (f *fakeSubjects) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, errNoRows
}

type fakeFaculty struct {
	profiles map[int64]*models.Faculty
}

func (f *fakeFaculty) FindByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, errNoRows
}

func perf(id int64, marks []float64, present, total int64) models.StudentPerformance {
	row := models.StudentPerformance{
		StudentID:        id,
		EnrollmentNumber: fmt.Sprintf("EN%03d", id),
		StudentName:      "Student",
		PresentCount:     present,
		AttendanceTotal:  total,
	}
	for _, m := range marks {
		row.MarksCount++
		row.MarksSum += m
	}
	return row
}

func strPtr(v string) *string { return &v }
