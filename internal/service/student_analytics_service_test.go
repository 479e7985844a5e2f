package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

func studentFixture() (*fakeAnalyticsRepo, *fakeStudents) {
	course := "B.Tech CSE"
	student := &models.Student{
		ID:               7,
		EnrollmentNumber: "EN007",
		FirstName:        "Asha",
		LastName:         "Rao",
		CourseName:       &course,
		CurrentSemester:  5,
		IsActive:         true,
	}
	students := &fakeStudents{
		byID:     map[int64]*models.Student{7: student},
		byUserID: map[int64]*models.Student{70: student},
	}
	repo := &fakeAnalyticsRepo{performance: []models.StudentPerformance{perf(7, []float64{40, 30}, 8, 10)}}
	return repo, students
}

func newStudentService(repo *fakeAnalyticsRepo, students *fakeStudents) *StudentAnalyticsService {
	return NewStudentAnalyticsService(repo, students, NewMetricsService(), zap.NewNop(), 4)
}

func TestStudentAnalyticsSnapshot(t *testing.T) {
	repo, students := studentFixture()
	svc := newStudentService(repo, students)

	out, err := svc.StudentAnalytics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", out.StudentName)
	assert.Equal(t, 35.0, out.AverageMarks)
	assert.Equal(t, 80.0, out.AttendancePercentage)
	assert.Equal(t, models.RiskMedium, out.RiskLevel)

	require.Len(t, repo.filters, 1)
	assert.Equal(t, int64(7), *repo.filters[0].StudentID)

	self, err := svc.Snapshot(context.Background(), 70)
	require.NoError(t, err)
	assert.Equal(t, out, self)
}

func TestStudentAnalyticsWithoutRecordsIsHighRisk(t *testing.T) {
	repo, students := studentFixture()
	repo.performance = nil
	svc := newStudentService(repo, students)

	out, err := svc.StudentAnalytics(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, out.AverageMarks)
	assert.Zero(t, out.AttendancePercentage)
	assert.Equal(t, models.RiskHigh, out.RiskLevel)
}

func TestStudentAnalyticsNotFound(t *testing.T) {
	repo, students := studentFixture()
	svc := newStudentService(repo, students)

	_, err := svc.StudentAnalytics(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Performance(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Attendance(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentAnalyticsLookupFailure(t *testing.T) {
	repo, students := studentFixture()
	students.err = errors.New("pool exhausted")
	svc := newStudentService(repo, students)

	_, err := svc.StudentAnalytics(context.Background(), 7)
	assert.ErrorIs(t, err, appErrors.ErrDataStore)
}

func TestStudentPerformance(t *testing.T) {
	repo, students := studentFixture()
	high, low := 72.456, 31.0
	repo.markStats = models.StudentMarkStats{Count: 2, Sum: 103.456, Highest: &high, Lowest: &low, Subjects: 2}
	repo.marks = []models.StudentSubjectMark{
		{SubjectCode: "CS101", SubjectName: "Programming", SemesterNumber: 1, ExamType: models.ExamFinal, MarksObtained: 72.456, MaxMarks: 100, PassingMarks: 40},
		{SubjectCode: "MA101", SubjectName: "Maths", SemesterNumber: 1, ExamType: models.ExamFinal, MarksObtained: 31, MaxMarks: 50, PassingMarks: 40},
	}
	repo.semesters = []models.SemesterMarkAggregate{{SemesterNumber: 1, SemesterName: "Semester 1", Students: 1, MarksCount: 2, MarksSum: 103.456}}
	repo.rank = 3
	svc := newStudentService(repo, students)

	out, err := svc.Performance(context.Background(), 70)
	require.NoError(t, err)

	assert.Equal(t, 51.73, out.Overall.AverageMarks)
	require.NotNil(t, out.Overall.HighestMarks)
	assert.Equal(t, 72.46, *out.Overall.HighestMarks)
	assert.Equal(t, int64(2), out.Overall.TotalSubjects)

	require.Len(t, out.SubjectMarks, 2)
	assert.True(t, out.SubjectMarks[0].Passed)
	assert.Equal(t, 72.46, out.SubjectMarks[0].Percentage)
	assert.False(t, out.SubjectMarks[1].Passed)
	assert.Equal(t, 62.0, out.SubjectMarks[1].Percentage)

	require.Len(t, out.SemesterTrend, 1)
	require.NotNil(t, out.Rank)
	assert.Equal(t, int64(3), *out.Rank)
}

func TestStudentPerformanceOmitsRankWithoutMarks(t *testing.T) {
	repo, students := studentFixture()
	repo.rank = 1
	svc := newStudentService(repo, students)

	out, err := svc.Performance(context.Background(), 70)
	require.NoError(t, err)
	assert.Nil(t, out.Rank)
	assert.Zero(t, out.Overall.AverageMarks)
	assert.Nil(t, out.Overall.HighestMarks)
	assert.Empty(t, out.SubjectMarks)
}

func TestStudentAttendance(t *testing.T) {
	repo, students := studentFixture()
	repo.pairs = []models.SubjectAttendance{
		{StudentID: 7, SubjectID: 1, SubjectCode: "CS101", SubjectName: "Programming", Present: 9, Total: 10},
		{StudentID: 7, SubjectID: 2, SubjectCode: "MA101", SubjectName: "Maths", Present: 3, Total: 6},
	}
	repo.monthly = []models.AttendanceBucket{
		{Key: "2024-01", Present: 5, Total: 8},
		{Key: "2024-02", Present: 7, Total: 8},
	}
	svc := newStudentService(repo, students)

	out, err := svc.Attendance(context.Background(), 70)
	require.NoError(t, err)

	assert.Equal(t, int64(16), out.Overall.TotalClasses)
	assert.Equal(t, int64(12), out.Overall.Attended)
	assert.Equal(t, 75.0, out.Overall.Percentage)

	require.Len(t, out.SubjectWise, 2)
	assert.Equal(t, "Maths", out.SubjectWise[0].SubjectName)
	assert.Equal(t, 50.0, out.SubjectWise[0].Percentage)

	require.Len(t, out.MonthlyTrend, 2)
	assert.Equal(t, "2024-01", out.MonthlyTrend[0].Month)
	assert.Equal(t, 62.5, out.MonthlyTrend[0].Percentage)
}

func TestStudentAttendanceFailedQuery(t *testing.T) {
	repo, students := studentFixture()
	repo.failOn = "MonthlyAttendance"
	repo.err = errors.New("statement timeout")
	svc := newStudentService(repo, students)

	out, err := svc.Attendance(context.Background(), 70)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, appErrors.ErrDataStore)
}

func TestStudentPlacementListsOffers(t *testing.T) {
	repo, students := studentFixture()
	students.byUserID[70].CurrentSemester = 7
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	repo.placements = []models.Placement{
		{ID: 3, StudentID: 7, CompanyName: "Acme", JobRole: strPtr("SDE"), PackageLPA: 8.456, Status: models.PlacementAccepted, PlacementDate: &date},
		{ID: 1, StudentID: 7, CompanyName: "Globex", PackageLPA: 2, Status: models.PlacementOffered, IsInternship: true},
	}
	svc := newStudentService(repo, students)

	out, err := svc.Placement(context.Background(), 70)
	require.NoError(t, err)
	assert.Equal(t, 7, out.CurrentSemester)
	assert.True(t, out.Eligible)
	assert.True(t, out.Placed)
	require.Len(t, out.Offers, 2)
	assert.Equal(t, 8.46, out.Offers[0].PackageLPA)
	require.NotNil(t, out.Offers[0].PlacementDate)
	assert.Equal(t, "2024-02-10", *out.Offers[0].PlacementDate)
	assert.Nil(t, out.Offers[1].PlacementDate)
}

func TestStudentPlacementInternshipIsNotPlaced(t *testing.T) {
	repo, students := studentFixture()
	repo.placements = []models.Placement{{ID: 1, StudentID: 7, CompanyName: "Initech", Status: models.PlacementAccepted, IsInternship: true}}
	svc := newStudentService(repo, students)

	out, err := svc.Placement(context.Background(), 70)
	require.NoError(t, err)
	assert.False(t, out.Eligible)
	assert.False(t, out.Placed)
	assert.Len(t, out.Offers, 1)
}

func TestStudentPlacementErrors(t *testing.T) {
	repo, students := studentFixture()
	svc := newStudentService(repo, students)

	_, err := svc.Placement(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	repo.failOn, repo.err = "StudentPlacements", errors.New("connection refused")
	_, err = svc.Placement(context.Background(), 70)
	assert.ErrorIs(t, err, appErrors.ErrDataStore)
}
