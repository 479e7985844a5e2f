package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

func newDashboardRegistry(repo *fakeAnalyticsRepo, students *fakeStudents, faculty *fakeFaculty) *DashboardService {
	metrics := NewMetricsService()
	analyticsSvc := NewAnalyticsService(repo, metrics, zap.NewNop(), 2)
	studentSvc := NewStudentAnalyticsService(repo, students, metrics, zap.NewNop(), 2)
	return NewDashboardService(map[models.UserRole]DashboardProvider{
		models.RoleAdmin:            AdminDashboard{Analytics: analyticsSvc},
		models.RoleFaculty:          FacultyDashboard{Analytics: analyticsSvc, Faculty: faculty},
		models.RoleStudent:          StudentDashboard{Students: studentSvc},
		models.RolePlacementOfficer: PlacementDashboard{Analytics: analyticsSvc},
	})
}

func TestDashboardServiceDispatchesByRole(t *testing.T) {
	repo := riskFixture()
	repo.subjects = []models.SubjectMarkAggregate{{SubjectID: 1, SubjectName: "DBMS", Attempts: 1, Students: 1, MarksSum: 60, Passed: 1}}
	repo.overview = models.PlacementOverview{Eligible: 4, Placed: 1}
	_, students := studentFixture()
	faculty := &fakeFaculty{profiles: map[int64]*models.Faculty{20: {ID: 2, UserID: 20, IsActive: true}}}
	svc := newDashboardRegistry(repo, students, faculty)
	ctx := context.Background()

	admin, err := svc.Dashboard(ctx, models.Caller{UserID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.IsType(t, &dto.DashboardSummary{}, admin)
	assert.Equal(t, int64(4), admin.(*dto.DashboardSummary).AtRiskStudents)

	fac, err := svc.Dashboard(ctx, models.Caller{UserID: 20, Role: models.RoleFaculty})
	require.NoError(t, err)
	require.IsType(t, &dto.FacultyDashboard{}, fac)
	assert.Len(t, fac.(*dto.FacultyDashboard).Subjects, 1)

	self, err := svc.Dashboard(ctx, models.Caller{UserID: 70, Role: models.RoleStudent})
	require.NoError(t, err)
	require.IsType(t, &dto.StudentAnalytics{}, self)
	assert.Equal(t, int64(7), self.(*dto.StudentAnalytics).StudentID)

	placement, err := svc.Dashboard(ctx, models.Caller{UserID: 5, Role: models.RolePlacementOfficer})
	require.NoError(t, err)
	require.IsType(t, &dto.PlacementDashboard{}, placement)
	assert.Equal(t, 25.0, placement.(*dto.PlacementDashboard).OverallStats.PlacementPercentage)
}

func TestDashboardServiceRejectsUnknownRole(t *testing.T) {
	svc := NewDashboardService(map[models.UserRole]DashboardProvider{
		models.RoleAdmin: AdminDashboard{},
	})

	out, err := svc.Dashboard(context.Background(), models.Caller{UserID: 3, Role: models.UserRole("auditor")})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestDashboardServiceSkipsNilProviders(t *testing.T) {
	svc := NewDashboardService(map[models.UserRole]DashboardProvider{models.RoleStudent: nil})

	_, err := svc.Dashboard(context.Background(), models.Caller{UserID: 3, Role: models.RoleStudent})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestFacultyDashboardWithoutProfile(t *testing.T) {
	svc := newDashboardRegistry(&fakeAnalyticsRepo{}, &fakeStudents{}, &fakeFaculty{})

	_, err := svc.Dashboard(context.Background(), models.Caller{UserID: 20, Role: models.RoleFaculty})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
