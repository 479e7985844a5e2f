package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// DashboardProvider builds the dashboard of one role.
type DashboardProvider interface {
	Dashboard(ctx context.Context, caller models.Caller) (interface{}, error)
}

// DashboardService dispatches dashboard requests to the provider registered
// for the caller's role.
type DashboardService struct {
	providers map[models.UserRole]DashboardProvider
}

// NewDashboardService constructs a registry from the given providers.
func NewDashboardService(providers map[models.UserRole]DashboardProvider) *DashboardService {
	registry := make(map[models.UserRole]DashboardProvider, len(providers))
	for role, p := range providers {
		if p != nil {
			registry[role] = p
		}
	}
	return &DashboardService{providers: registry}
}

// Dashboard returns the caller's dashboard. Roles without a provider are
// refused.
func (s *DashboardService) Dashboard(ctx context.Context, caller models.Caller) (interface{}, error) {
	provider, ok := s.providers[caller.Role]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no dashboard available for role")
	}
	return provider.Dashboard(ctx, caller)
}

// AdminDashboard serves institution-wide headline counts.
type AdminDashboard struct {
	Analytics *AnalyticsService
}

// Dashboard implements DashboardProvider.
func (d AdminDashboard) Dashboard(ctx context.Context, _ models.Caller) (interface{}, error) {
	return d.Analytics.Dashboard(ctx)
}

// FacultyLookup resolves faculty profiles.
type FacultyLookup interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Faculty, error)
}

// FacultyDashboard serves the subjects the caller teaches.
type FacultyDashboard struct {
	Analytics *AnalyticsService
	Faculty   FacultyLookup
}

// Dashboard implements DashboardProvider.
func (d FacultyDashboard) Dashboard(ctx context.Context, caller models.Caller) (interface{}, error) {
	faculty, err := d.Faculty.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.DataStore(err, "failed to load faculty profile")
	}
	return d.Analytics.FacultySubjects(ctx, faculty.ID)
}

// StudentDashboard serves the caller's own risk snapshot.
type StudentDashboard struct {
	Students *StudentAnalyticsService
}

// Dashboard implements DashboardProvider.
func (d StudentDashboard) Dashboard(ctx context.Context, caller models.Caller) (interface{}, error) {
	return d.Students.Snapshot(ctx, caller.UserID)
}

// PlacementDashboard serves the placement officer overview.
type PlacementDashboard struct {
	Analytics *AnalyticsService
}

// Dashboard implements DashboardProvider.
func (d PlacementDashboard) Dashboard(ctx context.Context, _ models.Caller) (interface{}, error) {
	return d.Analytics.PlacementSummary(ctx)
}
