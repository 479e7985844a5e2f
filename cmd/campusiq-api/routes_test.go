package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusiq-api/internal/handler"
	"github.com/noah-isme/campusiq-api/internal/models"
	"github.com/noah-isme/campusiq-api/internal/service"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

type tokenTable map[string]models.UserRole

func (t tokenTable) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := t[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: 1, Role: role}, nil
}

type denyAll struct{}

func (denyAll) Dashboard(context.Context, models.Caller) (interface{}, error) {
	return nil, appErrors.ErrForbidden
}

// newRouter wires handlers without backing services so that only the
// authentication and role gates are exercised.
func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := routeHandlers{
		analytics: handler.NewAnalyticsHandler(nil, denyAll{}, nil, handler.NewFilterBinder(validator.New())),
		students:  handler.NewStudentHandler(nil),
		faculty:   handler.NewFacultyHandler(nil),
		metrics:   handler.NewMetricsHandler(service.NewMetricsService(), nil),
	}
	registerRoutes(r.Group("/api/v1"), tokenTable{
		"admin":     models.RoleAdmin,
		"faculty":   models.RoleFaculty,
		"student":   models.RoleStudent,
		"placement": models.RolePlacementOfficer,
	}, h)
	return r
}

func status(r *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoutesRequireToken(t *testing.T) {
	r := newRouter()
	for _, path := range []string{"/api/v1/analytics/dashboard", "/api/v1/analytics/risk", "/api/v1/student/performance"} {
		assert.Equal(t, http.StatusUnauthorized, status(r, path, ""), path)
	}
}

func TestRoutesRoleGates(t *testing.T) {
	r := newRouter()
	cases := []struct {
		path    string
		token   string
		allowed bool
	}{
		{"/api/v1/analytics/risk", "faculty", true},
		{"/api/v1/analytics/risk", "student", false},
		{"/api/v1/analytics/risk/export", "placement", false},
		{"/api/v1/analytics/placement", "placement", true},
		{"/api/v1/analytics/placement", "faculty", false},
		{"/api/v1/analytics/system", "faculty", false},
		{"/api/v1/students/7/analytics", "student", false},
		{"/api/v1/student/performance", "student", true},
		{"/api/v1/student/performance", "admin", false},
		{"/api/v1/student/placement", "student", true},
		{"/api/v1/student/placement", "placement", false},
		{"/api/v1/faculty/class-analytics/3", "faculty", true},
		{"/api/v1/faculty/class-analytics/3", "placement", false},
	}
	for _, tc := range cases {
		code := status(r, tc.path, tc.token)
		if tc.allowed {
			// Past the gate the nil services answer with 500.
			require.NotEqual(t, http.StatusForbidden, code, tc.path+" as "+tc.token)
			continue
		}
		assert.Equal(t, http.StatusForbidden, code, tc.path+" as "+tc.token)
	}
}
