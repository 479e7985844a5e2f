package analytics

import (
	"strings"

	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// Risk thresholds. High requires both conditions, Medium either.
const (
	HighRiskMarksThreshold        = 35.0
	HighRiskAttendanceThreshold   = 60.0
	MediumRiskMarksThreshold      = 45.0
	MediumRiskAttendanceThreshold = 75.0
)

// LowAttendanceAlertThreshold flags (student, subject) pairs in attendance
// reports. It happens to equal the medium attendance threshold but is tuned
// independently.
const LowAttendanceAlertThreshold = 75.0

// Classify derives the risk level of a student. Callers pass 0 for a missing
// average or attendance.
func Classify(avgMarks, attendancePct float64) models.RiskLevel {
	switch {
	case avgMarks < HighRiskMarksThreshold && attendancePct < HighRiskAttendanceThreshold:
		return models.RiskHigh
	case avgMarks < MediumRiskMarksThreshold || attendancePct < MediumRiskAttendanceThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// ParseRiskLevel accepts exactly High, Medium or Low.
func ParseRiskLevel(raw string) (models.RiskLevel, error) {
	switch level := models.RiskLevel(strings.TrimSpace(raw)); level {
	case models.RiskHigh, models.RiskMedium, models.RiskLow:
		return level, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "riskLevel must be one of High, Medium, Low")
	}
}

// DifficultyLabel buckets a subject by its average final marks.
func DifficultyLabel(avg float64) string {
	switch {
	case avg < 45:
		return "Hard"
	case avg < 60:
		return "Medium"
	default:
		return "Easy"
	}
}
