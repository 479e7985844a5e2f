package models

// RiskLevel is the derived standing of a student. It is never stored.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// Rank orders levels High first.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// AtRisk reports whether the level belongs on the at-risk list.
func (r RiskLevel) AtRisk() bool {
	return r == RiskHigh || r == RiskMedium
}
