package models

// ExamType categorises an assessment. Only final marks feed institution-wide
// averages; the other types are shown in per-student breakdowns.
type ExamType string

const (
	ExamInternal ExamType = "internal"
	ExamMidterm  ExamType = "midterm"
	ExamFinal    ExamType = "final"
)
