package models

// AttendanceStatus is the per-day status recorded for a student and subject.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)
