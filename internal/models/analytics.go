package models

import "time"

// AnalyticsFilter scopes a report. Nil pointers and empty strings mean "no
// restriction"; every field is applied as a bound parameter.
type AnalyticsFilter struct {
	CourseID   *int64
	SemesterID *int64
	SubjectID  *int64
	StudentID  *int64
	FacultyID  *int64
	Batch      string
	RiskLevel  *RiskLevel
	DateFrom   *time.Time
	DateTo     *time.Time
}

// InstitutionCounts holds the headline totals of the admin dashboard.
type InstitutionCounts struct {
	TotalStudents  int64 `db:"total_students"`
	TotalFaculty   int64 `db:"total_faculty"`
	TotalCourses   int64 `db:"total_courses"`
	PlacedStudents int64 `db:"placed_students"`
}

// StudentPerformance is the per-student snapshot of final marks and attendance
// counts the classifier runs on.
type StudentPerformance struct {
	StudentID        int64   `db:"student_id"`
	EnrollmentNumber string  `db:"enrollment_number"`
	StudentName      string  `db:"student_name"`
	Email            string  `db:"email"`
	Phone            *string `db:"phone"`
	CourseName       *string `db:"course_name"`
	CurrentSemester  int     `db:"current_semester"`
	Batch            *string `db:"batch"`
	GuardianName     *string `db:"guardian_name"`
	GuardianPhone    *string `db:"guardian_phone"`
	MarksCount       int64   `db:"marks_count"`
	MarksSum         float64 `db:"marks_sum"`
	PresentCount     int64   `db:"present_count"`
	AttendanceTotal  int64   `db:"attendance_total"`
}

// SubjectMarkAggregate carries per-subject sums over final-exam marks.
type SubjectMarkAggregate struct {
	SubjectID      int64   `db:"subject_id"`
	SubjectCode    string  `db:"subject_code"`
	SubjectName    string  `db:"subject_name"`
	SemesterNumber int     `db:"semester_number"`
	PassingMarks   float64 `db:"passing_marks"`
	Attempts       int64   `db:"attempts"`
	Students       int64   `db:"students"`
	MarksSum       float64 `db:"marks_sum"`
	MarksSquares   float64 `db:"marks_squares"`
	Passed         int64   `db:"passed"`
}

// SemesterMarkAggregate carries per-semester sums over final-exam marks.
type SemesterMarkAggregate struct {
	SemesterID     int64   `db:"semester_id"`
	SemesterNumber int     `db:"semester_number"`
	SemesterName   string  `db:"semester_name"`
	Students       int64   `db:"students"`
	MarksCount     int64   `db:"marks_count"`
	MarksSum       float64 `db:"marks_sum"`
}

// SubjectAttendance holds present/total counts for one student in one subject.
type SubjectAttendance struct {
	StudentID        int64  `db:"student_id"`
	EnrollmentNumber string `db:"enrollment_number"`
	StudentName      string `db:"student_name"`
	SubjectID        int64  `db:"subject_id"`
	SubjectCode      string `db:"subject_code"`
	SubjectName      string `db:"subject_name"`
	Present          int64  `db:"present"`
	Total            int64  `db:"total"`
}

// AttendanceBucket is a present/total pair keyed by a date or a YYYY-MM month.
type AttendanceBucket struct {
	Key     string `db:"bucket"`
	Present int64  `db:"present"`
	Total   int64  `db:"total"`
}

// StudentMarkStats summarises one student's final-exam marks.
type StudentMarkStats struct {
	Count    int64    `db:"marks_count"`
	Sum      float64  `db:"marks_sum"`
	Highest  *float64 `db:"highest"`
	Lowest   *float64 `db:"lowest"`
	Subjects int64    `db:"subjects"`
}

// StudentSubjectMark is one recorded mark with its subject context.
type StudentSubjectMark struct {
	SubjectID      int64    `db:"subject_id"`
	SubjectCode    string   `db:"subject_code"`
	SubjectName    string   `db:"subject_name"`
	SemesterNumber int      `db:"semester_number"`
	ExamType       ExamType `db:"exam_type"`
	MarksObtained  float64  `db:"marks_obtained"`
	MaxMarks       float64  `db:"max_marks"`
	PassingMarks   float64  `db:"passing_marks"`
}

// PlacementOverview aggregates eligible and placed students with accepted
// package statistics.
type PlacementOverview struct {
	Eligible       int64    `db:"eligible"`
	Placed         int64    `db:"placed"`
	AveragePackage *float64 `db:"average_package"`
	HighestPackage *float64 `db:"highest_package"`
	LowestPackage  *float64 `db:"lowest_package"`
}

// CompanyPlacement aggregates accepted offers per company.
type CompanyPlacement struct {
	CompanyName    string  `db:"company_name"`
	Offers         int64   `db:"offers"`
	AveragePackage float64 `db:"average_package"`
	HighestPackage float64 `db:"highest_package"`
	Roles          string  `db:"roles"`
}

// BatchPlacement aggregates placement outcomes per batch.
type BatchPlacement struct {
	Batch          string   `db:"batch"`
	Eligible       int64    `db:"eligible"`
	Placed         int64    `db:"placed"`
	AveragePackage *float64 `db:"average_package"`
}

// AnalyticsSystemMetrics summarises instrumentation counters.
type AnalyticsSystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	ReportsTotal             uint64    `json:"reportsTotal"`
	ReportFailures           uint64    `json:"reportFailures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
