package models

// Subject is a course unit with its own passing mark.
type Subject struct {
	ID             int64   `db:"subject_id" json:"subjectId"`
	Code           string  `db:"subject_code" json:"subjectCode"`
	Name           string  `db:"subject_name" json:"subjectName"`
	Credits        int     `db:"credits" json:"credits"`
	CourseID       int64   `db:"course_id" json:"courseId"`
	SemesterNumber int     `db:"semester_number" json:"semesterNumber"`
	PassingMarks   float64 `db:"passing_marks" json:"passingMarks"`
	FacultyID      *int64  `db:"faculty_id" json:"facultyId,omitempty"`
}
