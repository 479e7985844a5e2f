package models

import "time"

// Student represents a learner registered in the institution. Students are
// soft-deleted through IsActive.
type Student struct {
	ID               int64     `db:"student_id" json:"studentId"`
	UserID           *int64    `db:"user_id" json:"userId,omitempty"`
	EnrollmentNumber string    `db:"enrollment_number" json:"enrollmentNumber"`
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         string    `db:"last_name" json:"lastName"`
	Email            string    `db:"email" json:"email"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	CourseID         *int64    `db:"course_id" json:"courseId,omitempty"`
	CourseName       *string   `db:"course_name" json:"courseName,omitempty"`
	CurrentSemester  int       `db:"current_semester" json:"currentSemester"`
	Batch            *string   `db:"batch" json:"batch,omitempty"`
	GuardianName     *string   `db:"guardian_name" json:"guardianName,omitempty"`
	GuardianPhone    *string   `db:"guardian_phone" json:"guardianPhone,omitempty"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// FullName joins first and last name the way reports display them.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Faculty is the teaching profile linked to a user account.
type Faculty struct {
	ID       int64 `db:"faculty_id" json:"facultyId"`
	UserID   int64 `db:"user_id" json:"userId"`
	IsActive bool  `db:"is_active" json:"isActive"`
}
