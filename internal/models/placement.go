package models

import "time"

// PlacementStatus tracks an offer through the placement cell.
type PlacementStatus string

const (
	PlacementOffered  PlacementStatus = "offered"
	PlacementAccepted PlacementStatus = "accepted"
	PlacementRejected PlacementStatus = "rejected"
)

// PlacementEligibleSemester is the first semester whose students count towards
// placement statistics.
const PlacementEligibleSemester = 7

// Placement is one offer recorded for a student.
type Placement struct {
	ID            int64           `db:"placement_id"`
	StudentID     int64           `db:"student_id"`
	CompanyName   string          `db:"company_name"`
	JobRole       *string         `db:"job_role"`
	PackageLPA    float64         `db:"package_lpa"`
	Status        PlacementStatus `db:"placement_status"`
	IsInternship  bool            `db:"is_internship"`
	PlacementDate *time.Time      `db:"placement_date"`
}
