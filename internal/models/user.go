package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin            UserRole = "admin"
	RoleFaculty          UserRole = "faculty"
	RoleStudent          UserRole = "student"
	RolePlacementOfficer UserRole = "placement_officer"
)

// Caller identifies the authenticated principal a report is computed for.
type Caller struct {
	UserID int64
	Role   UserRole
}
