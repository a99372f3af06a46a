package staff

// Role represents a staff member's access role.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleTechnician Role = "Technician"
)

// Staff represents a shop staff member who can log in and attend jobs.
type Staff struct {
	ID       string
	Name     string
	Username string
	Password string
	Role     Role
}

// IsAdmin reports whether the staff member has the admin role.
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}
