package workflow

// Role identifies the kind of actor invoking an approval action
type Role string

const (
	RoleTutor    Role = "TUTOR"
	RoleLecturer Role = "LECTURER"
	RoleHR       Role = "HR"
	// RoleAdmin is the elevated override role: it may perform any action on
	// any non-terminal timesheet regardless of the ordinary per-role matrix.
	RoleAdmin Role = "ADMIN"
)

var validRoles = map[Role]bool{
	RoleTutor:    true,
	RoleLecturer: true,
	RoleHR:       true,
	RoleAdmin:    true,
}

var roleDisplayNames = map[Role]string{
	RoleTutor:    "Tutor",
	RoleLecturer: "Lecturer",
	RoleHR:       "Human Resources",
	RoleAdmin:    "Administrator",
}

// AllRoles returns every valid role. The returned slice is a copy.
func AllRoles() []Role {
	return []Role{RoleTutor, RoleLecturer, RoleHR, RoleAdmin}
}

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// DisplayName returns the human-readable role name
func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
