package enums

import "fmt"

// UserRole represents a system-wide permissions role.
type UserRole string

const (
	UserRoleAdmin           UserRole = "admin"
	UserRoleSupervisor      UserRole = "supervisor"
	UserRoleTechnician      UserRole = "technician"
	UserRoleCommunityMember UserRole = "community_member"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleSupervisor,
	UserRoleTechnician,
	UserRoleCommunityMember,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the role may act on resources it does not own.
func (r UserRole) IsPrivileged() bool {
	return r == UserRoleAdmin || r == UserRoleSupervisor
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
