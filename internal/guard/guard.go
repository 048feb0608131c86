package guard

import (
	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// Actor identifies the authenticated caller inside service methods.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// IsPrivileged covers the admin+supervisor set.
func (a Actor) IsPrivileged() bool {
	return a.Role == enums.UserRoleAdmin || a.Role == enums.UserRoleSupervisor
}

// IsOperational covers the admin+supervisor+technician set.
func (a Actor) IsOperational() bool {
	return a.IsPrivileged() || a.Role == enums.UserRoleTechnician
}

// IsSelf reports whether the actor is the referenced user.
func (a Actor) IsSelf(userID uuid.UUID) bool {
	return a.ID == userID
}

// IsSelfOrPrivileged is the standard ownership check: the subject
// themselves, or an admin/supervisor.
func (a Actor) IsSelfOrPrivileged(userID uuid.UUID) bool {
	return a.IsSelf(userID) || a.IsPrivileged()
}
