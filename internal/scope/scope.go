// Package scope resolves the effective owner under which all inventory data
// for an organization is partitioned. A manager and their sub-users share one
// scope (the manager's id); data never crosses scopes.
package scope

import (
	"warescan-service/internal/model"
)

// ID is the tenant partition key for package collections.
type ID uint

// Unknown is the sentinel scope for missing or unauthenticated actors.
// User ids start at 1, so Unknown never matches real data.
const Unknown ID = 0

// Actor is the identity an authenticated request acts as. ManagerID is set
// only for sub-users.
type Actor struct {
	UserID    uint
	Username  string
	Role      model.Role
	ManagerID *uint
}

// Privileges returns the actor's privilege flag set.
func (a Actor) Privileges() model.Privilege {
	return a.Role.Privileges()
}

// Resolve maps an actor to its effective owner scope: a manager's own id, a
// sub-user's manager id, and Unknown for anything incomplete. Pure function,
// no error cases.
func Resolve(a Actor) ID {
	switch a.Role {
	case model.RoleManager:
		if a.UserID == 0 {
			return Unknown
		}
		return ID(a.UserID)
	case model.RoleSubUser:
		if a.ManagerID == nil || *a.ManagerID == 0 {
			return Unknown
		}
		return ID(*a.ManagerID)
	default:
		return Unknown
	}
}
