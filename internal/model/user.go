package model

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleManager owns a warehouse scope; sub-users attach to it.
	RoleManager Role = "manager"
	// RoleSubUser is an employee acting inside their manager's scope.
	RoleSubUser Role = "sub-user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleSubUser
}

// User represents an account stored in the database. Sub-users carry the
// manager they belong to; managers have ManagerID nil.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	ManagerID *uint     `json:"manager_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
