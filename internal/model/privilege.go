package model

// Privilege is a flag set describing what portal actions a role may perform.
// Adding a privilege means extending the constants below and the switch in
// Privileges, which keeps the mapping compile-time checked.
type Privilege uint16

const (
	PrivReceive Privilege = 1 << iota
	PrivValidate
	PrivRelease
	PrivTransfer
	PrivEdit
	PrivDelete
	// PrivAdminCorrect covers the Nevis revert escape hatch.
	PrivAdminCorrect
	// PrivResetData covers wiping the whole scope.
	PrivResetData
	PrivManageUsers
)

// Privileges returns the full flag set for a role. Unknown roles get nothing.
func (r Role) Privileges() Privilege {
	switch r {
	case RoleManager:
		return PrivReceive | PrivValidate | PrivRelease | PrivTransfer |
			PrivEdit | PrivDelete | PrivAdminCorrect | PrivResetData | PrivManageUsers
	case RoleSubUser:
		return PrivReceive | PrivValidate | PrivRelease | PrivTransfer | PrivEdit
	default:
		return 0
	}
}

// Has reports whether all flags in q are present in p.
func (p Privilege) Has(q Privilege) bool {
	return p&q == q
}
