package domain

// Role is a staff role. Roles are stored as strings in the users table.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleCountryManager Role = "COUNTRY_MANAGER"
	RoleBranchManager  Role = "BRANCH_MANAGER"
	RoleCounselor      Role = "COUNSELOR"
	RoleFinanceOfficer Role = "FINANCE_OFFICER"
	RoleDocProcessor   Role = "DOC_PROCESSOR"
	RoleAuditor        Role = "AUDITOR"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCountryManager, RoleBranchManager,
		RoleCounselor, RoleFinanceOfficer, RoleDocProcessor, RoleAuditor:
		return true
	}
	return false
}

// User is the authenticated actor. Role and branch assignment always come
// from the users table, never from token claims.
type User struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	Role        Role
	IsSuperuser bool
	IsActive    bool
	BranchID    *string
}

// IsHQLevel reports whether the user has global visibility by default:
// superusers, super admins, and auditors.
func (u *User) IsHQLevel() bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role == RoleSuperAdmin || u.Role == RoleAuditor
}

// IsCountryManager reports whether the user is scoped to all branches
// within one country.
func (u *User) IsCountryManager() bool {
	return u != nil && u.Role == RoleCountryManager
}
