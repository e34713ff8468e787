package domain

// Resource identifies a permission-checked resource family.
type Resource string

const (
	ResourceBranches   Resource = "branches"
	ResourceUsers      Resource = "users"
	ResourceLeads      Resource = "leads"
	ResourceStudents   Resource = "students"
	ResourceAuditLogs  Resource = "audit_logs"
	ResourceCompliance Resource = "compliance"
)

// Operation distinguishes read from write access on a resource.
type Operation string

const (
	OpRead  Operation = "read"
	OpWrite Operation = "write"
)

// permissionMatrix is the single declarative table mapping
// (resource, operation) to the roles allowed to perform it. Superusers
// bypass the table entirely in PermissionAllows.
var permissionMatrix = map[Resource]map[Operation][]Role{
	ResourceBranches: {
		OpRead:  {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleCounselor, RoleFinanceOfficer, RoleDocProcessor, RoleAuditor},
		OpWrite: {RoleSuperAdmin},
	},
	ResourceUsers: {
		OpRead:  {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleAuditor},
		OpWrite: {RoleSuperAdmin, RoleCountryManager, RoleBranchManager},
	},
	ResourceLeads: {
		OpRead:  {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleCounselor, RoleAuditor},
		OpWrite: {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleCounselor},
	},
	ResourceStudents: {
		OpRead:  {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleCounselor, RoleDocProcessor, RoleAuditor},
		OpWrite: {RoleSuperAdmin, RoleCountryManager, RoleBranchManager, RoleCounselor},
	},
	ResourceAuditLogs: {
		OpRead: {RoleSuperAdmin, RoleAuditor},
		// audit_logs are append-only; nothing writes them through the API.
	},
	ResourceCompliance: {
		OpRead:  {RoleSuperAdmin, RoleAuditor},
		OpWrite: {RoleSuperAdmin},
	},
}

// PermissionAllows reports whether the user may perform op on resource.
// A nil or inactive user is never allowed.
func PermissionAllows(u *User, resource Resource, op Operation) bool {
	if u == nil || !u.IsActive {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	roles, ok := permissionMatrix[resource][op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// RequirePermission returns an AccessDeniedError when the user may not
// perform op on resource, and nil otherwise.
func RequirePermission(u *User, resource Resource, op Operation) error {
	if u == nil {
		return ErrUnauthorized("authentication required")
	}
	if !PermissionAllows(u, resource, op) {
		return ErrAccessDenied("role %s may not %s %s", u.Role, op, resource)
	}
	return nil
}
