// Package access maps the closed set of user roles to capabilities.
package access

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleFinancial    Role = "financial"
)

type Capability string

const (
	ManageBranches     Capability = "manage_branches"
	ManageDoctors      Capability = "manage_doctors"
	ManageUsers        Capability = "manage_users"
	ManageSchedule     Capability = "manage_schedule"
	ManageAppointments Capability = "manage_appointments"
	ViewAppointments   Capability = "view_appointments"
	ManageFinance      Capability = "manage_finance"
	ViewReports        Capability = "view_reports"
	ViewAudit          Capability = "view_audit"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleSuperAdmin: set(
		ManageBranches, ManageDoctors, ManageUsers, ManageSchedule,
		ManageAppointments, ViewAppointments, ManageFinance, ViewReports, ViewAudit,
	),
	RoleAdmin: set(
		ManageBranches, ManageDoctors, ManageUsers, ManageSchedule,
		ManageAppointments, ViewAppointments, ManageFinance, ViewReports, ViewAudit,
	),
	RoleManager: set(
		ManageDoctors, ManageSchedule, ManageAppointments, ViewAppointments,
		ManageFinance, ViewReports,
	),
	RoleReceptionist: set(ManageAppointments, ViewAppointments),
	RoleFinancial:    set(ManageFinance, ViewReports),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// ParseRole returns the role and whether it is one of the known roles.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleCapabilities[r]
	return r, ok
}

func HasCapability(role Role, capability Capability) bool {
	return roleCapabilities[role][capability]
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleReceptionist, RoleFinancial}
}

// CanAssign reports whether actor may grant target to another user. Only a
// super admin creates other super admins.
func CanAssign(actor, target Role) bool {
	if !HasCapability(actor, ManageUsers) {
		return false
	}
	if target == RoleSuperAdmin {
		return actor == RoleSuperAdmin
	}
	_, ok := roleCapabilities[target]
	return ok
}

// SpansAllBranches reports whether the role ignores the user's branch scope.
func SpansAllBranches(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// Capabilities lists every known capability.
func Capabilities() []Capability {
	return []Capability{
		ManageBranches, ManageDoctors, ManageUsers, ManageSchedule,
		ManageAppointments, ViewAppointments, ManageFinance, ViewReports, ViewAudit,
	}
}
