package entity

// Role is what a session logged in as. Each role maps to a fixed permission set.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	// RoleTotem is a shared kiosk device that punches on behalf of employees.
	RoleTotem Role = "totem"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleTotem:
		return true
	}
	return false
}

// Permission is a custom type for bitwise flags
type Permission int64

const (
	// PermissionAdministrator grants every other permission inside the company.
	PermissionAdministrator Permission = 1 << iota

	// PermissionPunch allows creating point records.
	PermissionPunch

	// PermissionPunchForOthers allows punching with another employee's badge.
	// Only totems have it.
	PermissionPunchForOthers

	// PermissionSeeOwnRecords allows reading one's own records and timeline.
	PermissionSeeOwnRecords

	// PermissionCreateRequests allows opening adjustment/medical-note requests.
	PermissionCreateRequests

	// PermissionDecideRequests allows approving or rejecting requests.
	PermissionDecideRequests

	// PermissionManageEmployees allows creating, editing and removing employees.
	PermissionManageEmployees

	// PermissionManageCompany allows editing the company profile and holidays.
	PermissionManageCompany

	// PermissionUseAssistant allows talking to the HR assistant.
	PermissionUseAssistant

	// PermissionExport allows downloading ledgers and spreadsheets.
	PermissionExport

	// PermissionPerformLookup allows calling endpoints outside the general
	// platform scope, like CNPJ lookups.
	PermissionPerformLookup
)

var rolePermissions = map[Role]Permission{
	RoleAdmin: PermissionAdministrator,
	RoleEmployee: PermissionPunch |
		PermissionSeeOwnRecords |
		PermissionCreateRequests |
		PermissionUseAssistant |
		PermissionExport,
	RoleTotem: PermissionPunch | PermissionPunchForOthers,
}

// Permissions returns the bitmask granted to the role. Unknown roles get none.
func (r Role) Permissions() Permission {
	return rolePermissions[r]
}

// Has checks if the permission bitmask contains ALL bits
// requested in 'target'. It ignores Administrator status.
func (p Permission) Has(target Permission) bool {
	return (p & target) == target
}

// HasAny returns true if the bitmask has ANY of the target permissions
func (p Permission) HasAny(target Permission) bool {
	return (p & target) > 0
}

// HasEffective checks if the permission bitmask contains the target bits
// OR if the permission includes Administrator
func (p Permission) HasEffective(target Permission) bool {
	return p.Has(PermissionAdministrator) || p.Has(target)
}
