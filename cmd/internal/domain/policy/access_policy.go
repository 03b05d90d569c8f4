package policy

import (
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils/apierror"
)

const (
	admin           = entity.PermissionAdministrator
	punchForOthers  = entity.PermissionPunchForOthers
	seeOwnRecords   = entity.PermissionSeeOwnRecords
	manageEmployees = entity.PermissionManageEmployees
)

// AccessPolicy encapsulates the role rules shared by every company-scoped
// operation. It returns apierror.ErrorResponse directly for seamless
// integration with handlers.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Require checks that actor holds perm (or is an administrator).
func (p *AccessPolicy) Require(actor *entity.Session, perm entity.Permission) apierror.ErrorResponse {
	if !actor.Role.Permissions().HasEffective(perm) {
		return permError(perm)
	}
	return nil
}

// CanPunchFor checks if 'actor' can create a record under 'badge'.
// Employees only punch for themselves, totems punch for anyone.
func (p *AccessPolicy) CanPunchFor(actor *entity.Session, badge string) apierror.ErrorResponse {
	perms := actor.Role.Permissions()
	if !perms.Has(entity.PermissionPunch) {
		return permError(entity.PermissionPunch)
	}

	if badge == actor.Badge {
		return nil
	}

	if !perms.Has(punchForOthers) {
		return forbiddenError("cannot punch for another employee")
	}
	return nil
}

// CanSeeRecordsOf checks if 'actor' can read the records of 'badge'.
func (p *AccessPolicy) CanSeeRecordsOf(actor *entity.Session, badge string) apierror.ErrorResponse {
	perms := actor.Role.Permissions()
	if perms.Has(admin) {
		return nil
	}

	if !perms.Has(seeOwnRecords) {
		return permError(seeOwnRecords)
	}

	if badge != actor.Badge {
		return apierror.NotFoundError
	}
	return nil
}

// CanManageEmployee checks if 'actor' can modify 'target'.
func (p *AccessPolicy) CanManageEmployee(actor *entity.Session, target *entity.Employee) apierror.ErrorResponse {
	if !actor.Role.Permissions().HasEffective(manageEmployees) {
		return permError(manageEmployees)
	}

	if target == nil || target.CompanyCode != actor.CompanyCode {
		return apierror.EmployeeNotFound
	}
	return nil
}

func permError(perm entity.Permission) *apierror.APIError {
	return apierror.NewPermissionError(int64(perm))
}

func forbiddenError(msg string) *apierror.APIError {
	return apierror.NewForbiddenError(msg)
}
