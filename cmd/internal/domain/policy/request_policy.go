package policy

import (
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils/apierror"
)

const (
	createRequests = entity.PermissionCreateRequests
	decideRequests = entity.PermissionDecideRequests
)

// RequestPolicy encapsulates the rules of adjustment and medical-note requests.
type RequestPolicy struct{}

func NewRequestPolicy() *RequestPolicy {
	return &RequestPolicy{}
}

// CanSee hides requests of other companies, and of other employees from
// non-administrators.
func (p *RequestPolicy) CanSee(req *entity.AttendanceRequest, actor *entity.Session) apierror.ErrorResponse {
	if req == nil || req.CompanyCode != actor.CompanyCode {
		return apierror.NotFoundError
	}

	if actor.Role.Permissions().HasEffective(decideRequests) {
		return nil
	}

	if req.Badge != actor.Badge {
		return apierror.NotFoundError // ^^
	}
	return nil
}

func (p *RequestPolicy) CanCreate(actor *entity.Session) apierror.ErrorResponse {
	if !actor.Role.Permissions().Has(createRequests) {
		return permError(createRequests)
	}

	if actor.Badge == "" {
		return forbiddenError("only employees can open requests")
	}
	return nil
}

// CanDecide allows pending -> approved|rejected only. Decided requests are final.
func (p *RequestPolicy) CanDecide(req *entity.AttendanceRequest, actor *entity.Session) apierror.ErrorResponse {
	if !actor.Role.Permissions().HasEffective(decideRequests) {
		return permError(decideRequests)
	}

	if err := p.CanSee(req, actor); err != nil {
		return err
	}

	if req.Status.IsTerminal() {
		return apierror.RequestAlreadyDecidedError
	}
	return nil
}
