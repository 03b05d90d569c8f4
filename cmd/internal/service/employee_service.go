package service

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

// SessionRevoker logs an employee out everywhere.
type SessionRevoker interface {
	RevokeEmployeeSessions(ctx context.Context, companyCode, badge string)
}

type EmployeeService struct {
	EmployeeRepo EmployeeRepository
	Hasher       credentials.Hasher
	S3           storage.S3Client
	Policy       *policy.AccessPolicy
	Revoker      SessionRevoker
	Publisher    Publisher
	Validate     *validator.Validate
}

func NewEmployeeService(
	employeeRepo EmployeeRepository,
	hasher credentials.Hasher,
	s3 storage.S3Client,
	accessPolicy *policy.AccessPolicy,
	revoker SessionRevoker,
	publisher Publisher,
	validate *validator.Validate,
) *EmployeeService {
	return &EmployeeService{
		EmployeeRepo: employeeRepo,
		Hasher:       hasher,
		S3:           s3,
		Policy:       accessPolicy,
		Revoker:      revoker,
		Publisher:    publisher,
		Validate:     validate,
	}
}

func (e *EmployeeService) GetEmployees(actor *entity.Session) ([]*contract.EmployeeResponse, apierror.ErrorResponse) {
	if perr := e.Policy.Require(actor, entity.PermissionManageEmployees); perr != nil {
		return nil, perr
	}

	employees, err := e.EmployeeRepo.FindAllByCompany(actor.CompanyCode)
	if err != nil {
		log.Errorf("failed to fetch employees of company %s: %v", actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.EmployeeResponse, len(employees))
	for i, emp := range employees {
		resp[i] = toEmployeeResponse(emp)
	}
	return resp, nil
}

// GetEmployee resolves an employee by id. "@me" returns the caller's own
// profile and needs no management permission.
func (e *EmployeeService) GetEmployee(actor *entity.Session, rawID string) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	if rawID == "@me" {
		if actor.Badge == "" {
			return nil, apierror.EmployeeNotFound
		}

		emp, err := e.EmployeeRepo.FindByBadge(actor.CompanyCode, actor.Badge)
		if err != nil {
			log.Errorf("failed to find employee %s: %v", actor.Badge, err)
			return nil, apierror.InternalServerError
		}

		if emp == nil {
			return nil, apierror.EmployeeNotFound
		}
		return toEmployeeResponse(emp), nil
	}

	emp, apierr := e.fetchManaged(actor, rawID)
	if apierr != nil {
		return nil, apierr
	}
	return toEmployeeResponse(emp), nil
}

func (e *EmployeeService) CreateEmployee(ctx context.Context, actor *entity.Session, req *contract.CreateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	if perr := e.Policy.Require(actor, entity.PermissionManageEmployees); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	taken, err := e.EmployeeRepo.ExistsByBadge(actor.CompanyCode, req.Badge)
	if err != nil {
		log.Errorf("failed to check badge %s of company %s: %v", req.Badge, actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	if taken {
		return nil, apierror.BadgeTakenError
	}

	hash, err := e.Hasher.Hash(req.Password)
	if err != nil {
		log.Errorf("failed to hash password of new employee: %v", err)
		return nil, apierror.InternalServerError
	}

	var photoURL string
	if req.Photo != "" {
		url, apierr := uploadPhoto(ctx, e.S3, actor.CompanyCode, storage.PathAvatars, req.Photo)
		if apierr != nil {
			return nil, apierr
		}
		photoURL = url
	}

	now := utils.NowUTC()
	emp := &entity.Employee{
		CompanyCode:  actor.CompanyCode,
		Badge:        req.Badge,
		Name:         req.Name,
		Email:        req.Email,
		Function:     req.Function,
		Shift:        req.Shift,
		PasswordHash: hash,
		PhotoURL:     photoURL,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.EmployeeRepo.Save(emp); err != nil {
		deletePhoto(ctx, e.S3, photoURL)
		log.Errorf("failed to create employee %s of company %s: %v", req.Badge, actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	publish(e.Publisher, livesync.CollectionEmployees, actor.CompanyCode)
	return toEmployeeResponse(emp), nil
}

func (e *EmployeeService) UpdateEmployee(ctx context.Context, actor *entity.Session, rawID string, req *contract.UpdateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, apierr := e.fetchManaged(actor, rawID)
	if apierr != nil {
		return nil, apierr
	}

	updater := &employeeUpdater{
		target: target,
		hasher: e.Hasher,
	}

	updater.setString(req.Name, &target.Name)
	updater.setString(req.Email, &target.Email)
	updater.setString(req.Function, &target.Function)
	updater.setString(req.Shift, &target.Shift)
	updater.setPassword(req.Password)
	updater.setActive(req.Active)

	oldPhoto := target.PhotoURL
	if req.Photo != nil && *req.Photo != "" && updater.err == nil {
		url, apierr := uploadPhoto(ctx, e.S3, actor.CompanyCode, storage.PathAvatars, *req.Photo)
		if apierr != nil {
			return nil, apierr
		}
		updater.setPhotoURL(url)
	}

	if updater.err != nil {
		return nil, updater.err
	}

	if updater.dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := e.EmployeeRepo.Save(target); err != nil {
			log.Errorf("failed to update employee %d: %v", target.ID, err)
			return nil, apierror.InternalServerError
		}

		if target.PhotoURL != oldPhoto {
			deletePhoto(ctx, e.S3, oldPhoto)
		}

		if updater.deactivated && e.Revoker != nil {
			e.Revoker.RevokeEmployeeSessions(ctx, target.CompanyCode, target.Badge)
		}
		publish(e.Publisher, livesync.CollectionEmployees, actor.CompanyCode)
	}
	return toEmployeeResponse(target), nil
}

// DeleteEmployee removes the employee. Their point records stay: records are
// never deleted.
func (e *EmployeeService) DeleteEmployee(ctx context.Context, actor *entity.Session, rawID string) apierror.ErrorResponse {
	target, apierr := e.fetchManaged(actor, rawID)
	if apierr != nil {
		return apierr
	}

	if err := e.EmployeeRepo.Delete(target); err != nil {
		log.Errorf("failed to delete employee %d: %v", target.ID, err)
		return apierror.InternalServerError
	}

	deletePhoto(ctx, e.S3, target.PhotoURL)
	if e.Revoker != nil {
		e.Revoker.RevokeEmployeeSessions(ctx, target.CompanyCode, target.Badge)
	}

	publish(e.Publisher, livesync.CollectionEmployees, actor.CompanyCode)
	return nil
}

func (e *EmployeeService) fetchManaged(actor *entity.Session, rawID string) (*entity.Employee, apierror.ErrorResponse) {
	if perr := e.Policy.Require(actor, entity.PermissionManageEmployees); perr != nil {
		return nil, perr
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "int64")
	}

	emp, err := e.EmployeeRepo.FindByID(actor.CompanyCode, id)
	if err != nil {
		log.Errorf("failed to find employee %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if perr := e.Policy.CanManageEmployee(actor, emp); perr != nil {
		return nil, perr
	}
	return emp, nil
}

func toEmployeeResponse(emp *entity.Employee) *contract.EmployeeResponse {
	return &contract.EmployeeResponse{
		ID:        emp.ID,
		Name:      emp.Name,
		Badge:     emp.Badge,
		Email:     emp.Email,
		Function:  emp.Function,
		Shift:     emp.Shift,
		PhotoURL:  emp.PhotoURL,
		Active:    emp.Active,
		CreatedAt: utils.FormatEpoch(emp.CreatedAt),
		UpdatedAt: utils.FormatEpoch(emp.UpdatedAt),
	}
}
