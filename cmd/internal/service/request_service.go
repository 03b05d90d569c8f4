package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type RequestRepository interface {
	FindAllByCompany(code string) ([]*entity.AttendanceRequest, error)
	FindByBadge(code, badge string) ([]*entity.AttendanceRequest, error)
	FindByID(code, id string) (*entity.AttendanceRequest, error)
	Save(req *entity.AttendanceRequest) error
	Decide(req *entity.AttendanceRequest, status entity.RequestStatus, by string, at int64) (bool, error)
}

type RequestService struct {
	RequestRepo RequestRepository
	S3          storage.S3Client
	Policy      *policy.RequestPolicy
	Publisher   Publisher
	Validate    *validator.Validate
}

func NewRequestService(
	requestRepo RequestRepository,
	s3 storage.S3Client,
	requestPolicy *policy.RequestPolicy,
	publisher Publisher,
	validate *validator.Validate,
) *RequestService {
	return &RequestService{
		RequestRepo: requestRepo,
		S3:          s3,
		Policy:      requestPolicy,
		Publisher:   publisher,
		Validate:    validate,
	}
}

func (r *RequestService) CreateRequest(ctx context.Context, actor *entity.Session, req *contract.CreateAttendanceRequest) (*contract.AttendanceRequestResponse, apierror.ErrorResponse) {
	if perr := r.Policy.CanCreate(actor); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	date, err := timeline.NormalizeDate(req.TargetDate)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("target_date", "YYYY-MM-DD")
	}

	var photoURL string
	if req.Photo != "" {
		url, apierr := uploadPhoto(ctx, r.S3, actor.CompanyCode, storage.PathRequests, req.Photo)
		if apierr != nil {
			return nil, apierr
		}
		photoURL = url
	}

	ar := &entity.AttendanceRequest{
		ID:          uuid.NewString(),
		CompanyCode: actor.CompanyCode,
		Badge:       actor.Badge,
		UserName:    actor.Name,
		Kind:        entity.RequestKind(req.Kind),
		Reason:      req.Reason,
		TargetDate:  date,
		PhotoURL:    photoURL,
		Status:      entity.RequestPending,
		CreatedAt:   utils.NowUTC(),
	}

	if err := r.RequestRepo.Save(ar); err != nil {
		deletePhoto(ctx, r.S3, photoURL)
		log.Errorf("failed to create request for %s/%s: %v", actor.CompanyCode, actor.Badge, err)
		return nil, apierror.InternalServerError
	}

	publish(r.Publisher, livesync.CollectionRequests, actor.CompanyCode)
	return toRequestResponse(ar), nil
}

// GetRequests lists the requests the actor can see, optionally narrowed to
// one status.
func (r *RequestService) GetRequests(actor *entity.Session, status string) ([]*contract.AttendanceRequestResponse, apierror.ErrorResponse) {
	var (
		requests []*entity.AttendanceRequest
		err      error
	)

	if actor.Role.Permissions().HasEffective(entity.PermissionDecideRequests) {
		requests, err = r.RequestRepo.FindAllByCompany(actor.CompanyCode)
	} else {
		if perr := r.Policy.CanCreate(actor); perr != nil {
			return nil, perr
		}
		requests, err = r.RequestRepo.FindByBadge(actor.CompanyCode, actor.Badge)
	}

	if err != nil {
		log.Errorf("failed to fetch requests of %s: %v", actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	status = strings.ToLower(strings.TrimSpace(status))
	resp := make([]*contract.AttendanceRequestResponse, 0, len(requests))
	for _, ar := range requests {
		if status != "" && string(ar.Status) != status {
			continue
		}
		resp = append(resp, toRequestResponse(ar))
	}
	return resp, nil
}

func (r *RequestService) GetRequest(actor *entity.Session, id string) (*contract.AttendanceRequestResponse, apierror.ErrorResponse) {
	ar, apierr := r.fetch(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	if perr := r.Policy.CanSee(ar, actor); perr != nil {
		return nil, perr
	}
	return toRequestResponse(ar), nil
}

// DecideRequest approves or rejects a pending request. The move is guarded
// in storage too, so two concurrent decisions cannot both win.
func (r *RequestService) DecideRequest(actor *entity.Session, id string, req *contract.DecideRequest) (*contract.AttendanceRequestResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	ar, apierr := r.fetch(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	if perr := r.Policy.CanDecide(ar, actor); perr != nil {
		return nil, perr
	}

	status := entity.RequestStatus(req.Status)
	now := utils.NowUTC()
	decided, err := r.RequestRepo.Decide(ar, status, actor.Name, now)
	if err != nil {
		log.Errorf("failed to decide request %s: %v", ar.ID, err)
		return nil, apierror.InternalServerError
	}

	if !decided {
		return nil, apierror.RequestAlreadyDecidedError
	}

	ar.Status = status
	ar.DecidedBy = actor.Name
	ar.DecidedAt = now

	publish(r.Publisher, livesync.CollectionRequests, actor.CompanyCode)
	return toRequestResponse(ar), nil
}

func (r *RequestService) fetch(actor *entity.Session, id string) (*entity.AttendanceRequest, apierror.ErrorResponse) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "uuid")
	}

	ar, err := r.RequestRepo.FindByID(actor.CompanyCode, id)
	if err != nil {
		log.Errorf("failed to find request %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if ar == nil {
		return nil, apierror.NotFoundError
	}
	return ar, nil
}

func toRequestResponse(ar *entity.AttendanceRequest) *contract.AttendanceRequestResponse {
	return &contract.AttendanceRequestResponse{
		ID:         ar.ID,
		Badge:      ar.Badge,
		UserName:   ar.UserName,
		Kind:       string(ar.Kind),
		Reason:     ar.Reason,
		TargetDate: ar.TargetDate,
		PhotoURL:   ar.PhotoURL,
		Status:     string(ar.Status),
		DecidedBy:  ar.DecidedBy,
		DecidedAt:  formatMillis(ar.DecidedAt),
		CreatedAt:  utils.FormatEpoch(ar.CreatedAt),
	}
}
