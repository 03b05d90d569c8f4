package repository

import (
	"errors"

	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultRequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *DefaultRequestRepository {
	return &DefaultRequestRepository{db: db}
}

func (r *DefaultRequestRepository) FindAllByCompany(code string) ([]*entity.AttendanceRequest, error) {
	var requests []*entity.AttendanceRequest
	err := r.db.
		Where("company_code = ?", code).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *DefaultRequestRepository) FindByBadge(code, badge string) ([]*entity.AttendanceRequest, error) {
	var requests []*entity.AttendanceRequest
	err := r.db.
		Where("company_code = ? AND badge = ?", code, badge).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *DefaultRequestRepository) FindByID(code, id string) (*entity.AttendanceRequest, error) {
	var req entity.AttendanceRequest
	err := r.db.Where("company_code = ? AND id = ?", code, id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *DefaultRequestRepository) Save(req *entity.AttendanceRequest) error {
	return r.db.Save(req).Error
}

// Decide moves a pending request to status. It returns false when the
// request was no longer pending, leaving the row untouched.
func (r *DefaultRequestRepository) Decide(req *entity.AttendanceRequest, status entity.RequestStatus, by string, at int64) (bool, error) {
	result := r.db.Model(&entity.AttendanceRequest{}).
		Where("id = ? AND company_code = ? AND status = ?", req.ID, req.CompanyCode, entity.RequestPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": by,
			"decided_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
