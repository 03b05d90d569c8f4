package repository

import (
	"errors"

	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

// FindByID looks a company up by its access code.
func (r *DefaultCompanyRepository) FindByID(code string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.Where("id = ?", code).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *DefaultCompanyRepository) FindByAdminEmail(email string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.Where("admin_email = ?", email).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *DefaultCompanyRepository) ExistsByID(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Company{}).Where("id = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultCompanyRepository) Save(company *entity.Company) error {
	return r.db.Save(company).Error
}
