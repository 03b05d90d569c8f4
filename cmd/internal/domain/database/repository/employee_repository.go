package repository

import (
	"errors"

	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultEmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *DefaultEmployeeRepository {
	return &DefaultEmployeeRepository{db: db}
}

func (r *DefaultEmployeeRepository) FindAllByCompany(code string) ([]*entity.Employee, error) {
	var employees []*entity.Employee
	err := r.db.
		Where("company_code = ?", code).
		Order("name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *DefaultEmployeeRepository) FindByID(code string, id int64) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.Where("company_code = ? AND id = ?", code, id).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *DefaultEmployeeRepository) FindByBadge(code, badge string) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.Where("company_code = ? AND badge = ?", code, badge).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *DefaultEmployeeRepository) ExistsByBadge(code, badge string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Employee{}).
		Where("company_code = ? AND badge = ?", code, badge).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultEmployeeRepository) Save(employee *entity.Employee) error {
	return r.db.Save(employee).Error
}

func (r *DefaultEmployeeRepository) Delete(employee *entity.Employee) error {
	return r.db.Delete(employee).Error
}
