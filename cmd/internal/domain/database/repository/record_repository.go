package repository

import (
	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultRecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *DefaultRecordRepository {
	return &DefaultRecordRepository{db: db}
}

// FindAllByCompany returns the company's records in storage order. Callers
// sort in memory.
func (r *DefaultRecordRepository) FindAllByCompany(code string) ([]*entity.PointRecord, error) {
	var records []*entity.PointRecord
	err := r.db.Where("company_code = ?", code).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DefaultRecordRepository) FindByBadge(code, badge string) ([]*entity.PointRecord, error) {
	var records []*entity.PointRecord
	err := r.db.
		Where("company_code = ? AND badge = ?", code, badge).
		Order("timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a record. There is no update path: records are immutable.
func (r *DefaultRecordRepository) Create(record *entity.PointRecord) error {
	return r.db.Create(record).Error
}
