package repository

import (
	"errors"

	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultLookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *DefaultLookupRepository {
	return &DefaultLookupRepository{db: db}
}

func (r *DefaultLookupRepository) FindByCNPJ(cnpj string) (*entity.CNPJLookup, error) {
	var lookup entity.CNPJLookup
	err := r.db.
		Preload("Partners").
		Where("cnpj = ?", cnpj).
		First(&lookup).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &lookup, nil
}

func (r *DefaultLookupRepository) Save(lookup *entity.CNPJLookup) error {
	return r.db.Save(lookup).Error
}

func (r *DefaultLookupRepository) DeleteExpired(before int64) error {
	return r.db.
		Where("cached_at < ?", before).
		Delete(&entity.CNPJLookup{}).Error
}
