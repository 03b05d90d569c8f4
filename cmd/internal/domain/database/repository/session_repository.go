package repository

import (
	"errors"

	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *DefaultSessionRepository {
	return &DefaultSessionRepository{db: db}
}

func (r *DefaultSessionRepository) FindByID(id string) (*entity.Session, error) {
	var sess entity.Session
	err := r.db.Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *DefaultSessionRepository) Save(sess *entity.Session) error {
	return r.db.Save(sess).Error
}

// Delete reports whether this call removed the row. Racing logouts and
// sweeps see false and must not release the session's store again.
func (r *DefaultSessionRepository) Delete(id string) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&entity.Session{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultSessionRepository) FindExpired(now int64) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := r.db.Where("expires_at < ?", now).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteByCompanyBadge removes every session of an employee and returns the
// ones this call removed.
func (r *DefaultSessionRepository) DeleteByCompanyBadge(code, badge string) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := r.db.Where("company_code = ? AND badge = ?", code, badge).Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	removed := make([]*entity.Session, 0, len(sessions))
	for _, sess := range sessions {
		ok, err := r.Delete(sess.ID)
		if err != nil {
			return removed, err
		}
		if ok {
			removed = append(removed, sess)
		}
	}
	return removed, nil
}
