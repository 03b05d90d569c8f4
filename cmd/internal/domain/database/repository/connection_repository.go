package repository

import (
	"gorm.io/gorm"
	"pontodigital/cmd/internal/domain/entity"
)

type DefaultConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *DefaultConnectionRepository {
	return &DefaultConnectionRepository{db: db}
}

func (c *DefaultConnectionRepository) Save(conn *entity.Connection) error {
	return c.db.Save(conn).Error
}

func (c *DefaultConnectionRepository) Delete(connID string) error {
	return c.db.Where("connection_id = ?", connID).Delete(&entity.Connection{}).Error
}

// FindByCompany returns the company's connections with the role and badge
// their snapshots are filtered by.
func (c *DefaultConnectionRepository) FindByCompany(code string) ([]*entity.Connection, error) {
	var conns []*entity.Connection
	err := c.db.Where("company_code = ?", code).Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (c *DefaultConnectionRepository) FindBySession(sessionID string) ([]string, error) {
	var ids []string
	result := c.db.Model(&entity.Connection{}).
		Where("session_id = ?", sessionID).
		Pluck("connection_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// FindExpired returns connections whose token expired or that stopped
// sending heartbeats.
func (c *DefaultConnectionRepository) FindExpired(now int64) ([]*entity.Connection, error) {
	hbLimit := now - entity.HeartbeatPeriodMillis - entity.HeartbeatToleranceMillis

	var conns []*entity.Connection
	err := c.db.
		Where("expires_at < ? OR last_heartbeat_at < ?", now, hbLimit).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (c *DefaultConnectionRepository) UpdateHeartbeat(connID string, now int64) error {
	return c.db.Model(&entity.Connection{}).
		Where("connection_id = ?", connID).
		Update("last_heartbeat_at", now).Error
}
