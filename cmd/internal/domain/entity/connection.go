package entity

import "time"

// Clients ping once per period; a connection silent for longer than period
// plus tolerance is swept by the connection cleaner.
const (
	HeartbeatPeriod    = 60 * time.Second
	HeartbeatTolerance = 10 * time.Second

	HeartbeatPeriodMillis    = int64(HeartbeatPeriod / time.Millisecond)
	HeartbeatToleranceMillis = int64(HeartbeatTolerance / time.Millisecond)
)

// Connection is a websocket client registered through the API gateway.
// Snapshots for a company are pushed to every connection of that company.
type Connection struct {
	ConnectionID    string `gorm:"primaryKey;autoIncrement:false"`
	SessionID       string `gorm:"not null;index"`
	CompanyCode     string `gorm:"not null;index"`
	Role            Role   `gorm:"not null"`
	Badge           string
	ExpiresAt       int64 `gorm:"not null"`
	LastHeartbeatAt int64 `gorm:"not null;index"`
	CreatedAt       int64 `gorm:"not null"`
}

// Silent reports whether the client missed its heartbeat window.
func (c *Connection) Silent(now int64) bool {
	return c.LastHeartbeatAt < now-HeartbeatPeriodMillis-HeartbeatToleranceMillis
}

// Viewer is the identity snapshots pushed to this connection are filtered by.
func (c *Connection) Viewer() *Session {
	return &Session{
		ID:          c.SessionID,
		CompanyCode: c.CompanyCode,
		Role:        c.Role,
		Badge:       c.Badge,
	}
}
