package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

const SessionCleanInterval = 15 * time.Minute

type SessionExpirer interface {
	ExpireSessions() (int, error)
}

// SessionCleaner removes sessions past their deadline so the live stores of
// idle companies get released.
type SessionCleaner struct {
	expirer SessionExpirer
}

func NewSessionCleaner(expirer SessionExpirer) *SessionCleaner {
	return &SessionCleaner{expirer: expirer}
}

func (c *SessionCleaner) Start(ctx context.Context) {
	run(ctx, "session cleaner", SessionCleanInterval, c.cleanup)
}

func (c *SessionCleaner) cleanup() {
	n, err := c.expirer.ExpireSessions()
	if err != nil {
		log.Errorf("Cleaner: failed to expire sessions: %v", err)
		return
	}

	if n > 0 {
		log.Infof("Cleaner: expired %d sessions", n)
	}
}
