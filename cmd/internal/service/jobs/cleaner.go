package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/events"
	"pontodigital/cmd/internal/service"
	"pontodigital/cmd/internal/utils"
)

const ConnectionCleanInterval = 5 * time.Minute

type ConnectionCleaner struct {
	wsService *service.WebSocketService
	interval  time.Duration
}

func NewConnectionCleaner(wsService *service.WebSocketService) *ConnectionCleaner {
	return &ConnectionCleaner{
		wsService: wsService,
		interval:  ConnectionCleanInterval,
	}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	run(ctx, "connection cleaner", c.interval, c.cleanup)
}

func (c *ConnectionCleaner) cleanup() {
	now := utils.NowUTC()
	conns, err := c.wsService.ConnRepo.FindExpired(now)
	if err != nil {
		log.Errorf("Cleaner: failed to fetch expired connections: %v", err)
		return
	}

	if len(conns) == 0 {
		return
	}

	log.Infof("Cleaner: found %d expired connections, terminating", len(conns))

	expired := &events.SessionExpired{}
	envelope := &contract.OutgoingSocketMessage{
		Type: expired.GetType(),
		Data: expired,
	}

	for _, conn := range conns {
		if gw := c.wsService.Gateway; gw != nil {
			bgCtx := context.Background()

			// A silent client is gone already. One whose session ran out is
			// told not to reconnect with it.
			if !conn.Silent(now) {
				_ = gw.PostToConnection(bgCtx, conn.ConnectionID, envelope)
			}
			_ = gw.DeleteConnection(bgCtx, conn.ConnectionID)
		}
		_ = c.wsService.ConnRepo.Delete(conn.ConnectionID)
	}
}

// run ticks fn every interval until ctx is done.
func run(ctx context.Context, name string, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("%s cron started", name)

	for {
		select {
		case <-ctx.Done():
			log.Infof("Stopping %s...", name)
			return
		case <-ticker.C:
			fn()
		}
	}
}
