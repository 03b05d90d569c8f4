package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/utils"
)

const (
	// LookupTTLMillis is how long a CNPJ answer (found or not) stays cached.
	LookupTTLMillis     = 10 * 60 * 60 * 1000
	LookupCleanInterval = 1 * time.Hour
)

type LookupRepository interface {
	DeleteExpired(before int64) error
}

type LookupCacheCleaner struct {
	lookupRepo LookupRepository
	ttl        int64
}

func NewLookupCacheCleaner(repo LookupRepository) *LookupCacheCleaner {
	return &LookupCacheCleaner{
		lookupRepo: repo,
		ttl:        LookupTTLMillis,
	}
}

func (c *LookupCacheCleaner) Start(ctx context.Context) {
	run(ctx, "CNPJ cache cleaner", LookupCleanInterval, c.cleanup)
}

func (c *LookupCacheCleaner) cleanup() {
	cutoff := utils.NowUTC() - c.ttl

	if err := c.lookupRepo.DeleteExpired(cutoff); err != nil {
		log.Errorf("Cleaner: failed to delete expired CNPJ lookups: %v", err)
		return
	}

	log.Debugf("Cleaner: swept CNPJ lookups cached before %d", cutoff)
}
