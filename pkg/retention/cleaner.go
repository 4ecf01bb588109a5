// Package retention implements the periodic deletion of aged policy violation records.
package retention

import (
	"context"
	"time"

	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/logger"
	"github.com/openconext/pdp/pkg/store"
)

var log = logger.New("retention-cleaner")

const defaultSweepInterval = 24 * time.Hour

// Cleaner deletes violation records older than the retention period. Only the
// node holding the cron-owner flag performs deletions; on other nodes the
// sweep is a no-op. The flag is cooperative, it carries no data-integrity role.
type Cleaner struct {
	violationStore store.ViolationStore
	retentionDays  int
	responsible    bool
	sweepInterval  time.Duration
}

// NewCleaner returns a Cleaner deleting records older than retentionDays.
func NewCleaner(violationStore store.ViolationStore, retentionDays int, responsible bool) *Cleaner {
	return &Cleaner{
		violationStore: violationStore,
		retentionDays:  retentionDays,
		responsible:    responsible,
		sweepInterval:  defaultSweepInterval,
	}
}

// Start launches the daily sweep goroutine. It returns immediately; the
// goroutine stops when the stop channel closes.
func (c *Cleaner) Start(stop <-chan struct{}) {
	if !c.responsible {
		log.Info().Msg("Not the cron job owner; retention sweeps disabled on this node")
		return
	}
	go func() {
		ticker := time.NewTicker(c.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-stop:
				return
			}
		}
	}()
}

func (c *Cleaner) sweep() {
	cutoff := time.Now().AddDate(0, 0, -c.retentionDays)
	deleted, err := c.violationStore.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrDeletingViolations.String()).
			Msg("Error deleting aged violation records")
		return
	}
	log.Info().Msgf("Deleted %d violation records older than %d days", deleted, c.retentionDays)
}
