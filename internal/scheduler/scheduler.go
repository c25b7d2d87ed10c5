// Package scheduler runs the daily quota reset on a cron schedule.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/quota"
)

// resetSchedule fires at midnight local time, once every 24 hours.
const resetSchedule = "0 0 * * *"

// Scheduler owns the cron runner for periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// New registers the daily usage reset against the meter.
func New(meter *quota.Meter, log logger.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(resetSchedule, func() {
		meter.ResetDaily()
		log.Info("daily quota usage reset")
	})
	if err != nil {
		return nil, fmt.Errorf("registering reset job: %w", err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
