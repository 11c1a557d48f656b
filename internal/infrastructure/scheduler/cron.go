package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"autoblog/internal/ports"
)

// CronScheduler drives recurring jobs via cron expressions.
type CronScheduler struct {
	cron *cron.Cron
}

var _ ports.CronScheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler evaluating specs in the given location.
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{cron: cron.New(cron.WithLocation(loc))}
}

// Schedule registers a job under a standard five-field cron spec.
func (c *CronScheduler) Schedule(spec string, job func()) error {
	_, err := c.cron.AddFunc(spec, job)
	return err
}

// Start begins evaluating schedules in a background goroutine.
func (c *CronScheduler) Start() {
	c.cron.Start()
}

// Stop halts scheduling and waits for running jobs, bounded by ctx.
func (c *CronScheduler) Stop(ctx context.Context) error {
	done := c.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
