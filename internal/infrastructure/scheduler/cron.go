// Package scheduler runs housekeeping jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Every builds a fixed-interval spec such as "@every 30m0s".
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// CronScheduler runs one job on a cron spec.
type CronScheduler struct {
	spec string

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCronScheduler builds a stopped scheduler for spec.
func NewCronScheduler(spec string) *CronScheduler {
	return &CronScheduler{spec: spec}
}

// Start registers job and begins scheduling. Starting twice is a no-op.
func (c *CronScheduler) Start(job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	runner := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := runner.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("schedule %q: %w", c.spec, err)
	}
	runner.Start()
	c.cron = runner
	return nil
}

// Stop halts scheduling and waits for a running job, or for ctx to end.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}

	select {
	case <-runner.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
