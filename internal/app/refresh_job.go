package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/platform/scheduler"
)

// RefreshJobConfig describes when the daily refresh fires.
type RefreshJobConfig struct {
	// Name identifies the job. Defaults to DefaultRefreshJobName.
	Name string

	// Spec is the cron expression. Defaults to DefaultRefreshSpec.
	Spec string

	Timeout time.Duration
}

// Refresh job defaults: once a day at midnight.
const (
	DefaultRefreshJobName = "update-quote-at-midnight"
	DefaultRefreshSpec    = "0 0 * * *"
)

// RefreshJob returns the scheduled job that rebuilds today's page and
// replaces the cached copy. A failed run returns its error to the scheduler,
// which logs it and waits for the next activation.
func RefreshJob(svc *DailyQuoteService, cfg RefreshJobConfig) scheduler.Job {
	name := cfg.Name
	if name == "" {
		name = DefaultRefreshJobName
	}

	spec := cfg.Spec
	if spec == "" {
		spec = DefaultRefreshSpec
	}

	return scheduler.Job{
		Name:    name,
		Spec:    spec,
		Timeout: cfg.Timeout,
		Task: func(ctx context.Context) error {
			if _, err := svc.Refresh(ctx); err != nil {
				return fmt.Errorf("refreshing daily quote: %w", err)
			}

			return nil
		},
	}
}
