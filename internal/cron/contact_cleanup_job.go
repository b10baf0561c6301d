package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/furnishd/furnishd-backend/pkg/logger"
)

const defaultContactRetentionDays = 180

type contactPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContactCleanupJobParams configure the contact message retention job.
type ContactCleanupJobParams struct {
	Logger        *logger.Logger
	Contact       contactPurger
	RetentionDays int
}

// NewContactCleanupJob builds the job that purges old contact messages.
func NewContactCleanupJob(params ContactCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Contact == nil {
		return nil, fmt.Errorf("contact service required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultContactRetentionDays
	}
	return &contactCleanupJob{
		logg:      params.Logger,
		contact:   params.Contact,
		retention: retention,
		now:       time.Now,
	}, nil
}

type contactCleanupJob struct {
	logg      *logger.Logger
	contact   contactPurger
	retention int
	now       func() time.Time
}

func (j *contactCleanupJob) Name() string { return "contact-cleanup" }

func (j *contactCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.contact.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("contact cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "contact cleanup complete")
	return nil
}
