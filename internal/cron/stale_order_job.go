package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	order "github.com/furnishd/furnishd-backend/internal/orders"
	"github.com/furnishd/furnishd-backend/pkg/db/models"
	"github.com/furnishd/furnishd-backend/pkg/enums"
	"github.com/furnishd/furnishd-backend/pkg/logger"
)

const (
	defaultStaleOrderGrace = 240 * time.Hour
	staleOrderBatchSize    = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleOrderRepo interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type staleOrderRepoFactory func(tx *gorm.DB) staleOrderRepo

func defaultStaleOrderRepo(tx *gorm.DB) staleOrderRepo {
	return order.NewRepository(tx)
}

// StaleOrderJobParams configure the stale order cancellation job.
type StaleOrderJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	RepoFactory staleOrderRepoFactory
	GracePeriod time.Duration
}

// NewStaleOrderJob builds the job that cancels orders still pending long
// after the grace period. Cancelled orders free the slot in the admin queue.
func NewStaleOrderJob(params StaleOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = defaultStaleOrderRepo
	}
	grace := params.GracePeriod
	if grace <= 0 {
		grace = defaultStaleOrderGrace
	}
	return &staleOrderJob{
		logg:        params.Logger,
		db:          params.DB,
		repoFactory: repoFactory,
		grace:       grace,
		now:         time.Now,
	}, nil
}

type staleOrderJob struct {
	logg        *logger.Logger
	db          txRunner
	repoFactory staleOrderRepoFactory
	grace       time.Duration
	now         func() time.Time
}

func (j *staleOrderJob) Name() string { return "stale-order-cancel" }

func (j *staleOrderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.grace)
	var cancelled int
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repoFactory(tx)
		stale, err := repo.FindPendingBefore(ctx, cutoff, staleOrderBatchSize)
		if err != nil {
			return err
		}
		for _, order := range stale {
			if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
				return fmt.Errorf("cancel order %s: %w", order.ID, err)
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("stale order cancel: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"orders_cancelled": cancelled,
	})
	j.logg.Info(logCtx, "stale order sweep complete")
	return nil
}
