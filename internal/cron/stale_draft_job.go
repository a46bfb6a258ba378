package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/spicekart/storefront-backend/pkg/logger"
)

// staleDraftExpirer is the slice of the orders service this job needs.
type staleDraftExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// StaleDraftJobParams configure the stale draft cleanup.
type StaleDraftJobParams struct {
	Logger *logger.Logger
	Orders staleDraftExpirer
	MaxAge time.Duration
}

// NewStaleDraftJob builds the job that cancels pending draft orders whose
// payment never arrived.
func NewStaleDraftJob(params StaleDraftJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.MaxAge <= 0 {
		return nil, fmt.Errorf("max age must be positive")
	}
	return &staleDraftJob{
		logg:   params.Logger,
		orders: params.Orders,
		maxAge: params.MaxAge,
	}, nil
}

type staleDraftJob struct {
	logg   *logger.Logger
	orders staleDraftExpirer
	maxAge time.Duration
}

func (j *staleDraftJob) Name() string { return "stale-draft-expiry" }

func (j *staleDraftJob) Run(ctx context.Context) error {
	cancelled, err := j.orders.ExpireStale(ctx, j.maxAge)
	if err != nil {
		return fmt.Errorf("expire stale drafts: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "count", cancelled)
	j.logg.Info(logCtx, "stale draft expiry complete")
	return nil
}
