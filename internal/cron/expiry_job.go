package cron

import (
	"context"
	"fmt"

	"github.com/labstockhq/labstock-backend/internal/summary"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

type overviewLoader interface {
	Overview(ctx context.Context, expiryWindowDays int) (*summary.Overview, error)
}

// ExpiryJob logs items whose expiration date falls inside the configured
// window so operators can rotate stock before it spoils.
type ExpiryJob struct {
	logg       *logger.Logger
	loader     overviewLoader
	windowDays int
}

// NewExpiryJob constructs the expiry scan job.
func NewExpiryJob(logg *logger.Logger, loader overviewLoader, windowDays int) (*ExpiryJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if loader == nil {
		return nil, fmt.Errorf("overview loader required")
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &ExpiryJob{logg: logg, loader: loader, windowDays: windowDays}, nil
}

// Name identifies the job in logs and metrics.
func (j *ExpiryJob) Name() string { return "expiry_scan" }

// Run executes one scan.
func (j *ExpiryJob) Run(ctx context.Context) error {
	overview, err := j.loader.Overview(ctx, j.windowDays)
	if err != nil {
		return fmt.Errorf("expiry scan: %w", err)
	}

	for _, item := range overview.ExpiringSoon {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":         item.ID.String(),
			"item_name":       item.Name,
			"expiration_date": *item.ExpirationDate,
		})
		j.logg.Warn(logCtx, "item expires inside the alert window")
	}

	logCtx := j.logg.WithField(ctx, "expiring", len(overview.ExpiringSoon))
	j.logg.Info(logCtx, "expiry scan finished")
	return nil
}
