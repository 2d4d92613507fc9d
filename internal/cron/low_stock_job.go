package cron

import (
	"context"
	"fmt"

	"github.com/labstockhq/labstock-backend/internal/summary"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

type lowStockScanner interface {
	LowStock(ctx context.Context) ([]summary.LowStockItem, error)
}

// LowStockJob scans the catalog for items under their effective threshold and
// logs one structured warning per flagged item.
type LowStockJob struct {
	logg    *logger.Logger
	scanner lowStockScanner
}

// NewLowStockJob constructs the low-stock scan job.
func NewLowStockJob(logg *logger.Logger, scanner lowStockScanner) (*LowStockJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if scanner == nil {
		return nil, fmt.Errorf("low stock scanner required")
	}
	return &LowStockJob{logg: logg, scanner: scanner}, nil
}

// Name identifies the job in logs and metrics.
func (j *LowStockJob) Name() string { return "low_stock_scan" }

// Run executes one scan.
func (j *LowStockJob) Run(ctx context.Context) error {
	low, err := j.scanner.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock scan: %w", err)
	}

	for _, entry := range low {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":   entry.Item.ID.String(),
			"item_name": entry.Item.Name,
			"quantity":  entry.Quantity.String(),
			"threshold": entry.Threshold.String(),
		})
		j.logg.Warn(logCtx, "item is below its low-stock threshold")
	}

	logCtx := j.logg.WithField(ctx, "flagged", len(low))
	j.logg.Info(logCtx, "low stock scan finished")
	return nil
}
