package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	"github.com/labstockhq/labstock-backend/pkg/enums"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
	"github.com/labstockhq/labstock-backend/pkg/metrics"
)

const workflowName = "stock_transaction"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type itemChecker interface {
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// RecordInput is one stock movement request.
type RecordInput struct {
	ItemID          uuid.UUID
	TransactionType enums.TransactionType
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	LocationID      *uuid.UUID
	UserID          uuid.UUID
	Notes           *string
	ReferenceID     *string
}

// Service records stock movements and keeps the current-stock aggregates in
// step with the movement log.
type Service interface {
	RecordTransaction(ctx context.Context, input RecordInput) (*models.StockTransaction, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]models.StockTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error)
	LevelsForItem(ctx context.Context, itemID uuid.UUID) ([]models.StockLevel, error)
}

type service struct {
	txns    TransactionRepository
	levels  LevelRepository
	items   itemChecker
	limiter userLimiter
	tx      txRunner
	metrics *metrics.WorkflowMetrics
	logg    *logger.Logger
}

// NewService builds a stock service. The transaction runner is optional: when
// nil, the level update runs outside a database transaction and a failed
// update is compensated by deleting the movement row that preceded it.
func NewService(
	txns TransactionRepository,
	levels LevelRepository,
	items itemChecker,
	limiter userLimiter,
	tx txRunner,
	workflowMetrics *metrics.WorkflowMetrics,
	logg *logger.Logger,
) (Service, error) {
	if txns == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if levels == nil {
		return nil, fmt.Errorf("level repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item checker required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	return &service{
		txns:    txns,
		levels:  levels,
		items:   items,
		limiter: limiter,
		tx:      tx,
		metrics: workflowMetrics,
		logg:    logg,
	}, nil
}

// RecordTransaction validates, rate limits, inserts the movement row, and
// applies its delta to the aggregate. Validation and rate limiting run before
// any write, so a rejected request leaves no trace.
func (s *service) RecordTransaction(ctx context.Context, input RecordInput) (*models.StockTransaction, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(workflowName, time.Since(start)) }()

	if err := s.validate(ctx, input); err != nil {
		s.metrics.IncRejected(workflowName)
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, workflowName+":"+input.UserID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting")
	}
	if !allowed {
		s.metrics.IncRejected(workflowName)
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many stock transactions, slow down")
	}

	txn := &models.StockTransaction{
		ItemID:          input.ItemID,
		TransactionType: input.TransactionType,
		Quantity:        input.Quantity.Abs(),
		UnitCost:        input.UnitCost,
		LocationID:      input.LocationID,
		UserID:          input.UserID,
		Notes:           input.Notes,
		ReferenceID:     input.ReferenceID,
	}

	if s.tx != nil {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			inserted, insertErr := s.txns.WithTx(tx).Create(ctx, txn)
			if insertErr != nil {
				return insertErr
			}
			return s.levels.WithTx(tx).ApplyDelta(ctx, inserted.ItemID, inserted.LocationID, inserted.SignedQuantity())
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record stock transaction")
		}
		s.metrics.IncSuccess(workflowName)
		return txn, nil
	}

	inserted, err := s.txns.Create(ctx, txn)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record stock transaction")
	}

	if err := s.levels.ApplyDelta(ctx, inserted.ItemID, inserted.LocationID, inserted.SignedQuantity()); err != nil {
		s.metrics.IncCompensated(workflowName)
		if delErr := s.txns.Delete(ctx, inserted.ID); delErr != nil {
			// the orphaned movement row stays behind, surface both failures
			if s.logg != nil {
				logCtx := s.logg.WithField(ctx, "transaction_id", inserted.ID.String())
				s.logg.Error(logCtx, "stock level compensation failed", multierr.Append(err, delErr))
			}
			err = multierr.Append(err, delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependentOperation, err, "stock level update failed, transaction rolled back")
	}

	s.metrics.IncSuccess(workflowName)
	return inserted, nil
}

func (s *service) validate(ctx context.Context, input RecordInput) error {
	if input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "acting user is required")
	}
	if !input.TransactionType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if !input.Quantity.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit cost must not be negative")
	}

	count, err := s.items.CountByIDs(ctx, []uuid.UUID{input.ItemID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify item")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// ListByItem returns the newest movements for one item.
func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]models.StockTransaction, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	txns, err := s.txns.ListByItem(ctx, itemID, normalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list transactions")
	}
	return txns, nil
}

// ListRecent returns the newest movements across the catalog.
func (s *service) ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error) {
	txns, err := s.txns.ListRecent(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list transactions")
	}
	return txns, nil
}

// LevelsForItem returns the per-location aggregates for one item.
func (s *service) LevelsForItem(ctx context.Context, itemID uuid.UUID) ([]models.StockLevel, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	levels, err := s.levels.ListForItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list stock levels")
	}
	return levels, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
