package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// TransactionRepository defines the persistence surface for the movement log.
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, txn *models.StockTransaction) (*models.StockTransaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]models.StockTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error)
}

// LevelRepository defines the persistence surface for current-stock
// aggregates.
type LevelRepository interface {
	WithTx(tx *gorm.DB) LevelRepository
	ApplyDelta(ctx context.Context, itemID uuid.UUID, locationID *uuid.UUID, delta decimal.Decimal) error
	Get(ctx context.Context, itemID uuid.UUID, locationID *uuid.UUID) (*models.StockLevel, error)
	ListForItem(ctx context.Context, itemID uuid.UUID) ([]models.StockLevel, error)
	SumByItem(ctx context.Context) ([]ItemQuantity, error)
}

// ItemQuantity is the summed on-hand quantity for one item across locations.
type ItemQuantity struct {
	ItemID   uuid.UUID       `gorm:"column:item_id" json:"item_id"`
	Quantity decimal.Decimal `gorm:"column:quantity" json:"quantity"`
}
