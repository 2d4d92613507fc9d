package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// Repository exposes persistence operations for the movement log.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a transaction repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts one movement row.
func (r *Repository) Create(ctx context.Context, txn *models.StockTransaction) (*models.StockTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// Delete removes a movement row. Only the compensation path calls this; the
// log is append-only otherwise.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StockTransaction{}).Error
}

// ListByItem returns the newest movements for one item.
func (r *Repository) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]models.StockTransaction, error) {
	var txns []models.StockTransaction
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// ListRecent returns the newest movements across the whole catalog.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error) {
	var txns []models.StockTransaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
