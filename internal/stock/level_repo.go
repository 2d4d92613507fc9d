package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

// LevelRepo exposes persistence operations for current-stock aggregates.
type LevelRepo struct {
	db *gorm.DB
}

// NewLevelRepo constructs a level repository bound to the provided DB.
func NewLevelRepo(db *gorm.DB) *LevelRepo {
	return &LevelRepo{db: db}
}

// WithTx binds the repository to a transaction.
func (r *LevelRepo) WithTx(tx *gorm.DB) LevelRepository {
	if tx == nil {
		return r
	}
	return &LevelRepo{db: tx}
}

func (r *LevelRepo) scope(ctx context.Context, itemID uuid.UUID, locationID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.StockLevel{}).Where("item_id = ?", itemID)
	if locationID == nil {
		return q.Where("location_id IS NULL")
	}
	return q.Where("location_id = ?", *locationID)
}

// ApplyDelta adds delta to the aggregate for (item, location) in a single
// update statement, creating the row when it does not exist yet. The quantity
// is never read back by the caller, so concurrent deltas on the same pair
// cannot lose updates.
func (r *LevelRepo) ApplyDelta(ctx context.Context, itemID uuid.UUID, locationID *uuid.UUID, delta decimal.Decimal) error {
	apply := func() (int64, error) {
		res := r.scope(ctx, itemID, locationID).UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
		return res.RowsAffected, res.Error
	}

	affected, err := apply()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	level := models.StockLevel{ItemID: itemID, LocationID: locationID, Quantity: delta}
	err = r.db.WithContext(ctx).Create(&level).Error
	if err == nil {
		return nil
	}
	if !pkgerrors.IsUniqueViolation(err) {
		return err
	}

	// lost the insert race to a concurrent writer, the row exists now
	affected, err = apply()
	if err != nil {
		return err
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get loads the aggregate for one (item, location) pair.
func (r *LevelRepo) Get(ctx context.Context, itemID uuid.UUID, locationID *uuid.UUID) (*models.StockLevel, error) {
	var level models.StockLevel
	if err := r.scope(ctx, itemID, locationID).First(&level).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// ListForItem returns every per-location aggregate for one item.
func (r *LevelRepo) ListForItem(ctx context.Context, itemID uuid.UUID) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("updated_at DESC").
		Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// SumByItem sums quantities across locations per item.
func (r *LevelRepo) SumByItem(ctx context.Context) ([]ItemQuantity, error) {
	var rows []ItemQuantity
	err := r.db.WithContext(ctx).
		Model(&models.StockLevel{}).
		Select("item_id, SUM(quantity) AS quantity").
		Group("item_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
