package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	"github.com/labstockhq/labstock-backend/pkg/pagination"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	Category *string
	Location *string
	Search   *string
}

// Repository exposes persistence operations for catalog items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an item repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ItemRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new InventoryItem.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the provided item.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySKU loads an item by its unique SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func applyFilter(q *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Location != nil {
		q = q.Where("location = ?", *filter.Location)
	}
	if filter.Search != nil {
		needle := "%" + strings.TrimSpace(*filter.Search) + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", needle, needle)
	}
	return q
}

// List returns one page of items ordered newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error) {
	q := applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItem{}), filter)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var items []models.InventoryItem
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every matching item, used by exports and the summary view.
func (r *Repository) ListAll(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	q := applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItem{}), filter)
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByIDs counts how many of the provided ids exist.
func (r *Repository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id IN ?", ids).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BatchCreate inserts the provided items in one statement.
func (r *Repository) BatchCreate(ctx context.Context, items []models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// BatchUpsertBySKU inserts the provided items, replacing existing rows that
// share a SKU. Rows without a SKU are plain inserts.
func (r *Repository) BatchUpsertBySKU(ctx context.Context, items []models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "category", "units", "unit_type", "price_per_unit",
				"location", "date_added", "notes", "expiration_date",
				"batch_lot", "opened_at", "msds_url", "low_stock_threshold",
				"updated_at",
			}),
		}).
		Create(&items).Error
}

// Delete removes an item by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
