package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// Repository exposes persistence operations for categories and their
// per-category default thresholds.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a category repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID loads one category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpsertThreshold inserts or replaces the default threshold keyed by
// category name.
func (r *Repository) UpsertThreshold(ctx context.Context, threshold *models.CategoryThreshold) (*models.CategoryThreshold, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"default_threshold", "updated_at"}),
		}).
		Create(threshold).Error
	if err != nil {
		return nil, err
	}
	return threshold, nil
}

// ListThresholds returns all per-category thresholds ordered by category.
func (r *Repository) ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error) {
	var thresholds []models.CategoryThreshold
	if err := r.db.WithContext(ctx).Order("category ASC").Find(&thresholds).Error; err != nil {
		return nil, err
	}
	return thresholds, nil
}
