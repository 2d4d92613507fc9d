package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// Repository exposes persistence operations for checkout headers and lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CheckoutRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateHeader inserts the checkout header row without any lines.
func (r *Repository) CreateHeader(ctx context.Context, record *models.CheckoutRecord) (*models.CheckoutRecord, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateItems inserts all line rows in one statement.
func (r *Repository) CreateItems(ctx context.Context, items []models.CheckoutItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DeleteHeader removes a header row; lines cascade at the database level.
func (r *Repository) DeleteHeader(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CheckoutRecord{}).Error
}

// FindByID loads a checkout with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns the newest checkouts submitted by one user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error) {
	var records []models.CheckoutRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
