package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	"github.com/labstockhq/labstock-backend/pkg/pagination"
)

// ItemRepository defines the persistence surface required by the inventory service.
type ItemRepository interface {
	WithTx(tx *gorm.DB) ItemRepository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error)
	ListAll(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	BatchCreate(ctx context.Context, items []models.InventoryItem) error
	BatchUpsertBySKU(ctx context.Context, items []models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
