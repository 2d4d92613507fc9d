package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// CheckoutRepository defines the persistence surface required by the
// submission pipeline.
type CheckoutRepository interface {
	WithTx(tx *gorm.DB) CheckoutRepository
	CreateHeader(ctx context.Context, record *models.CheckoutRecord) (*models.CheckoutRecord, error)
	CreateItems(ctx context.Context, items []models.CheckoutItem) error
	DeleteHeader(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error)
}
