package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/pkg/enums"
)

// StockTransaction is an immutable log entry of one stock movement. The
// quantity is stored as the unsigned magnitude; the sign is derived from the
// type at read time. Rows are never updated, only deleted as compensation when
// the dependent level update fails.
type StockTransaction struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID          uuid.UUID             `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;not null" json:"transaction_type"`
	Quantity        decimal.Decimal       `gorm:"column:quantity;type:numeric;not null" json:"quantity"`
	UnitCost        *decimal.Decimal      `gorm:"column:unit_cost;type:numeric" json:"unit_cost"`
	LocationID      *uuid.UUID            `gorm:"column:location_id;type:uuid" json:"location_id"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Notes           *string               `gorm:"column:notes" json:"notes"`
	ReferenceID     *string               `gorm:"column:reference_id" json:"reference_id"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// SignedQuantity applies the direction implied by the transaction type.
func (t StockTransaction) SignedQuantity() decimal.Decimal {
	if t.TransactionType == enums.TransactionTypeOut {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
