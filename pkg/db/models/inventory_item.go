package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/pkg/enums"
)

// InventoryItem is one catalog entry. The total value column is intentionally
// absent: it is derived from price and units at read time and never stored.
type InventoryItem struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string           `gorm:"column:name;not null" json:"name"`
	Category          *string          `gorm:"column:category" json:"category"`
	Units             *decimal.Decimal `gorm:"column:units;type:numeric" json:"units"`
	UnitType          *enums.UnitType  `gorm:"column:unit_type" json:"unit_type"`
	PricePerUnit      *decimal.Decimal `gorm:"column:price_per_unit;type:numeric" json:"price_per_unit"`
	Location          *string          `gorm:"column:location" json:"location"`
	DateAdded         *string          `gorm:"column:date_added;type:date" json:"date_added"`
	Notes             *string          `gorm:"column:notes" json:"notes"`
	ExpirationDate    *string          `gorm:"column:expiration_date;type:date" json:"expiration_date"`
	BatchLot          *string          `gorm:"column:batch_lot" json:"batch_lot"`
	OpenedAt          *string          `gorm:"column:opened_at;type:date" json:"opened_at"`
	MSDSURL           *string          `gorm:"column:msds_url" json:"msds_url"`
	LowStockThreshold *decimal.Decimal `gorm:"column:low_stock_threshold;type:numeric" json:"low_stock_threshold"`
	SKU               *string          `gorm:"column:sku;uniqueIndex" json:"sku,omitempty"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TotalValue derives price × units, nil when either side is unspecified.
func (i InventoryItem) TotalValue() *decimal.Decimal {
	if i.PricePerUnit == nil || i.Units == nil {
		return nil
	}
	v := i.PricePerUnit.Mul(*i.Units)
	return &v
}
