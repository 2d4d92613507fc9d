package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the current-stock aggregate for one (item, location) pair.
// Rows are only ever mutated through an atomic delta apply; callers never
// read-modify-write the quantity.
type StockLevel struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_stock_levels_item_location" json:"item_id"`
	LocationID *uuid.UUID      `gorm:"column:location_id;type:uuid;uniqueIndex:idx_stock_levels_item_location" json:"location_id"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric;not null;default:0" json:"quantity"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
