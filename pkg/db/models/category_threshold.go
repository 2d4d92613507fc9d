package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryThreshold stores the default low-stock threshold for one category
// name. A null threshold disables the rule for that category.
type CategoryThreshold struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category         string           `gorm:"column:category;not null;uniqueIndex" json:"category"`
	DefaultThreshold *decimal.Decimal `gorm:"column:default_threshold;type:numeric" json:"default_threshold"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
