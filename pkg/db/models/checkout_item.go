package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutItem binds one (item, location, quantity) line to its checkout.
type CheckoutItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CheckoutID uuid.UUID `gorm:"column:checkout_id;type:uuid;not null" json:"checkout_id"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null" json:"location_id"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
