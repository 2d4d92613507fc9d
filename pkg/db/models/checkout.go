package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutRecord is the header row for one borrowing event. Line items are
// exclusively owned by the header and cascade on delete, which is what makes
// the compensating header delete safe.
type CheckoutRecord struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Purpose    string         `gorm:"column:purpose;not null" json:"purpose"`
	ReturnDate *string        `gorm:"column:return_date;type:date" json:"return_date"`
	Items      []CheckoutItem `gorm:"foreignKey:CheckoutID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the header table named after the event, not the struct.
func (CheckoutRecord) TableName() string {
	return "checkouts"
}
