package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the priced snapshot of each item at checkout time.
type OrderLineItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductSlug     string    `gorm:"column:product_slug;not null"`
	Name            string    `gorm:"column:name;not null"`
	UnitAmountPence int64     `gorm:"column:unit_amount_pence;not null"`
	Quantity        int64     `gorm:"column:quantity;not null"`
	TotalPence      int64     `gorm:"column:total_pence;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
