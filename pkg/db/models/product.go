package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gainschef/backend/pkg/enums"
)

// Product is the trusted catalog entry prices are resolved from. The client
// never supplies money amounts; this row is the sole source of truth.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	DisplayName string         `gorm:"column:display_name;not null"`
	Description *string        `gorm:"column:description"`
	PricePence  int64          `gorm:"column:price_pence;not null"`
	Currency    enums.Currency `gorm:"column:currency;type:text;not null;default:'GBP'"`
	// No gorm default here: a zero-valued field with a default tag is
	// omitted on insert, which would store false as active. The column
	// default lives in the migration.
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
