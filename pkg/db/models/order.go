package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gainschef/backend/pkg/enums"
)

// Order is the durable record that a checkout session was created and is
// awaiting payment confirmation. It is keyed by the provider session id so the
// webhook consumer and the post-redirect page can find it.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID        string              `gorm:"column:session_id;not null;uniqueIndex"`
	PrincipalID      string              `gorm:"column:principal_id;not null"`
	PrincipalKind    enums.PrincipalKind `gorm:"column:principal_kind;type:text;not null"`
	CustomerRef      string              `gorm:"column:customer_ref;not null"`
	AmountTotalPence int64               `gorm:"column:amount_total_pence;not null"`
	Currency         enums.Currency      `gorm:"column:currency;type:text;not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Items            []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
