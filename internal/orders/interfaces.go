package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
)

// Repository defines persistence operations for order records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, sessionID string, status enums.PaymentStatus, paidAt *time.Time) error
}

// Service exposes order-record operations to the checkout pipeline, the
// confirmation endpoint, and the webhook consumer.
type Service interface {
	RecordPendingOrder(ctx context.Context, input PendingOrderInput) (*models.Order, error)
	GetConfirmation(ctx context.Context, sessionID string) (*Confirmation, error)
	ApplyPaymentStatus(ctx context.Context, sessionID string, status enums.PaymentStatus, occurredAt time.Time) error
}
