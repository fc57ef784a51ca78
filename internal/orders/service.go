package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db"
	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

const sessionIDConstraint = "uq_orders_session_id"

type service struct {
	repo Repository
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders repository is required")
	}
	return &service{repo: repo}, nil
}

// RecordPendingOrder persists the pending record for a freshly created
// checkout session. A duplicate session id means the record already exists,
// which callers treat as success.
func (s *service) RecordPendingOrder(ctx context.Context, input PendingOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order lines are required")
	}

	order := &models.Order{
		SessionID:        input.SessionID,
		PrincipalID:      input.PrincipalID,
		PrincipalKind:    input.PrincipalKind,
		CustomerRef:      input.CustomerRef,
		Currency:         input.Currency,
		AmountTotalPence: input.AmountTotalPence,
		PaymentStatus:    enums.PaymentStatusPending,
	}
	for _, line := range input.Lines {
		order.Items = append(order.Items, models.OrderLineItem{
			ProductSlug:     line.ProductSlug,
			Name:            line.Name,
			UnitAmountPence: line.UnitAmountPence,
			Quantity:        line.Quantity,
			TotalPence:      line.UnitAmountPence * line.Quantity,
		})
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, sessionIDConstraint) {
			existing, findErr := s.repo.FindBySessionID(ctx, input.SessionID)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "persisting pending order")
	}
	return created, nil
}

// GetConfirmation loads the order record keyed by provider session id.
func (s *service) GetConfirmation(ctx context.Context, sessionID string) (*Confirmation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	order, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order record")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order for session")
	}

	confirmation := &Confirmation{
		SessionID:        order.SessionID,
		PaymentStatus:    order.PaymentStatus,
		Currency:         order.Currency,
		AmountTotalPence: order.AmountTotalPence,
		PaidAt:           order.PaidAt,
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		confirmation.Lines = append(confirmation.Lines, ConfirmationLine{
			Name:            item.Name,
			UnitAmountPence: item.UnitAmountPence,
			Quantity:        item.Quantity,
			TotalPence:      item.TotalPence,
		})
	}
	return confirmation, nil
}

// ApplyPaymentStatus transitions the record to a provider-reported status.
// Replays of the same status are no-ops; a terminal record never moves again.
func (s *service) ApplyPaymentStatus(ctx context.Context, sessionID string, status enums.PaymentStatus, occurredAt time.Time) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}

	order, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order record")
	}
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no order for session")
	}

	if order.PaymentStatus == status {
		return nil
	}
	if order.PaymentStatus.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeConflict, "order already settled")
	}

	var paidAt *time.Time
	if status == enums.PaymentStatusPaid {
		paidAt = &occurredAt
	}

	if err := s.repo.UpdatePaymentStatus(ctx, sessionID, status, paidAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no order for session")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "updating payment status")
	}
	return nil
}
