package stripewebhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/gainschef/backend/internal/orders"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

type ServiceParams struct {
	Orders orders.Service
}

// Service applies provider checkout events to the local order records.
type Service struct {
	orders orders.Service
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	return &Service{orders: params.Orders}, nil
}

// HandleEvent processes one verified provider event. Unknown event types are
// acknowledged without action so the provider stops redelivering them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.applySessionStatus(ctx, event, enums.PaymentStatusPaid)
	case stripe.EventTypeCheckoutSessionExpired:
		return s.applySessionStatus(ctx, event, enums.PaymentStatusExpired)
	default:
		return nil
	}
}

func (s *Service) applySessionStatus(ctx context.Context, event *stripe.Event, status enums.PaymentStatus) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}
	if session.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id missing from event")
	}

	occurredAt := time.Unix(event.Created, 0).UTC()
	if err := s.orders.ApplyPaymentStatus(ctx, session.ID, status, occurredAt); err != nil {
		// A session with no local record is the orphan case: the pending
		// write failed at checkout time. Acknowledge so the provider stops
		// retrying; reconciliation finds these via provider exports.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		return err
	}
	return nil
}
