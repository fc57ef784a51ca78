package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	stripesdk "github.com/stripe/stripe-go/v84"

	"github.com/gainschef/backend/api/responses"
	"github.com/gainschef/backend/internal/orders"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/logger"
)

// SessionFetcher is the provider-lookup slice used when the local order
// record is missing.
type SessionFetcher interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripesdk.CheckoutSession, error)
}

// CheckoutConfirmation serves the post-redirect success page lookup. The
// session id comes from the {CHECKOUT_SESSION_ID} placeholder the provider
// substitutes into the success URL. When the pending order write was lost
// (an orphaned session), the provider record is consulted instead so the
// shopper still sees their payment status.
func CheckoutConfirmation(svc orders.Service, sessions SessionFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id required"))
			return
		}

		confirmation, err := svc.GetConfirmation(r.Context(), sessionID)
		if err == nil {
			responses.WriteSuccess(w, confirmation)
			return
		}

		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound || sessions == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, sessErr := sessions.GetCheckoutSession(r.Context(), sessionID)
		if sessErr != nil {
			// The provider lookup is a fallback; the original miss is the
			// answer the client can act on.
			responses.WriteError(r.Context(), logg, w, errors.Join(err, sessErr))
			return
		}

		if logg != nil {
			ctx := logg.WithSessionID(r.Context(), sessionID)
			logg.Warn(ctx, "confirmation served from provider record, order row missing")
		}
		responses.WriteSuccess(w, confirmationFromSession(sess))
	}
}

func confirmationFromSession(sess *stripesdk.CheckoutSession) orders.Confirmation {
	return orders.Confirmation{
		SessionID:        sess.ID,
		PaymentStatus:    paymentStatusFromSession(sess),
		Currency:         enums.Currency(strings.ToUpper(string(sess.Currency))),
		AmountTotalPence: sess.AmountTotal,
		Lines:            []orders.ConfirmationLine{},
	}
}

func paymentStatusFromSession(sess *stripesdk.CheckoutSession) enums.PaymentStatus {
	switch {
	case sess.PaymentStatus == stripesdk.CheckoutSessionPaymentStatusPaid:
		return enums.PaymentStatusPaid
	case sess.Status == stripesdk.CheckoutSessionStatusExpired:
		return enums.PaymentStatusExpired
	default:
		return enums.PaymentStatusPending
	}
}
