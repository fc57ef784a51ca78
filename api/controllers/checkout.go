package controllers

import (
	"net/http"
	"strings"

	"github.com/gainschef/backend/api/responses"
	"github.com/gainschef/backend/api/validators"
	checkoutsvc "github.com/gainschef/backend/internal/checkout"
	"github.com/gainschef/backend/internal/identity"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/logger"
)

// Checkout handles submission of a shopper's cart. Authentication is
// optional: requests without a bearer token check out as guests, but a
// token that is present and invalid is rejected.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.CartItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkoutsvc.CartItem{
				ProductSlug: item.ProductSlug,
				Quantity:    item.Quantity,
			})
		}

		result, err := svc.Execute(r.Context(), checkoutsvc.Input{
			BearerToken: bearerTokenFromRequest(r),
			Guest: identity.GuestContact{
				Email: payload.GuestEmail,
				Name:  payload.GuestName,
			},
			Items: items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutResponse(result))
	}
}

type checkoutRequest struct {
	Items      []checkoutItem `json:"items"`
	GuestEmail string         `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestName  string         `json:"guest_name,omitempty" validate:"omitempty,max=120"`
}

// checkoutItem carries no price fields. Amounts are always derived from the
// catalog on the server side.
type checkoutItem struct {
	ProductSlug string `json:"product_slug"`
	Quantity    int64  `json:"quantity"`
}

type checkoutResponse struct {
	SessionID        string `json:"session_id"`
	RedirectURL      string `json:"url"`
	AmountTotalPence int64  `json:"amount_total_pence"`
	OrderRecorded    bool   `json:"order_recorded"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	if result == nil {
		return checkoutResponse{}
	}
	return checkoutResponse{
		SessionID:        result.SessionID,
		RedirectURL:      result.RedirectURL,
		AmountTotalPence: result.AmountPence,
		OrderRecorded:    result.OrderWrite.Persisted,
	}
}

// bearerTokenFromRequest extracts the Authorization bearer token when
// present. An empty return means the shopper checks out as a guest.
func bearerTokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
