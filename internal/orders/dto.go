package orders

import (
	"time"

	"github.com/gainschef/backend/pkg/enums"
)

// PendingOrderLine is one priced line captured at checkout time.
type PendingOrderLine struct {
	ProductSlug     string
	Name            string
	UnitAmountPence int64
	Quantity        int64
}

// PendingOrderInput carries everything needed to persist the pending record
// after a checkout session is created.
type PendingOrderInput struct {
	SessionID        string
	PrincipalID      string
	PrincipalKind    enums.PrincipalKind
	CustomerRef      string
	Currency         enums.Currency
	AmountTotalPence int64
	Lines            []PendingOrderLine
}

// ConfirmationLine is one line of the confirmation view.
type ConfirmationLine struct {
	Name            string `json:"name"`
	UnitAmountPence int64  `json:"unit_amount_pence"`
	Quantity        int64  `json:"quantity"`
	TotalPence      int64  `json:"total_pence"`
}

// Confirmation is the read model served to the post-redirect page.
type Confirmation struct {
	SessionID        string              `json:"session_id"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	Currency         enums.Currency      `json:"currency"`
	AmountTotalPence int64               `json:"amount_total_pence"`
	Lines            []ConfirmationLine  `json:"lines"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}
