package stripe

import (
	"strings"

	stripesdk "github.com/stripe/stripe-go/v84"
)

// CustomerCreateParams carries the normalized fields for creating a Stripe
// customer record.
type CustomerCreateParams struct {
	Email    string
	Name     string
	Metadata map[string]string
}

func (p CustomerCreateParams) toStripeParams() *stripesdk.CustomerParams {
	params := &stripesdk.CustomerParams{}
	if email := strings.TrimSpace(p.Email); email != "" {
		params.Email = stripesdk.String(email)
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		params.Name = stripesdk.String(name)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// SessionLineItem is one priced line of a checkout session. Amounts are minor
// units (pence); the catalog owns them, never the shopper.
type SessionLineItem struct {
	Name            string
	UnitAmountPence int64
	Currency        string
	Quantity        int64
}

// CheckoutSessionCreateParams carries everything needed for one hosted
// checkout session.
type CheckoutSessionCreateParams struct {
	CustomerID string
	LineItems  []SessionLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

func (p CheckoutSessionCreateParams) toStripeParams() *stripesdk.CheckoutSessionParams {
	params := &stripesdk.CheckoutSessionParams{
		Mode:       stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		SuccessURL: stripesdk.String(p.SuccessURL),
		CancelURL:  stripesdk.String(p.CancelURL),
	}
	if customerID := strings.TrimSpace(p.CustomerID); customerID != "" {
		params.Customer = stripesdk.String(customerID)
	}
	for _, item := range p.LineItems {
		params.LineItems = append(params.LineItems, &stripesdk.CheckoutSessionLineItemParams{
			Quantity: stripesdk.Int64(item.Quantity),
			PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripesdk.String(strings.ToLower(item.Currency)),
				UnitAmount: stripesdk.Int64(item.UnitAmountPence),
				ProductData: &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripesdk.String(item.Name),
				},
			},
		})
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}
