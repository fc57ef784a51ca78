package stripe

import (
	"context"
	"strings"

	stripesdk "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
)

// FindCustomerByEmail returns the first Stripe customer matching the email,
// or nil when none exists. Absence is not an error.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*stripesdk.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	c.log(ctx, "request", "find_customer", map[string]any{"email": email})

	params := &stripesdk.CustomerListParams{
		ListParams: stripesdk.ListParams{
			Context: ctx,
			Limit:   stripesdk.Int64(1),
		},
		Email: stripesdk.String(email),
	}

	iter := customer.List(params)
	for iter.Next() {
		found := iter.Customer()
		c.log(ctx, "response", "find_customer", map[string]any{"customer_id": found.ID, "matched": true})
		return found, nil
	}
	if err := iter.Err(); err != nil {
		c.log(ctx, "error", "find_customer", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "find customer")
	}

	c.log(ctx, "response", "find_customer", map[string]any{"matched": false})
	return nil, nil
}

// CreateCustomer creates a new Stripe customer.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerCreateParams) (*stripesdk.Customer, error) {
	req := params.toStripeParams()
	req.Params.Context = ctx
	c.log(ctx, "request", "create_customer", map[string]any{"email": params.Email})

	cust, err := customer.New(req)
	if err != nil {
		c.log(ctx, "error", "create_customer", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "create customer")
	}

	c.log(ctx, "response", "create_customer", map[string]any{"customer_id": cust.ID})
	return cust, nil
}
