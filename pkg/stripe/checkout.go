package stripe

import (
	"context"

	stripesdk "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// CreateCheckoutSession creates one hosted checkout session. The call is made
// exactly once with no idempotency key and no retry; a timeout after the
// provider accepted the request can orphan a session, which the caller meters.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionCreateParams) (*stripesdk.CheckoutSession, error) {
	req := params.toStripeParams()
	req.Params.Context = ctx
	c.log(ctx, "request", "create_checkout_session", map[string]any{
		"customer_id": params.CustomerID,
		"line_items":  len(params.LineItems),
	})

	sess, err := session.New(req)
	if err != nil {
		c.log(ctx, "error", "create_checkout_session", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "create checkout session")
	}

	c.log(ctx, "response", "create_checkout_session", map[string]any{
		"session_id": sess.ID,
		"status":     string(sess.Status),
	})
	return sess, nil
}

// GetCheckoutSession fetches a session by id, used by the confirmation read.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*stripesdk.CheckoutSession, error) {
	params := &stripesdk.CheckoutSessionParams{
		Params: stripesdk.Params{Context: ctx},
	}
	c.log(ctx, "request", "get_checkout_session", map[string]any{"session_id": sessionID})

	sess, err := session.Get(sessionID, params)
	if err != nil {
		c.log(ctx, "error", "get_checkout_session", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "get checkout session")
	}

	c.log(ctx, "response", "get_checkout_session", map[string]any{
		"session_id":     sess.ID,
		"payment_status": string(sess.PaymentStatus),
	})
	return sess, nil
}
