package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	stripesdk "github.com/stripe/stripe-go/v84"

	"github.com/gainschef/backend/internal/catalog"
	"github.com/gainschef/backend/internal/identity"
	"github.com/gainschef/backend/internal/orders"
	"github.com/gainschef/backend/pkg/config"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/logger"
	"github.com/gainschef/backend/pkg/metrics"
	"github.com/gainschef/backend/pkg/stripe"
)

// Pipeline stage labels used in logs and metrics.
const (
	stageCart     = "cart"
	stageIdentity = "identity"
	stagePricing  = "pricing"
	stageSession  = "session"
)

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionCreateParams) (*stripesdk.CheckoutSession, error)
}

// Input is one checkout request after transport decoding.
type Input struct {
	BearerToken string
	Guest       identity.GuestContact
	Items       []CartItem
}

// OrderWriteResult reports whether the pending order record landed. A failed
// write is tolerated: the session exists and the webhook plus provider
// records allow reconciliation, so the shopper still gets their redirect.
type OrderWriteResult struct {
	Persisted bool
	Err       error
}

// Result is the successful outcome of a checkout.
type Result struct {
	SessionID   string
	RedirectURL string
	Principal   identity.Principal
	AmountPence int64
	OrderWrite  OrderWriteResult
}

// Service executes the checkout pipeline.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	resolver  identity.Resolver
	customers identity.CustomerService
	catalog   catalog.Service
	orders    orders.Service
	sessions  sessionCreator
	cfg       config.CheckoutConfig
	logger    *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewService builds the checkout service.
func NewService(
	resolver identity.Resolver,
	customers identity.CustomerService,
	catalogSvc catalog.Service,
	ordersSvc orders.Service,
	sessions sessionCreator,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("identity resolver required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer service required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		resolver:  resolver,
		customers: customers,
		catalog:   catalogSvc,
		orders:    ordersSvc,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logg,
		metrics:   checkoutMetrics,
	}, nil
}

// Execute runs the pipeline: validate the cart, resolve who is paying, price
// every line from the catalog, create exactly one provider session, then
// record the pending order. Only the final write is tolerated as a soft
// failure.
func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(time.Since(started)) }()

	// Every external call below shares this deadline; a provider hang
	// surfaces as a stage failure rather than an open-ended request.
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	if err := ValidateCart(input.Items); err != nil {
		return nil, s.fail(ctx, stageCart, err)
	}

	principal, err := s.resolver.ResolvePrincipal(ctx, input.BearerToken, input.Guest)
	if err != nil {
		return nil, s.fail(ctx, stageIdentity, err)
	}
	ctx = s.logger.WithFields(ctx, map[string]any{
		"principal_kind": string(principal.Kind),
	})

	// Customer resolution is part of identity and runs before pricing, so
	// a cart that later fails pricing still leaves a provider customer.
	customerRef, err := s.customers.EnsureCustomer(ctx, principal)
	if err != nil {
		return nil, s.fail(ctx, stageIdentity, err)
	}

	products, err := s.catalog.ResolveProducts(ctx, cartSlugs(input.Items))
	if err != nil {
		return nil, s.fail(ctx, stagePricing, err)
	}
	priced, err := PriceCart(input.Items, products)
	if err != nil {
		return nil, s.fail(ctx, stagePricing, err)
	}

	// One create, no idempotency key, no retry. A retry here could charge
	// the shopper twice; an orphaned session only costs reconciliation.
	session, err := s.sessions.CreateCheckoutSession(ctx, buildSessionParams(s.cfg, customerRef, principal, priced))
	if err != nil {
		if isIndeterminate(err) {
			s.metrics.IncOrphanedSession()
			s.logger.Warn(s.logger.WithFields(ctx, map[string]any{"stage": stageSession}),
				"checkout session outcome unknown after transport failure")
		}
		return nil, s.fail(ctx, stageSession, err)
	}
	ctx = s.logger.WithSessionID(ctx, session.ID)

	result := &Result{
		SessionID:   session.ID,
		RedirectURL: session.URL,
		Principal:   principal,
		AmountPence: priced.TotalPence,
		OrderWrite:  OrderWriteResult{Persisted: true},
	}

	if _, err := s.orders.RecordPendingOrder(ctx, pendingOrderInput(session.ID, customerRef, principal, priced)); err != nil {
		// The session is live; losing the local record must not block the
		// shopper. Reconciliation works from provider records.
		s.metrics.IncOrderWriteFailure()
		s.logger.Error(ctx, "pending order write failed after session create", err)
		result.OrderWrite = OrderWriteResult{Persisted: false, Err: err}
	}

	s.metrics.IncAttempt("success")
	return result, nil
}

func (s *service) fail(ctx context.Context, stage string, err error) error {
	s.metrics.IncStageFailure(stage)
	s.metrics.IncAttempt("failure")
	s.logger.Warn(s.logger.WithFields(ctx, map[string]any{"stage": stage}), "checkout aborted: "+err.Error())
	return err
}

func buildSessionParams(cfg config.CheckoutConfig, customerRef string, principal identity.Principal, priced *PricedCart) stripe.CheckoutSessionCreateParams {
	params := stripe.CheckoutSessionCreateParams{
		CustomerID: customerRef,
		SuccessURL: cfg.SuccessURL(),
		CancelURL:  cfg.CancelURL(),
		Metadata: map[string]string{
			"principal_id":   principal.ID,
			"principal_kind": string(principal.Kind),
		},
	}
	for _, line := range priced.Lines {
		params.LineItems = append(params.LineItems, stripe.SessionLineItem{
			Name:            line.Name,
			UnitAmountPence: line.UnitAmountPence,
			Currency:        string(priced.Currency),
			Quantity:        line.Quantity,
		})
	}
	return params
}

func pendingOrderInput(sessionID, customerRef string, principal identity.Principal, priced *PricedCart) orders.PendingOrderInput {
	input := orders.PendingOrderInput{
		SessionID:        sessionID,
		PrincipalID:      principal.ID,
		PrincipalKind:    principal.Kind,
		CustomerRef:      customerRef,
		Currency:         priced.Currency,
		AmountTotalPence: priced.TotalPence,
	}
	for _, line := range priced.Lines {
		input.Lines = append(input.Lines, orders.PendingOrderLine{
			ProductSlug:     line.ProductSlug,
			Name:            line.Name,
			UnitAmountPence: line.UnitAmountPence,
			Quantity:        line.Quantity,
		})
	}
	return input
}

// isIndeterminate reports whether a session create failed without a provider
// response. An API error means the provider rejected the request and no
// session exists; anything else may have been accepted before the failure.
func isIndeterminate(err error) bool {
	var apiErr *stripesdk.Error
	if errors.As(err, &apiErr) {
		return false
	}
	if typed := pkgerrors.As(err); typed != nil {
		if details, ok := typed.Details().(map[string]any); ok && details["provider_status"] != nil {
			return false
		}
	}
	return true
}
