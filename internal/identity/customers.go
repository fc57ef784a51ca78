package identity

import (
	"context"
	"errors"
	"strings"

	stripesdk "github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/stripe"
)

// CustomerAPI is the slice of the payment provider used to resolve customers.
type CustomerAPI interface {
	FindCustomerByEmail(ctx context.Context, email string) (*stripesdk.Customer, error)
	CreateCustomer(ctx context.Context, params stripe.CustomerCreateParams) (*stripesdk.Customer, error)
}

// CustomerService maps a Principal to a provider customer reference.
type CustomerService interface {
	EnsureCustomer(ctx context.Context, principal Principal) (string, error)
}

type customerService struct {
	api CustomerAPI
}

// NewCustomerService builds the customer resolution service.
func NewCustomerService(api CustomerAPI) (CustomerService, error) {
	if api == nil {
		return nil, errors.New("customer api is required")
	}
	return &customerService{api: api}, nil
}

// EnsureCustomer returns the provider customer id for the principal.
// Authenticated shoppers reuse an existing record matched by email so their
// payment history accrues to one customer. Guests always get a fresh record
// tagged is_guest; guest emails are unverified and must never attach to an
// account holder's history.
func (s *customerService) EnsureCustomer(ctx context.Context, principal Principal) (string, error) {
	if principal.IsGuest() {
		return s.createCustomer(ctx, principal, map[string]string{"is_guest": "true"})
	}

	email := strings.TrimSpace(principal.Email)
	if email != "" {
		existing, err := s.api.FindCustomerByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		if existing != nil && existing.ID != "" {
			return existing.ID, nil
		}
	}

	return s.createCustomer(ctx, principal, map[string]string{"user_id": principal.ID})
}

func (s *customerService) createCustomer(ctx context.Context, principal Principal, metadata map[string]string) (string, error) {
	created, err := s.api.CreateCustomer(ctx, stripe.CustomerCreateParams{
		Email:    principal.Email,
		Name:     principal.Name,
		Metadata: metadata,
	})
	if err != nil {
		return "", err
	}
	if created == nil || created.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodePaymentProvider, "provider customer id missing")
	}
	return created.ID, nil
}
