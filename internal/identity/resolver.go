package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gainschef/backend/pkg/auth"
	"github.com/gainschef/backend/pkg/config"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

// Principal is the resolved identity behind a checkout request.
type Principal struct {
	ID    string
	Kind  enums.PrincipalKind
	Email string
	Name  string
}

// IsGuest reports whether the principal checked out without an account.
func (p Principal) IsGuest() bool {
	return p.Kind == enums.PrincipalGuest
}

// GuestContact carries the optional contact details a guest supplies at
// checkout.
type GuestContact struct {
	Email string
	Name  string
}

// Resolver turns a bearer token (or its absence) into a Principal.
type Resolver interface {
	ResolvePrincipal(ctx context.Context, bearerToken string, guest GuestContact) (Principal, error)
}

type resolver struct {
	jwtConfig config.JWTConfig
}

// NewResolver builds the principal resolver.
func NewResolver(cfg config.JWTConfig) (Resolver, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &resolver{jwtConfig: cfg}, nil
}

// ResolvePrincipal authenticates the caller. No token means a guest checkout.
// A token that is present but fails verification is always a hard failure;
// the shopper believes they are signed in and must never be silently
// downgraded to guest.
func (r *resolver) ResolvePrincipal(ctx context.Context, bearerToken string, guest GuestContact) (Principal, error) {
	token := strings.TrimSpace(bearerToken)
	if token == "" {
		return Principal{
			ID:    fmt.Sprintf("guest:%s", uuid.NewString()),
			Kind:  enums.PrincipalGuest,
			Email: strings.TrimSpace(guest.Email),
			Name:  strings.TrimSpace(guest.Name),
		}, nil
	}

	claims, err := auth.ParseAccessToken(r.jwtConfig, token)
	if err != nil {
		return Principal{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	return Principal{
		ID:    claims.UserID.String(),
		Kind:  enums.PrincipalAuthenticated,
		Email: claims.Email,
	}, nil
}
