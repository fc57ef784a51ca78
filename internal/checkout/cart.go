package checkout

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

const (
	maxCartLines    = 50
	maxLineQuantity = 100
)

// CartItem is one untrusted line from the client. Only the product reference
// and quantity are accepted; prices never come from the cart.
type CartItem struct {
	ProductSlug string `json:"product_slug"`
	Quantity    int64  `json:"quantity"`
}

// ValidateCart checks the structural rules for a submitted cart. It touches
// no external state; catalog existence is checked later during pricing.
func ValidateCart(items []CartItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items")
	}
	if len(items) > maxCartLines {
		return pkgerrors.New(pkgerrors.CodeInvalidCart, fmt.Sprintf("cart exceeds %d lines", maxCartLines))
	}

	var errs []error
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		slug := strings.TrimSpace(item.ProductSlug)
		if slug == "" {
			errs = append(errs, fmt.Errorf("item %d: product reference is required", i))
		} else if _, dup := seen[slug]; dup {
			errs = append(errs, fmt.Errorf("item %d: duplicate product %q", i, slug))
		} else {
			seen[slug] = struct{}{}
		}

		if item.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("item %d: quantity must be positive", i))
		} else if item.Quantity > maxLineQuantity {
			errs = append(errs, fmt.Errorf("item %d: quantity exceeds %d", i, maxLineQuantity))
		}
	}

	if combined := multierr.Combine(errs...); combined != nil {
		details := make([]string, 0, len(errs))
		for _, err := range multierr.Errors(combined) {
			details = append(details, err.Error())
		}
		return pkgerrors.Wrap(pkgerrors.CodeInvalidCart, combined, "cart failed validation").
			WithDetails(map[string]any{"violations": details})
	}
	return nil
}

func cartSlugs(items []CartItem) []string {
	slugs := make([]string, 0, len(items))
	for _, item := range items {
		slugs = append(slugs, strings.TrimSpace(item.ProductSlug))
	}
	return slugs
}
