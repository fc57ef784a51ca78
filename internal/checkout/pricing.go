package checkout

import (
	"strings"

	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

// PricedLine is one cart line with amounts resolved from the catalog.
// All money is integer minor units; nothing here ever touches floats.
type PricedLine struct {
	ProductSlug     string
	Name            string
	UnitAmountPence int64
	Quantity        int64
	TotalPence      int64
}

// PricedCart is the fully priced order the provider session is built from.
type PricedCart struct {
	Lines      []PricedLine
	TotalPence int64
	Currency   enums.Currency
}

// PriceCart resolves each cart line against the catalog rows. Every slug must
// be present in products; the caller is expected to have already resolved the
// full set.
func PriceCart(items []CartItem, products map[string]models.Product) (*PricedCart, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items")
	}

	cart := &PricedCart{}
	for _, item := range items {
		slug := strings.TrimSpace(item.ProductSlug)
		product, ok := products[slug]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnknownProduct, "cart references unknown products").
				WithDetails(map[string]any{"unknown_products": []string{slug}})
		}

		if cart.Currency == "" {
			cart.Currency = product.Currency
		} else if cart.Currency != product.Currency {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog currency mismatch")
		}

		lineTotal := product.PricePence * item.Quantity
		cart.Lines = append(cart.Lines, PricedLine{
			ProductSlug:     slug,
			Name:            product.DisplayName,
			UnitAmountPence: product.PricePence,
			Quantity:        item.Quantity,
			TotalPence:      lineTotal,
		})
		cart.TotalPence += lineTotal
	}
	return cart, nil
}
