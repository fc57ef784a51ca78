package checkout

import (
	"testing"

	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

func catalogFixture() map[string]models.Product {
	return map[string]models.Product{
		"creatine-mono": {Slug: "creatine-mono", DisplayName: "Creatine Monohydrate", PricePence: 425, Currency: enums.CurrencyGBP, IsActive: true},
		"whey-isolate":  {Slug: "whey-isolate", DisplayName: "Whey Isolate", PricePence: 2999, Currency: enums.CurrencyGBP, IsActive: true},
	}
}

func TestPriceCartIntegerTotals(t *testing.T) {
	priced, err := PriceCart([]CartItem{
		{ProductSlug: "creatine-mono", Quantity: 2},
		{ProductSlug: "whey-isolate", Quantity: 1},
	}, catalogFixture())
	if err != nil {
		t.Fatalf("price cart: %v", err)
	}

	if priced.TotalPence != 2*425+2999 {
		t.Fatalf("unexpected total %d", priced.TotalPence)
	}
	if priced.Currency != enums.CurrencyGBP {
		t.Fatalf("unexpected currency %s", priced.Currency)
	}
	if len(priced.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(priced.Lines))
	}
	if priced.Lines[0].UnitAmountPence != 425 || priced.Lines[0].TotalPence != 850 {
		t.Fatalf("unexpected first line %+v", priced.Lines[0])
	}
	if priced.Lines[0].Name != "Creatine Monohydrate" {
		t.Fatalf("line name must come from the catalog, got %q", priced.Lines[0].Name)
	}
}

func TestPriceCartUnknownProductAborts(t *testing.T) {
	_, err := PriceCart([]CartItem{
		{ProductSlug: "creatine-mono", Quantity: 1},
		{ProductSlug: "mystery-sku", Quantity: 1},
	}, catalogFixture())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnknownProduct {
		t.Fatalf("expected unknown product code, got %v", err)
	}
}

func TestPriceCartCurrencyMismatch(t *testing.T) {
	products := catalogFixture()
	usd := products["whey-isolate"]
	usd.Currency = enums.CurrencyUSD
	products["whey-isolate"] = usd

	_, err := PriceCart([]CartItem{
		{ProductSlug: "creatine-mono", Quantity: 1},
		{ProductSlug: "whey-isolate", Quantity: 1},
	}, products)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal code for currency mismatch, got %v", err)
	}
}
