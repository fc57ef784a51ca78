package checkout

import (
	"testing"

	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

func TestValidateCartEmpty(t *testing.T) {
	for _, items := range [][]CartItem{nil, {}} {
		err := ValidateCart(items)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
			t.Fatalf("expected empty cart code, got %v", err)
		}
	}
}

func TestValidateCartAccepts(t *testing.T) {
	err := ValidateCart([]CartItem{
		{ProductSlug: "creatine-mono", Quantity: 2},
		{ProductSlug: "whey-isolate", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCartCollectsAllViolations(t *testing.T) {
	err := ValidateCart([]CartItem{
		{ProductSlug: "", Quantity: 2},
		{ProductSlug: "creatine-mono", Quantity: 0},
		{ProductSlug: "creatine-mono", Quantity: 3},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCart {
		t.Fatalf("expected invalid cart code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]string)
	if !ok || len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", details["violations"])
	}
}

func TestValidateCartQuantityBounds(t *testing.T) {
	err := ValidateCart([]CartItem{{ProductSlug: "creatine-mono", Quantity: maxLineQuantity + 1}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCart {
		t.Fatalf("expected invalid cart code, got %v", err)
	}

	if err := ValidateCart([]CartItem{{ProductSlug: "creatine-mono", Quantity: maxLineQuantity}}); err != nil {
		t.Fatalf("boundary quantity should pass: %v", err)
	}
}

func TestValidateCartTooManyLines(t *testing.T) {
	items := make([]CartItem, maxCartLines+1)
	for i := range items {
		items[i] = CartItem{ProductSlug: "p", Quantity: 1}
	}
	typed := pkgerrors.As(ValidateCart(items))
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCart {
		t.Fatalf("expected invalid cart code")
	}
}
