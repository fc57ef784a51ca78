package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db/models"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

type stubCatalogRepo struct {
	products map[string]models.Product
	err      error
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) FindActiveBySlugs(ctx context.Context, slugs []string) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Product
	for _, slug := range slugs {
		if p, ok := s.products[slug]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.products[slug]; ok {
		return &p, nil
	}
	return nil, nil
}

func newStubRepo(slugs ...string) *stubCatalogRepo {
	products := make(map[string]models.Product, len(slugs))
	for _, slug := range slugs {
		products[slug] = models.Product{ID: uuid.New(), Slug: slug, DisplayName: slug, PricePence: 425, IsActive: true}
	}
	return &stubCatalogRepo{products: products}
}

func TestResolveProductsReturnsAllRequested(t *testing.T) {
	svc, err := NewService(newStubRepo("creatine-mono", "whey-isolate"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resolved, err := svc.ResolveProducts(context.Background(), []string{"creatine-mono", "whey-isolate", "creatine-mono"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 products, got %d", len(resolved))
	}
	if resolved["creatine-mono"].Slug != "creatine-mono" {
		t.Fatalf("missing creatine-mono")
	}
}

func TestResolveProductsUnknownSlugAborts(t *testing.T) {
	svc, err := NewService(newStubRepo("creatine-mono"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ResolveProducts(context.Background(), []string{"creatine-mono", "mystery-sku"})
	if err == nil {
		t.Fatalf("expected unknown product error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnknownProduct {
		t.Fatalf("expected unknown product code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map")
	}
	missing, ok := details["unknown_products"].([]string)
	if !ok || len(missing) != 1 || missing[0] != "mystery-sku" {
		t.Fatalf("unexpected unknown products %v", details["unknown_products"])
	}
}

func TestResolveProductsEmptyInput(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	resolved, err := svc.ResolveProducts(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 0 {
		t.Fatalf("expected no products, got %d", len(resolved))
	}
}

func TestResolveProductsRepoFailure(t *testing.T) {
	svc, err := NewService(&stubCatalogRepo{err: errors.New("connection refused")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.ResolveProducts(context.Background(), []string{"creatine-mono"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected constructor error")
	}
}
