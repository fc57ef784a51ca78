package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/gainschef/backend/pkg/db/models"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

// ResolveProducts loads the active catalog rows for the requested slugs. Any
// slug without an active row aborts the whole resolution; the caller never
// gets a partial cart.
func (s *service) ResolveProducts(ctx context.Context, slugs []string) (map[string]models.Product, error) {
	unique := dedupe(slugs)
	if len(unique) == 0 {
		return map[string]models.Product{}, nil
	}

	products, err := s.repo.FindActiveBySlugs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog products")
	}

	byMatch := make(map[string]models.Product, len(products))
	for _, p := range products {
		byMatch[p.Slug] = p
	}

	var missing []string
	for _, slug := range unique {
		if _, ok := byMatch[slug]; !ok {
			missing = append(missing, slug)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, pkgerrors.New(pkgerrors.CodeUnknownProduct, "cart references unknown products").
			WithDetails(map[string]any{"unknown_products": missing})
	}

	return byMatch, nil
}

func dedupe(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}
