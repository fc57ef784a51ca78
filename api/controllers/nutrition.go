package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gainschef/backend/api/responses"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/logger"
	"github.com/gainschef/backend/pkg/nutrition"
)

// NutritionService is the slice of the nutrition client these handlers use.
type NutritionService interface {
	SearchFoods(ctx context.Context, query string) ([]nutrition.FoodSummary, error)
	GetFood(ctx context.Context, foodID string) (*nutrition.Food, error)
}

// NutritionSearch proxies recipe ingredient lookups to the nutrition
// provider.
func NutritionSearch(svc NutritionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nutrition service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter required"))
			return
		}

		foods, err := svc.SearchFoods(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"foods": foods})
	}
}

// NutritionFood returns the nutrient breakdown for a single food.
func NutritionFood(svc NutritionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nutrition service unavailable"))
			return
		}

		foodID := strings.TrimSpace(chi.URLParam(r, "foodId"))
		if foodID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "food id required"))
			return
		}

		food, err := svc.GetFood(r.Context(), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, food)
	}
}
