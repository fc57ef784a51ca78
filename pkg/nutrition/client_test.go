package nutrition

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gainschef/backend/pkg/config"
)

const tokenRespBody = `{"access_token":"tok_1","expires_in":3600}`

func TestSearchFoodsFetchesTokenThenQueries(t *testing.T) {
	searchRespBody := `{"foods":{"food":[{"food_id":"f1","food_name":"Chicken Breast","food_description":"Per 100g - Calories: 165kcal"}]}}`

	var tokenCalls, apiCalls int
	var capturedAuth string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.String(), "/connect/token") {
			tokenCalls++
			user, pass, ok := req.BasicAuth()
			if !ok || user != "client-id" || pass != "client-secret" {
				t.Fatalf("unexpected basic auth %q/%q", user, pass)
			}
			return okResponse(tokenRespBody), nil
		}
		apiCalls++
		capturedAuth = req.Header.Get("Authorization")
		if got := req.URL.Query().Get("search_expression"); got != "chicken" {
			t.Fatalf("unexpected search expression %q", got)
		}
		return okResponse(searchRespBody), nil
	})

	client := newTestClient(t, rt, nil)

	results, err := client.SearchFoods(context.Background(), "chicken")
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if len(results) != 1 || results[0].ID != "f1" || results[0].Name != "Chicken Breast" {
		t.Fatalf("unexpected results %+v", results)
	}
	if capturedAuth != "Bearer tok_1" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token call, got %d", tokenCalls)
	}

	// Second query reuses the cached token.
	if _, err := client.SearchFoods(context.Background(), "chicken"); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("cached token not reused, token calls %d", tokenCalls)
	}
	if apiCalls != 2 {
		t.Fatalf("expected 2 api calls, got %d", apiCalls)
	}
}

func TestTokenRefreshesAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewTokenCache(30*time.Second, WithClock(clock))

	var tokenCalls int
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.String(), "/connect/token") {
			tokenCalls++
			return okResponse(tokenRespBody), nil
		}
		return okResponse(`{"foods":{"food":[]}}`), nil
	})

	client := newTestClient(t, rt, cache)

	if _, err := client.SearchFoods(context.Background(), "oats"); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token call, got %d", tokenCalls)
	}

	// Within the TTL minus slop the token is reused.
	now = now.Add(59 * time.Minute)
	if _, err := client.SearchFoods(context.Background(), "oats"); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("token refreshed too early, calls %d", tokenCalls)
	}

	// Inside the slop window the cache refuses the stale token.
	now = now.Add(45 * time.Second)
	if _, err := client.SearchFoods(context.Background(), "oats"); err != nil {
		t.Fatalf("third search: %v", err)
	}
	if tokenCalls != 2 {
		t.Fatalf("expected refresh inside slop window, calls %d", tokenCalls)
	}
}

func TestGetFoodParsesDecimalNutrients(t *testing.T) {
	foodRespBody := `{"food":{"food_id":"f1","food_name":"Rolled Oats","servings":{"serving":[{"serving_description":"100 g","calories":"379","protein":"13.15","carbohydrate":"67.70","fat":"6.52"}]}}}`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.String(), "/connect/token") {
			return okResponse(tokenRespBody), nil
		}
		if got := req.URL.Query().Get("food_id"); got != "f1" {
			t.Fatalf("unexpected food id %q", got)
		}
		return okResponse(foodRespBody), nil
	})

	client := newTestClient(t, rt, nil)

	food, err := client.GetFood(context.Background(), "f1")
	if err != nil {
		t.Fatalf("get food: %v", err)
	}
	if food.Name != "Rolled Oats" || food.ServingDesc != "100 g" {
		t.Fatalf("unexpected food %+v", food)
	}
	if !food.Nutrients.Protein.Equal(decimal.RequireFromString("13.15")) {
		t.Fatalf("unexpected protein %s", food.Nutrients.Protein)
	}
	if !food.Nutrients.Calories.Equal(decimal.NewFromInt(379)) {
		t.Fatalf("unexpected calories %s", food.Nutrients.Calories)
	}
}

func TestSearchFoodsRejectsEmptyQuery(t *testing.T) {
	client := newTestClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	}), nil)

	if _, err := client.SearchFoods(context.Background(), "  "); err == nil {
		t.Fatalf("expected validation error")
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, cache *TokenCache) *Client {
	t.Helper()
	cfg := config.NutritionConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      "http://nutrition.test/rest",
		TokenURL:     "http://nutrition.test/connect/token",
		TokenTTLSlop: 30 * time.Second,
	}
	opts := []Option{WithHTTPClient(&http.Client{Transport: rt})}
	if cache != nil {
		opts = append(opts, WithTokenCache(cache))
	}
	client, err := NewClient(cfg, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
