package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gainschef/backend/pkg/config"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

const (
	defaultBaseURL        = "https://platform.fatsecret.com/rest"
	defaultTokenURL       = "https://oauth.fatsecret.com/connect/token"
	responseBodyReadLimit = 1024
)

var errCredentialsRequired = errors.New("nutrition client id and secret are required")

// Client wraps the nutrition provider's REST API. Tokens come from a
// client-credentials grant and are cached until shortly before expiry.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	cache        *TokenCache
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenCache injects a token cache, letting tests control the clock.
func WithTokenCache(cache *TokenCache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// NewClient builds the nutrition client from configuration.
func NewClient(cfg config.NutritionConfig, opts ...Option) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		tokenURL:     defaultTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        NewTokenCache(cfg.TokenTTLSlop),
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}
	if trimmed := strings.TrimSpace(cfg.TokenURL); trimmed != "" {
		client.tokenURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// FoodSummary is one row of a food search result.
type FoodSummary struct {
	ID          string
	Name        string
	Description string
}

// Nutrients holds per-serving amounts. Amounts are decimal because provider
// values carry fractional grams; money never flows through this package.
type Nutrients struct {
	Calories decimal.Decimal
	Protein  decimal.Decimal
	Carbs    decimal.Decimal
	Fat      decimal.Decimal
}

// Food is the resolved detail for a single food item.
type Food struct {
	ID          string
	Name        string
	ServingDesc string
	Nutrients   Nutrients
}

// SearchFoods queries the provider for foods matching the expression.
func (c *Client) SearchFoods(ctx context.Context, query string) ([]FoodSummary, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "nutrition client not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	params := url.Values{}
	params.Set("method", "foods.search")
	params.Set("search_expression", query)
	params.Set("format", "json")

	var apiResp struct {
		Foods struct {
			Food []struct {
				FoodID      string `json:"food_id"`
				FoodName    string `json:"food_name"`
				Description string `json:"food_description"`
			} `json:"food"`
		} `json:"foods"`
	}
	if err := c.doAPI(ctx, params, &apiResp); err != nil {
		return nil, err
	}

	results := make([]FoodSummary, 0, len(apiResp.Foods.Food))
	for _, f := range apiResp.Foods.Food {
		results = append(results, FoodSummary{
			ID:          f.FoodID,
			Name:        f.FoodName,
			Description: f.Description,
		})
	}
	return results, nil
}

// GetFood resolves the default serving's nutrients for the given food id.
func (c *Client) GetFood(ctx context.Context, foodID string) (*Food, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "nutrition client not configured")
	}
	if strings.TrimSpace(foodID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}

	params := url.Values{}
	params.Set("method", "food.get.v4")
	params.Set("food_id", foodID)
	params.Set("format", "json")

	var apiResp struct {
		Food struct {
			FoodID   string `json:"food_id"`
			FoodName string `json:"food_name"`
			Servings struct {
				Serving []struct {
					Description  string `json:"serving_description"`
					Calories     string `json:"calories"`
					Protein      string `json:"protein"`
					Carbohydrate string `json:"carbohydrate"`
					Fat          string `json:"fat"`
				} `json:"serving"`
			} `json:"servings"`
		} `json:"food"`
	}
	if err := c.doAPI(ctx, params, &apiResp); err != nil {
		return nil, err
	}

	food := &Food{
		ID:   apiResp.Food.FoodID,
		Name: apiResp.Food.FoodName,
	}
	if len(apiResp.Food.Servings.Serving) > 0 {
		serving := apiResp.Food.Servings.Serving[0]
		food.ServingDesc = serving.Description
		nutrients, err := parseNutrients(serving.Calories, serving.Protein, serving.Carbohydrate, serving.Fat)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse nutrient amounts")
		}
		food.Nutrients = nutrients
	}
	return food, nil
}

func parseNutrients(calories, protein, carbs, fat string) (Nutrients, error) {
	var (
		parsed Nutrients
		err    error
	)
	if parsed.Calories, err = parseAmount(calories); err != nil {
		return Nutrients{}, err
	}
	if parsed.Protein, err = parseAmount(protein); err != nil {
		return Nutrients{}, err
	}
	if parsed.Carbs, err = parseAmount(carbs); err != nil {
		return Nutrients{}, err
	}
	if parsed.Fat, err = parseAmount(fat); err != nil {
		return Nutrients{}, err
	}
	return parsed, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (c *Client) doAPI(ctx context.Context, params url.Values, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/server.api?%s", strings.TrimRight(c.baseURL, "/"), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build nutrition request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute nutrition request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked upstream; next call refreshes.
		c.cache.Clear()
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "nutrition request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode nutrition response")
	}
	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.cache.Get(); ok {
		return token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "basic")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build token request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute token request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "token request failed")
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode token response")
	}
	if tokenResp.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "token response missing access token")
	}

	c.cache.Set(tokenResp.AccessToken, time.Duration(tokenResp.ExpiresIn)*time.Second)
	return tokenResp.AccessToken, nil
}
