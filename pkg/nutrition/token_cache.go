package nutrition

import (
	"sync"
	"time"
)

// TokenCache holds a provider access token until shortly before it expires.
// The slop subtracts from the provider TTL so a token is never handed out in
// its final moments.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	slop      time.Duration
	now       func() time.Time
}

// CacheOption configures optional cache behavior.
type CacheOption func(*TokenCache)

// WithClock overrides the cache's time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCache builds an empty cache.
func NewTokenCache(slop time.Duration, opts ...CacheOption) *TokenCache {
	if slop < 0 {
		slop = 0
	}
	cache := &TokenCache{
		slop: slop,
		now:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cache)
		}
	}
	return cache
}

// Get returns the cached token when it is still usable.
func (c *TokenCache) Get() (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Set stores a fresh token with the provider-reported TTL.
func (c *TokenCache) Set(token string, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = c.now().Add(ttl - c.slop)
}

// Clear drops the cached token, forcing the next caller to refresh.
func (c *TokenCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
