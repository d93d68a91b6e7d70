// Package gamedata is the HTTP client for the third-party game-data API.
// It serves the engine's CodexSource and InventorySource interfaces and
// shares its path whitelist with the API proxy, so the service never
// forwards arbitrary requests upstream.
package gamedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claimplan/claimplan/internal/domain"
	"github.com/claimplan/claimplan/internal/infra/observability"
)

// ─── Whitelist ──────────────────────────────────────────────────────────────

// AllowedPrefixes are the only upstream path prefixes the client and the
// proxy will touch.
var AllowedPrefixes = []string{
	"claims/",
	"codex/",
	"items",
	"cargos",
}

// Allowed reports whether an upstream path passes the whitelist.
func Allowed(path string) bool {
	path = strings.TrimPrefix(path, "/")
	for _, p := range AllowedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ─── Client ─────────────────────────────────────────────────────────────────

// Cache is the injected document cache. The SQLite store satisfies it;
// tests substitute an in-memory fake.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, body []byte, ttl time.Duration) error
}

// Config controls the client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration // per-request timeout (default 15s)
	CodexTTL     time.Duration // codex documents change with game patches (default 24h)
	InventoryTTL time.Duration // inventory snapshots go stale fast (default 60s)
}

// DefaultConfig returns sane client defaults for the given upstream.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      15 * time.Second,
		CodexTTL:     24 * time.Hour,
		InventoryTTL: 60 * time.Second,
	}
}

// Client fetches claim and codex documents, with a read-through cache.
type Client struct {
	cfg   Config
	http  *http.Client
	cache Cache
}

// NewClient creates a Client. cache may be nil to disable caching.
func NewClient(cfg Config, cache Cache) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CodexTTL <= 0 {
		cfg.CodexTTL = 24 * time.Hour
	}
	if cfg.InventoryTTL <= 0 {
		cfg.InventoryTTL = 60 * time.Second
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: cache,
	}
}

// Codex loads the codex document for a codex tier.
func (c *Client) Codex(ctx context.Context, tier int) (*domain.CodexDocument, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("codex/%d", tier), c.cfg.CodexTTL)
	if err != nil {
		return nil, err
	}
	var doc domain.CodexDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode codex tier %d: %w", tier, err)
	}
	return &doc, nil
}

// ClaimInventory loads the current inventory snapshot of a claim.
func (c *Client) ClaimInventory(ctx context.Context, claimID string) (*domain.InventorySnapshot, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("claims/%s/inventories", claimID), c.cfg.InventoryTTL)
	if err != nil {
		return nil, err
	}
	var snap domain.InventorySnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode inventory for claim %s: %w", claimID, err)
	}
	return &snap, nil
}

// Fetch retrieves a raw whitelisted document, bypassing the cache. The API
// proxy uses it for pass-through requests.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !Allowed(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamDenied, path)
	}
	return c.get(ctx, path)
}

// fetch is the cached read path.
func (c *Client) fetch(ctx context.Context, path string, ttl time.Duration) ([]byte, error) {
	if !Allowed(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamDenied, path)
	}

	if c.cache != nil {
		if body, ok, err := c.cache.Get(path); err == nil && ok {
			observability.CacheHits.Inc()
			return body, nil
		}
		observability.CacheMisses.Inc()
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(path, body, ttl); err != nil {
			// A broken cache must not fail the calculation.
			observability.CacheErrors.Inc()
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamErrors.Inc()
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		observability.UpstreamErrors.Inc()
		notFound := domain.ErrClaimNotFound
		if strings.HasPrefix(strings.TrimPrefix(path, "/"), "codex/") {
			notFound = domain.ErrCodexNotFound
		}
		return nil, fmt.Errorf("fetch %s: %w", path, notFound)
	}
	if resp.StatusCode != http.StatusOK {
		observability.UpstreamErrors.Inc()
		return nil, fmt.Errorf("fetch %s: upstream status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
