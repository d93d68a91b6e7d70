package gamedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.data[key]
	return body, ok, nil
}

func (c *memCache) Set(key string, body []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = body
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cache Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(DefaultConfig(srv.URL), cache)
}

// ─── Whitelist ──────────────────────────────────────────────────────────────

func TestAllowed(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"claims/123/inventories", true},
		{"/claims/123/inventories", true},
		{"codex/3", true},
		{"items", true},
		{"cargos", true},
		{"players/123", false},
		{"admin/keys", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Allowed(tt.path); got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFetchDeniedPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should never see a denied path")
	}, nil)

	_, err := c.Fetch(context.Background(), "admin/keys")
	if !errors.Is(err, domain.ErrUpstreamDenied) {
		t.Errorf("error = %v, want ErrUpstreamDenied", err)
	}
}

// ─── Document Fetching ──────────────────────────────────────────────────────

func TestCodex(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/codex/3" {
			t.Errorf("path = %q, want /codex/3", r.URL.Path)
		}
		w.Write([]byte(`{"name":"Tier 3 Codex","tier":3,"researches":[{"name":"Carpentry Research","tier":3,"qty":1}]}`))
	}, nil)

	doc, err := c.Codex(context.Background(), 3)
	if err != nil {
		t.Fatalf("Codex() error: %v", err)
	}
	if doc.Tier != 3 {
		t.Errorf("tier = %d, want 3", doc.Tier)
	}
	if len(doc.Researches) != 1 || doc.Researches[0].Name != "Carpentry Research" {
		t.Errorf("researches = %+v", doc.Researches)
	}
}

func TestClaimInventory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/claims/claim-1/inventories" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"buildings":[{"building_id":1,"slots":[{"item_id":9,"quantity":4,"is_item_or_cargo":true}]}],"items":[{"id":9,"name":"Plank","tier":2}]}`))
	}, nil)

	snap, err := c.ClaimInventory(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("ClaimInventory() error: %v", err)
	}
	if len(snap.Buildings) != 1 || snap.Buildings[0].Slots[0].Quantity != 4 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestCodexNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, nil)

	_, err := c.Codex(context.Background(), 42)
	if !errors.Is(err, domain.ErrCodexNotFound) {
		t.Errorf("error = %v, want ErrCodexNotFound", err)
	}
}

func TestClaimNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, nil)

	_, err := c.ClaimInventory(context.Background(), "nope")
	if !errors.Is(err, domain.ErrClaimNotFound) {
		t.Errorf("error = %v, want ErrClaimNotFound", err)
	}
}

func TestUpstreamStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	if _, err := c.Codex(context.Background(), 3); err == nil {
		t.Error("expected error on 502")
	}
}

// ─── Caching ────────────────────────────────────────────────────────────────

func TestCachedFetch(t *testing.T) {
	hits := 0
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"tier":3}`))
	}, cache)

	for i := 0; i < 3; i++ {
		if _, err := c.Codex(context.Background(), 3); err != nil {
			t.Fatalf("Codex() error: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("upstream hit %d times, want 1 (cache should serve repeats)", hits)
	}
}

func TestProxyFetchBypassesCache(t *testing.T) {
	hits := 0
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[]`))
	}, cache)

	c.Fetch(context.Background(), "items")
	c.Fetch(context.Background(), "items")
	if hits != 2 {
		t.Errorf("upstream hit %d times, want 2 (raw fetch is uncached)", hits)
	}
}
