// Package keyset maintains the verification keys for signed tokens. It
// fetches a JWKS document over HTTP, keeps a point-in-time snapshot for
// a configurable TTL, and collapses concurrent refreshes into a single
// fetch so an expiry under load never produces a request stampede.
package keyset

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/skubra/cleargate/errors"
	"github.com/skubra/cleargate/logger"
)

// DefaultTTL is how long a fetched key set is considered fresh.
const DefaultTTL = 300 * time.Second

// Config configures a Cache.
type Config struct {
	// URL is the JWKS endpoint of the token issuer.
	URL string

	// TTL is the freshness window of a snapshot. Zero means DefaultTTL.
	TTL time.Duration

	// StaleGrace extends the life of an expired snapshot when a refresh
	// fails. Within the grace window known keys are still served. Zero
	// disables stale serving.
	StaleGrace time.Duration

	// HTTPClient overrides the client used for fetches. Nil means a
	// client with a 10 second timeout.
	HTTPClient *http.Client

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

// snapshot is an immutable fetched key set. Replaced wholesale on
// refresh, never mutated in place.
type snapshot struct {
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// Cache serves RSA public keys by key ID with TTL-bounded caching.
type Cache struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
	log    *logger.Logger

	group singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
}

// NewCache creates a key cache for the given JWKS endpoint.
func NewCache(cfg Config, log *logger.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{
		cfg:    cfg,
		client: client,
		now:    now,
		log:    log.WithComponent("keyset"),
	}
}

// Key returns the RSA public key for kid.
//
// A fresh snapshot is served without touching the network. A kid absent
// from a fresh snapshot forces one refresh before failing, so key
// rotation at the issuer is picked up without waiting out the TTL. When
// the snapshot has expired and the refresh fails, known keys are served
// from the stale snapshot within the configured grace window.
func (c *Cache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	snap := c.snapshot()

	if snap != nil && !c.expired(snap) {
		if k, ok := snap.keys[kid]; ok {
			return k, nil
		}
		// Possible rotation at the issuer.
		refreshed, err := c.refresh(ctx, snap)
		if err != nil {
			return nil, apperrors.UnknownKeyID(kid).WithCause(err)
		}
		if k, ok := refreshed.keys[kid]; ok {
			return k, nil
		}
		return nil, apperrors.UnknownKeyID(kid)
	}

	refreshed, err := c.refresh(ctx, snap)
	if err != nil {
		if snap != nil && c.withinGrace(snap) {
			if k, ok := snap.keys[kid]; ok {
				c.log.Warn("serving stale key after failed refresh", logger.Fields(
					logger.FieldKeyID, kid,
					logger.FieldError, err.Error(),
				))
				return k, nil
			}
		}
		return nil, apperrors.KeySetUnavailable(err)
	}
	if k, ok := refreshed.keys[kid]; ok {
		return k, nil
	}
	return nil, apperrors.UnknownKeyID(kid)
}

func (c *Cache) snapshot() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Cache) expired(s *snapshot) bool {
	return c.now().Sub(s.fetchedAt) > c.cfg.TTL
}

func (c *Cache) withinGrace(s *snapshot) bool {
	return c.now().Sub(s.fetchedAt) <= c.cfg.TTL+c.cfg.StaleGrace
}

// refresh fetches the JWKS document and installs a new snapshot.
// Concurrent callers share a single in-flight fetch. A caller whose
// snapshot was already replaced by another goroutine gets the new
// snapshot without fetching again.
func (c *Cache) refresh(ctx context.Context, prev *snapshot) (*snapshot, error) {
	v, err, _ := c.group.Do("jwks", func() (interface{}, error) {
		if cur := c.snapshot(); cur != nil && cur != prev {
			return cur, nil
		}
		keys, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		next := &snapshot{keys: keys, fetchedAt: c.now()}
		c.mu.Lock()
		c.snap = next
		c.mu.Unlock()
		c.log.Debug("key set refreshed", logger.Fields("keys", len(keys)))
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

// fetch retrieves and parses the JWKS document. It never touches the
// installed snapshot, so a failed or malformed fetch cannot corrupt the
// keys already being served.
func (c *Cache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create JWKS request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Error on close is safe to ignore for read operations

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("JWKS returned %d: %s", resp.StatusCode, string(body))
	}

	var doc jwksDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for i := range doc.Keys {
		k := doc.Keys[i]
		if k.Kty != "RSA" {
			continue
		}
		if k.Use != "sig" && k.Use != "" {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}
