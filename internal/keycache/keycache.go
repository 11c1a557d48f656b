package keycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"autoblog/internal/domain"
	"autoblog/internal/ports"
)

// ErrUnavailable is returned when the credential store cannot be reached
// and the caller asked for a fresh snapshot.
var ErrUnavailable = errors.New("api keys unavailable")

// Cache holds the provider→secret snapshot with a time-to-live. Readers
// always see either the prior or the fresh snapshot in full; the swap
// happens under the mutex.
//
// On a failed refresh the previous snapshot is kept (not cleared) while the
// error is surfaced to the caller. The expired timestamp stands, so the next
// access retries the store instead of serving the stale map silently.
type Cache struct {
	store ports.CredentialStore
	ttl   time.Duration

	mu     sync.Mutex
	keys   map[domain.Provider]string
	expiry time.Time

	now func() time.Time
}

// New builds a cache over the credential store with the given TTL.
func New(store ports.CredentialStore, ttl time.Duration) *Cache {
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Keys returns the provider→secret mapping, refreshing from storage on a
// miss or after expiry. Only active credentials are included.
func (c *Cache) Keys(ctx context.Context) (map[domain.Provider]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keys != nil && c.now().Before(c.expiry) {
		return snapshot(c.keys), nil
	}

	creds, err := c.store.ActiveCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fresh := make(map[domain.Provider]string, len(creds))
	for _, cred := range creds {
		if cred.Secret == "" {
			continue
		}
		fresh[cred.Provider] = cred.Secret
	}

	c.keys = fresh
	c.expiry = c.now().Add(c.ttl)

	return snapshot(fresh), nil
}

// Key returns the secret for one provider; ok is false when the provider
// has no active credential.
func (c *Cache) Key(ctx context.Context, provider domain.Provider) (string, bool, error) {
	keys, err := c.Keys(ctx)
	if err != nil {
		return "", false, err
	}
	secret, ok := keys[provider]
	return secret, ok, nil
}

// Invalidate clears the snapshot and expiry unconditionally; the next
// access triggers a refetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = nil
	c.expiry = time.Time{}
}

func snapshot(keys map[domain.Provider]string) map[domain.Provider]string {
	out := make(map[domain.Provider]string, len(keys))
	for provider, secret := range keys {
		out[provider] = secret
	}
	return out
}
