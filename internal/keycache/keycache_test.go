package keycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoblog/internal/domain"
)

type fakeCredentialStore struct {
	creds []domain.Credential
	err   error
	calls int
}

func (f *fakeCredentialStore) ActiveCredentials(ctx context.Context) ([]domain.Credential, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

func TestKeysCachesWithinTTL(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderOpenAI, Secret: "sk-test", Active: true},
	}}
	cache := New(store, 5*time.Minute)

	ctx := context.Background()
	keys, err := cache.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys error: %v", err)
	}
	if keys[domain.ProviderOpenAI] != "sk-test" {
		t.Fatalf("unexpected snapshot: %v", keys)
	}

	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("second Keys error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 store call, got %d", store.calls)
	}
}

func TestKeysRefreshesAfterExpiry(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderClaude, Secret: "ck-test", Active: true},
	}}
	cache := New(store, 5*time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("Keys error: %v", err)
	}

	current = current.Add(6 * time.Minute)
	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("Keys after expiry error: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", store.calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderGemini, Secret: "gk-test", Active: true},
	}}
	cache := New(store, time.Hour)

	ctx := context.Background()
	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("Keys error: %v", err)
	}

	cache.Invalidate()
	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("Keys after invalidate error: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", store.calls)
	}
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderOpenAI, Secret: "sk-test", Active: true},
	}}
	cache := New(store, 5*time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := cache.Keys(ctx); err != nil {
		t.Fatalf("Keys error: %v", err)
	}

	current = current.Add(6 * time.Minute)
	store.err = errors.New("connection refused")

	if _, err := cache.Keys(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	// Storage recovers; the cache retries rather than serving nothing.
	store.err = nil
	keys, err := cache.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys after recovery error: %v", err)
	}
	if keys[domain.ProviderOpenAI] != "sk-test" {
		t.Fatalf("unexpected snapshot after recovery: %v", keys)
	}
}

func TestKeyAbsentProvider(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderOpenAI, Secret: "sk-test", Active: true},
	}}
	cache := New(store, time.Minute)

	_, ok, err := cache.Key(context.Background(), domain.ProviderClaude)
	if err != nil {
		t.Fatalf("Key error: %v", err)
	}
	if ok {
		t.Fatal("expected claude key to be absent")
	}
}

func TestEmptySecretsAreDropped(t *testing.T) {
	t.Parallel()

	store := &fakeCredentialStore{creds: []domain.Credential{
		{Provider: domain.ProviderOpenAI, Secret: "", Active: true},
	}}
	cache := New(store, time.Minute)

	keys, err := cache.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys error: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty snapshot, got %v", keys)
	}
}
