package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tbakr/troopmedia/internal/shared"
)

// makeToken builds a JWT-shaped token with the given claims and a junk
// signature. The guard never verifies signatures, so this is sufficient.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	encode := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal segment: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(data)
	}

	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload := encode(claims)
	return header + "." + payload + ".c2lnbmF0dXJl"
}

func TestGuard(t *testing.T) {
	t.Run("No Stored Token", func(t *testing.T) {
		store := newTestStore(t)
		guard := NewGuard(store)

		err := guard.Check(time.Now())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Valid Token", func(t *testing.T) {
		store := newTestStore(t)
		token := makeToken(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
		if err := store.SetPair(token, "refresh"); err != nil {
			t.Fatalf("failed to store tokens: %v", err)
		}

		if err := NewGuard(store).Check(time.Now()); err != nil {
			t.Errorf("expected valid token to pass, got %v", err)
		}
	})

	t.Run("Expired Token Clears Both Tokens", func(t *testing.T) {
		store := newTestStore(t)
		token := makeToken(t, map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})
		if err := store.SetPair(token, "refresh"); err != nil {
			t.Fatalf("failed to store tokens: %v", err)
		}

		err := NewGuard(store).Check(time.Now())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}

		for _, key := range []string{AccessTokenKey, RefreshTokenKey} {
			got, err := store.Get(key)
			if err != nil {
				t.Fatalf("failed to read %s: %v", key, err)
			}
			if got != "" {
				t.Errorf("expected %s cleared after expiry, got %q", key, got)
			}
		}
	})

	t.Run("Token Without Expiry Claim Is Expired", func(t *testing.T) {
		store := newTestStore(t)
		token := makeToken(t, map[string]any{"sub": "akela"})
		if err := store.Set(AccessTokenKey, token); err != nil {
			t.Fatalf("failed to store token: %v", err)
		}

		err := NewGuard(store).Check(time.Now())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Malformed Token Is Unauthenticated Not Panic", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Set(AccessTokenKey, "not-a-jwt"); err != nil {
			t.Fatalf("failed to store token: %v", err)
		}

		err := NewGuard(store).Check(time.Now())
		if !errors.Is(err, shared.ErrMalformedToken) {
			t.Errorf("expected ErrMalformedToken, got %v", err)
		}
	})

	t.Run("Garbage Payload Segment", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Set(AccessTokenKey, "aGVhZGVy.!!!!.c2ln"); err != nil {
			t.Fatalf("failed to store token: %v", err)
		}

		err := NewGuard(store).Check(time.Now())
		if !errors.Is(err, shared.ErrMalformedToken) {
			t.Errorf("expected ErrMalformedToken, got %v", err)
		}
	})

	t.Run("Expiry Boundary", func(t *testing.T) {
		store := newTestStore(t)
		now := time.Now()
		token := makeToken(t, map[string]any{"exp": now.Unix()})
		if err := store.Set(AccessTokenKey, token); err != nil {
			t.Fatalf("failed to store token: %v", err)
		}

		// exp equal to now is already expired
		err := NewGuard(store).Check(time.Unix(now.Unix(), 0))
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired at boundary, got %v", err)
		}
	})
}
