package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
}

func TestTokenStore(t *testing.T) {
	t.Run("Get Missing Entry", func(t *testing.T) {
		store := newTestStore(t)

		got, err := store.Get(AccessTokenKey)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "" {
			t.Errorf("expected empty token, got %q", got)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Set(AccessTokenKey, "abc123"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}

		got, err := store.Get(AccessTokenKey)
		if err != nil {
			t.Fatalf("failed to get token: %v", err)
		}
		if got != "abc123" {
			t.Errorf("expected 'abc123', got %q", got)
		}
	})

	t.Run("Persists Across Instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")

		first := NewTokenStore(path)
		if err := first.SetPair("access-token", "refresh-token"); err != nil {
			t.Fatalf("failed to set pair: %v", err)
		}

		second := NewTokenStore(path)
		access, err := second.Get(AccessTokenKey)
		if err != nil {
			t.Fatalf("failed to get access token: %v", err)
		}
		refresh, err := second.Get(RefreshTokenKey)
		if err != nil {
			t.Fatalf("failed to get refresh token: %v", err)
		}

		if access != "access-token" {
			t.Errorf("expected 'access-token', got %q", access)
		}
		if refresh != "refresh-token" {
			t.Errorf("expected 'refresh-token', got %q", refresh)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Set(RefreshTokenKey, "xyz"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
		if err := store.Remove(RefreshTokenKey); err != nil {
			t.Fatalf("failed to remove token: %v", err)
		}

		got, err := store.Get(RefreshTokenKey)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "" {
			t.Errorf("expected empty token after remove, got %q", got)
		}
	})

	t.Run("Remove Absent Entry", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Remove(AccessTokenKey); err != nil {
			t.Errorf("expected no error removing absent entry, got %v", err)
		}
	})

	t.Run("Clear Removes Both Tokens", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.SetPair("a", "r"); err != nil {
			t.Fatalf("failed to set pair: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		for _, key := range []string{AccessTokenKey, RefreshTokenKey} {
			got, err := store.Get(key)
			if err != nil {
				t.Fatalf("failed to get %s: %v", key, err)
			}
			if got != "" {
				t.Errorf("expected %s cleared, got %q", key, got)
			}
		}
	})

	t.Run("Token File Has Owner Only Permissions", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Set(AccessTokenKey, "secret"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}

		info, err := os.Stat(store.Path())
		if err != nil {
			t.Fatalf("failed to stat token file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected mode 0600, got %o", perm)
		}
	})

	t.Run("Corrupt Token File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}

		store := NewTokenStore(path)
		if _, err := store.Get(AccessTokenKey); err == nil {
			t.Error("expected error reading corrupt token file")
		}
	})
}
