package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tbakr/troopmedia/internal/shared"
)

// Guard decides whether protected views may be entered, evaluated once at the
// routing layer rather than baked into each view.
type Guard struct {
	store *TokenStore
}

// NewGuard creates a guard over the given token store.
func NewGuard(store *TokenStore) *Guard {
	return &Guard{store: store}
}

// Check inspects the stored access token and returns nil when it looks usable.
//
// The token's exp claim is decoded without signature verification; the check
// only avoids requests that would 401 anyway. Failure modes:
//   - no stored token: [shared.ErrNotAuthenticated]
//   - undecodable token: [shared.ErrMalformedToken], treated as unauthenticated
//   - expired (or missing) exp claim: both tokens are cleared from the store
//     and [shared.ErrTokenExpired] is returned
func (g *Guard) Check(now time.Time) error {
	token, err := g.store.Get(AccessTokenKey)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	exp, err := decodeExpiry(token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedToken, err)
	}

	if exp.IsZero() || !exp.After(now) {
		if err := g.store.Clear(); err != nil {
			return fmt.Errorf("%w: failed to clear tokens: %v", shared.ErrTokenExpired, err)
		}
		return shared.ErrTokenExpired
	}

	return nil
}

// decodeExpiry extracts the exp claim from a JWT without verifying its
// signature. A token without an exp claim yields the zero time.
func decodeExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
