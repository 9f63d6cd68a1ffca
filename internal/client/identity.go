package client

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"forum-service/internal/forum"
	"forum-service/internal/middleware"
)

// TokenIdentity reads the caller from a bearer token. The signature is not
// checked here; the server verifies it on every write.
type TokenIdentity struct {
	identity forum.Identity
	ok       bool
}

var _ forum.IdentityProvider = TokenIdentity{}

// NewTokenIdentity parses token claims. An empty token yields an anonymous
// identity.
func NewTokenIdentity(token string) (TokenIdentity, error) {
	if token == "" {
		return TokenIdentity{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenIdentity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	id, username, err := middleware.ClaimsIdentity(claims)
	if err != nil {
		return TokenIdentity{}, err
	}
	return TokenIdentity{identity: forum.Identity{ID: id, Username: username}, ok: true}, nil
}

func (t TokenIdentity) CurrentUser() (forum.Identity, bool) {
	return t.identity, t.ok
}
