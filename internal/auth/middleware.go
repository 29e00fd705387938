package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the scope of the authenticated caller. The organization id
// taken from the token is the mandatory tenant filter for every ticket
// operation; the user id is recorded as the audit actor.
type Principal struct {
	UserID         string
	OrganizationID string
}

// ScopeMiddleware extracts the caller's scope from a bearer token.
type ScopeMiddleware struct {
	tokens *TokenManager
}

// NewScopeMiddleware constructs middleware.
func NewScopeMiddleware(tokens *TokenManager) *ScopeMiddleware {
	return &ScopeMiddleware{tokens: tokens}
}

// Handle extracts and validates the scope claims for protected routes.
func (m *ScopeMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}
	if strings.TrimSpace(claims.OrganizationID) == "" {
		return util.NewUnauthorized("token missing organization scope")
	}

	c.Locals(principalKey, &Principal{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated scope.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
