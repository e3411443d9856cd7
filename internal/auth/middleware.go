package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/domain"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Claims  *Claims
	Profile *domain.UserProfile
}

// ProfileResolver loads the profile for an authenticated identity. The
// identity service implements it with lookup-or-provision semantics.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	revoked  *RevocationList
	profiles ProfileResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revoked *RevocationList, profiles ProfileResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoked: revoked, profiles: profiles}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if m.revoked.IsRevoked(c.Context(), claims.ID) {
		return apperrors.NewUnauthorized("session signed out")
	}

	profile, err := m.profiles.ResolveProfile(c.Context(), claims.UID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Claims: claims, Profile: profile})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
