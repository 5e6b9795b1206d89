package middleware

import (
	"context"
	"net/http"
	"strings"

	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"
)

// IdentityKey is the key for storing verified token claims in request context.
const IdentityKey contextKey = "identity"

// AuthMiddleware authenticates bearer tokens and scopes routes by account
// kind. Public routes simply never pass through it (router grouping).
type AuthMiddleware struct {
	tokens *service.TokenService
}

// NewAuthMiddleware creates an auth middleware with an injected token service.
func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireKind returns a middleware that admits only tokens of the given
// account kind. A missing or invalid token is an authentication failure; a
// valid token of the wrong kind is an authorization failure, reported
// distinctly.
func (m *AuthMiddleware) RequireKind(kind service.AccountKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				response.Error(w, apierror.Unauthorized("No token provided"))
				return
			}
			token := strings.TrimPrefix(auth, "Bearer ")

			claims, err := m.tokens.Verify(token)
			if err != nil {
				response.Error(w, apierror.Unauthorized("Invalid token"))
				return
			}

			if claims.Type != kind {
				response.Error(w, apierror.Forbidden("Invalid token type"))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext retrieves verified claims from request context.
func GetIdentityFromContext(ctx context.Context) *service.Claims {
	if claims, ok := ctx.Value(IdentityKey).(*service.Claims); ok {
		return claims
	}
	return nil
}
