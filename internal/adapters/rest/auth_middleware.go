package rest

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
)

type claimsKey struct{}

// ClaimsFromContext возвращает данные пользователя, положенные Authenticate
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*domain.Claims)
	return claims, ok
}

type AuthMiddleware struct {
	validator port.TokenValidatorPort
}

func NewAuthMiddleware(validator port.TokenValidatorPort) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate - проверка Bearer-токена
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := am.validator.ValidateToken(r.Context(), tokenString)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
			"user_id": claims.UserID.String(),
		})
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = contextkeys.ContextWithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает только пользователей с одной из ролей
func (am *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
