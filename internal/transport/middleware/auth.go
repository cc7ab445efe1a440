package middleware

import (
	"net/http"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/auth"
	"github.com/frahmantamala/interior-ledger/internal/transport"
	"github.com/frahmantamala/interior-ledger/pkg/logger"
)

type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// Authenticate verifies the bearer token and places the user id in the
// request context. Handlers below it trust internal.UserIDFromContext.
func Authenticate(validator TokenValidator, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := base.ExtractTokenFromHeader(r)
			if token == "" {
				base.HandleServiceError(w, internal.NewUnauthorizedError("Missing authorization token", internal.ErrCodeInvalidToken))
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.From(r.Context()).Warn("token validation failed", "error", err)
				base.HandleServiceError(w, err)
				return
			}

			ctx := internal.ContextWithUserID(r.Context(), claims.UserID)
			ctx = logger.With(ctx, "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
