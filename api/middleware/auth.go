package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/servicehub-gateway/api/responses"
	"github.com/angelmondragon/servicehub-gateway/internal/identity"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

type tokenResolver interface {
	Resolve(ctx context.Context, token string) (*identity.User, error)
}

// Auth resolves the session token for JSON endpoints and seeds the request context.
// Failures are answered with a JSON error instead of a redirect.
func Auth(resolver tokenResolver, cookies config.CookieConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stripIdentityHeaders(r)
			token := sessionToken(r, cookies)

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeInvalidToken) {
					clearSessionCookies(w, cookies)
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), user.ID, user.Role, token)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID,
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
