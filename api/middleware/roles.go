package middleware

import (
	"net/http"
	"slices"

	"github.com/angelmondragon/servicehub-gateway/api/responses"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

// RequireRole admits requests whose resolved role is one of roles. It must run after Auth.
// Roles outside the known set are reported as UNKNOWN_ROLE rather than FORBIDDEN.
func RequireRole(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			switch {
			case role == "":
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			case !role.IsValid():
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnknownRole, "unknown role"))
				return
			case !slices.Contains(roles, role):
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
