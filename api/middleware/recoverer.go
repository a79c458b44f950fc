package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/servicehub-gateway/api/responses"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

// Recoverer turns panics in JSON endpoints into an internal error envelope.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GuardRecoverer is the outermost boundary of the page pipeline: on panic it clears
// the session cookies and sends the user to login.
func GuardRecoverer(cookies config.CookieConfig, loginPath string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					err := fmt.Errorf("panic: %v", v)
					if logg != nil {
						ctx := logg.WithFields(r.Context(), map[string]any{
							"panic":            v,
							"response_started": rec.started(),
						})
						logg.Error(ctx, "guard.panic.recovered", err)
					}
					// Once the upstream response has begun there is nothing left to redirect.
					if rec.started() {
						return
					}
					clearSessionCookies(rec, cookies)
					http.Redirect(rec, r, loginPath, http.StatusFound)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
