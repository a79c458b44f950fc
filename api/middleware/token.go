package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/servicehub-gateway/pkg/config"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// sessionToken reads the access token cookie, falling back to a bearer header.
func sessionToken(r *http.Request, cookies config.CookieConfig) string {
	if c, err := r.Cookie(cookies.AccessToken); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}

// clearSessionCookies expires both session cookies on the response.
func clearSessionCookies(w http.ResponseWriter, cookies config.CookieConfig) {
	for _, name := range []string{cookies.AccessToken, cookies.RefreshToken} {
		if name == "" {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// stripIdentityHeaders drops client-supplied identity headers so only the guard can set them.
func stripIdentityHeaders(r *http.Request) {
	r.Header.Del(HeaderUserID)
	r.Header.Del(HeaderUserRole)
}
