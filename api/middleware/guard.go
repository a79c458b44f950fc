package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/servicehub-gateway/internal/identity"
	"github.com/angelmondragon/servicehub-gateway/internal/onboarding"
	"github.com/angelmondragon/servicehub-gateway/internal/routing"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
	"github.com/angelmondragon/servicehub-gateway/pkg/metrics"
)

const redirectParam = "redirect"

type onboardingChecker interface {
	Check(ctx context.Context, r *http.Request, role enums.Role, userID, token string) onboarding.Decision
}

type decisionRecorder interface {
	IncDecision(outcome string)
}

// GuardParams bundles the collaborators of the page guard.
type GuardParams struct {
	Classifier *routing.Classifier
	Resolver   tokenResolver
	Gate       onboardingChecker
	Cookies    config.CookieConfig
	Logger     *logger.Logger
	Metrics    decisionRecorder
}

type guard struct {
	GuardParams
}

// Guard enforces role-based routing and the provider onboarding gate on page requests.
// Every outcome is either a pass-through or a silent redirect.
func Guard(params GuardParams) func(http.Handler) http.Handler {
	g := &guard{GuardParams: params}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(next, w, r)
		})
	}
}

func (g *guard) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	canonicalizePath(r)
	reqPath := r.URL.Path
	if g.Classifier.IsStaticAsset(reqPath) {
		next.ServeHTTP(w, r)
		return
	}

	stripIdentityHeaders(r)
	token := sessionToken(r, g.Cookies)
	ctx := r.Context()

	switch g.Classifier.Classify(reqPath) {
	case routing.ClassPublic:
		// Public pages never redirect; a bad token just means anonymous.
		if token != "" {
			if user, err := g.Resolver.Resolve(ctx, token); err == nil {
				g.allow(next, w, r, user, token)
				return
			}
		}
		g.record(metrics.OutcomePass)
		next.ServeHTTP(w, r)
		return
	case routing.ClassOther:
		// Outside the route table: forwarded anonymously without an identity lookup.
		g.record(metrics.OutcomePass)
		next.ServeHTTP(w, r)
		return
	}

	user, err := g.Resolver.Resolve(ctx, token)
	if err != nil {
		if token != "" {
			clearSessionCookies(w, g.Cookies)
		}
		g.redirect(w, r, g.loginLocation(r), metrics.OutcomeRedirectLogin, pkgerrors.CodeOf(err))
		return
	}

	if !g.Classifier.KnownRole(user.Role) {
		g.redirect(w, r, g.Classifier.LoginPath(), metrics.OutcomeRedirectLogin, pkgerrors.CodeUnknownRole)
		return
	}

	if !g.Classifier.HasRouteAccess(reqPath, user.Role) {
		g.redirect(w, r, g.Classifier.RoleBasedRedirect(user.Role), metrics.OutcomeRedirectDashboard, pkgerrors.CodeForbidden)
		return
	}

	if g.Gate != nil {
		decision := g.Gate.Check(ctx, r, user.Role, user.ID, token)
		if decision.Action == onboarding.ActionRedirect {
			outcome := metrics.OutcomeRedirectOnboarding
			if decision.Location == g.Classifier.ProviderDashboard() {
				outcome = metrics.OutcomeRedirectDashboard
			}
			g.redirect(w, r, decision.Location, outcome, "")
			return
		}
		if decision.FailOpen {
			g.record(metrics.OutcomeFailOpen)
			g.forward(next, w, r, user, token)
			return
		}
	}

	g.allow(next, w, r, user, token)
}

// canonicalizePath rewrites r to its cleaned path so the rules and the upstream see
// the same thing. Encoded dot segments are already decoded in URL.Path.
func canonicalizePath(r *http.Request) {
	cleaned := routing.CleanPath(r.URL.Path)
	if cleaned == r.URL.Path && r.URL.RawPath == "" {
		return
	}
	r.URL.Path = cleaned
	r.URL.RawPath = ""
	r.RequestURI = r.URL.RequestURI()
}

func (g *guard) allow(next http.Handler, w http.ResponseWriter, r *http.Request, user *identity.User, token string) {
	g.record(metrics.OutcomePass)
	g.forward(next, w, r, user, token)
}

func (g *guard) forward(next http.Handler, w http.ResponseWriter, r *http.Request, user *identity.User, token string) {
	r.Header.Set(HeaderUserID, user.ID)
	r.Header.Set(HeaderUserRole, string(user.Role))
	w.Header().Set(HeaderUserID, user.ID)
	w.Header().Set(HeaderUserRole, string(user.Role))

	ctx := WithIdentity(r.Context(), user.ID, user.Role, token)
	if g.Logger != nil {
		ctx = g.Logger.WithUserID(ctx, user.ID)
		ctx = g.Logger.WithActorRole(ctx, string(user.Role))
	}
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (g *guard) redirect(w http.ResponseWriter, r *http.Request, location, outcome string, reason pkgerrors.Code) {
	g.record(outcome)
	if g.Logger != nil {
		ctx := g.Logger.WithDecision(r.Context(), outcome, location)
		if reason != "" {
			ctx = g.Logger.WithField(ctx, "reason", string(reason))
		}
		g.Logger.Info(ctx, "guard.redirect")
	}
	http.Redirect(w, r, location, http.StatusFound)
}

func (g *guard) record(outcome string) {
	if g.Metrics != nil {
		g.Metrics.IncDecision(outcome)
	}
}

func (g *guard) loginLocation(r *http.Request) string {
	return LoginLocation(g.Classifier.LoginPath(), r.URL.RequestURI())
}

// LoginLocation builds the login URL that returns to original after sign-in.
func LoginLocation(loginPath, original string) string {
	if original == "" {
		return loginPath
	}
	return loginPath + "?" + redirectParam + "=" + queryEscapeKeepSlash(original)
}

func queryEscapeKeepSlash(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "%2F", "/")
}
