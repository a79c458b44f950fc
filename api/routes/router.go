package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/servicehub-gateway/api/controllers"
	"github.com/angelmondragon/servicehub-gateway/api/middleware"
	"github.com/angelmondragon/servicehub-gateway/internal/identity"
	"github.com/angelmondragon/servicehub-gateway/internal/onboarding"
	"github.com/angelmondragon/servicehub-gateway/internal/routing"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
	"github.com/angelmondragon/servicehub-gateway/pkg/metrics"
	"github.com/angelmondragon/servicehub-gateway/pkg/redis"
)

// RouterParams bundles everything the gateway router serves.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Cache      redis.Pinger
	Gatherer   prometheus.Gatherer
	Metrics    *metrics.GateMetrics
	Classifier *routing.Classifier
	Identity   identity.Service
	Onboarding onboarding.Service
	Gate       *onboarding.Gate
	Frontend   http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer(logg))

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", controllers.HealthLive(cfg))
			r.Get("/ready", controllers.HealthReady(cfg, logg, p.Cache))
		})

		gatherer := p.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

		r.Route("/api/gateway", func(r chi.Router) {
			r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins, cfg.App.IsDev()))
			r.Use(middleware.Auth(p.Identity, cfg.Cookies, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleProvider))

			r.Get("/onboarding/status", controllers.OnboardingStatus(p.Onboarding, logg))
			r.Post("/onboarding/invalidate", controllers.OnboardingInvalidate(p.Onboarding, p.Identity, logg))
		})
	})

	guardParams := middleware.GuardParams{
		Classifier: p.Classifier,
		Resolver:   p.Identity,
		Cookies:    cfg.Cookies,
		Logger:     logg,
		Metrics:    p.Metrics,
	}
	if p.Gate != nil {
		guardParams.Gate = p.Gate
	}
	pages := middleware.GuardRecoverer(cfg.Cookies, p.Classifier.LoginPath(), logg)(
		middleware.Guard(guardParams)(p.Frontend),
	)
	r.Handle("/*", pages)
	r.Handle("/", pages)

	return r
}
