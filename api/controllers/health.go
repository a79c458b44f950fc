package controllers

import (
	"net/http"

	"github.com/angelmondragon/servicehub-gateway/api/responses"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
	"github.com/angelmondragon/servicehub-gateway/pkg/redis"
)

const envHeader = "X-Servicehub-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the optional cache answers a ping. A nil pinger means
// the gateway runs without redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		checks := map[string]string{"cache": "disabled"}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
				return
			}
			checks["cache"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
