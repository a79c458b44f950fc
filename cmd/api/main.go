package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/servicehub-gateway/api/handlers"
	"github.com/angelmondragon/servicehub-gateway/api/routes"
	"github.com/angelmondragon/servicehub-gateway/internal/identity"
	"github.com/angelmondragon/servicehub-gateway/internal/onboarding"
	"github.com/angelmondragon/servicehub-gateway/internal/routing"
	"github.com/angelmondragon/servicehub-gateway/pkg/backend"
	"github.com/angelmondragon/servicehub-gateway/pkg/config"
	"github.com/angelmondragon/servicehub-gateway/pkg/instance"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
	"github.com/angelmondragon/servicehub-gateway/pkg/metrics"
	"github.com/angelmondragon/servicehub-gateway/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gateMetrics := metrics.NewGateMetrics(reg)

	backendClient, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithObserver(gateMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	identityParams := identity.ServiceParams{Backend: backendClient, Logger: logg}
	onboardingParams := onboarding.ServiceParams{Fetcher: onboarding.NewFetcher(backendClient), Logger: logg}
	var cachePinger redis.Pinger

	if cfg.Redis.Configured() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cachePinger = redisClient
		if cfg.Cache.Enabled() {
			identityParams.Cache, identityParams.CacheTTL = redisClient, cfg.Cache.TTL
			onboardingParams.Cache, onboardingParams.CacheTTL = redisClient, cfg.Cache.TTL
		}
	}

	identityService, err := identity.NewService(identityParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}
	onboardingService, err := onboarding.NewService(onboardingParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	classifier := routing.NewClassifier(routing.DefaultTable())
	gate := onboarding.NewGate(classifier, onboardingService, logg, gateMetrics)

	frontend, err := handlers.Frontend(cfg.Frontend.UpstreamURL, logg, gateMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create frontend proxy", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"backend":  backendClient.BaseURL(),
		"frontend": cfg.Frontend.UpstreamURL,
		"cache":    cfg.Cache.Enabled(),
	})
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:     cfg,
			Logger:     logg,
			Cache:      cachePinger,
			Gatherer:   reg,
			Metrics:    gateMetrics,
			Classifier: classifier,
			Identity:   identityService,
			Onboarding: onboardingService,
			Gate:       gate,
			Frontend:   frontend,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "gateway server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
