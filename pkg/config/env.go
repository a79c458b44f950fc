package config

const EnvPrefix = "SERVICEHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "SERVICEHUB_APP_ENV"
	EnvPort           = "SERVICEHUB_APP_PORT"
	EnvLogLevel       = "SERVICEHUB_LOG_LEVEL"
	EnvBackendURL     = "SERVICEHUB_BACKEND_URL"
	EnvBackendTimeout = "SERVICEHUB_BACKEND_TIMEOUT"
	EnvFrontendURL    = "SERVICEHUB_FRONTEND_URL"
	EnvCookieSecure   = "SERVICEHUB_COOKIE_SECURE"
	EnvRedisURL       = "SERVICEHUB_REDIS_URL"
	EnvRedisAddr      = "SERVICEHUB_REDIS_ADDR"
	EnvCacheTTL       = "SERVICEHUB_CACHE_TTL"
)
