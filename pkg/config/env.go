package config

const (
	EnvPrefix = "STOCKLINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, shared with tests and the migrate CLI.
const (
	EnvAppEnv                 = "STOCKLINE_APP_ENV"
	EnvPort                   = "STOCKLINE_APP_PORT"
	EnvLogLevel               = "STOCKLINE_LOG_LEVEL"
	EnvDBDSN                  = "STOCKLINE_DB_DSN"
	EnvDBHost                 = "STOCKLINE_DB_HOST"
	EnvDBUser                 = "STOCKLINE_DB_USER"
	EnvDBName                 = "STOCKLINE_DB_NAME"
	EnvDBPassword             = "STOCKLINE_DB_PASSWORD"
	EnvRedisURL               = "STOCKLINE_REDIS_URL"
	EnvJWTSecret              = "STOCKLINE_JWT_SECRET"
	EnvJWTIssuer              = "STOCKLINE_JWT_ISSUER"
	EnvJWTExpMins             = "STOCKLINE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOCKLINE_REFRESH_TOKEN_TTL_MINUTES"
	EnvAuditLogRetention      = "STOCKLINE_AUDIT_LOG_RETENTION"
	EnvCronInterval           = "STOCKLINE_CRON_INTERVAL"
	EnvBootstrapAdminEmail    = "STOCKLINE_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminPassword = "STOCKLINE_BOOTSTRAP_ADMIN_PASSWORD"
	EnvCORSAllowedOrigins     = "STOCKLINE_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
