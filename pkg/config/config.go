package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Cron          CronConfig
	Bootstrap     BootstrapConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STOCKLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKLINE_DB_DSN"`
	Driver string `envconfig:"STOCKLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKLINE_DB_USER"`
	LegacyPassword string `envconfig:"STOCKLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"STOCKLINE_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
	TxRetries          int           `envconfig:"STOCKLINE_DB_TX_RETRIES" default:"0"`
}

type RedisConfig struct {
	URL             string        `envconfig:"STOCKLINE_REDIS_URL" required:"true"`
	Address         string        `envconfig:"STOCKLINE_REDIS_ADDR"`
	Password        string        `envconfig:"STOCKLINE_REDIS_PASSWORD"`
	DB              int           `envconfig:"STOCKLINE_REDIS_DB" default:"0"`
	PoolSize        int           `envconfig:"STOCKLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns    int           `envconfig:"STOCKLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout     time.Duration `envconfig:"STOCKLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout     time.Duration `envconfig:"STOCKLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"STOCKLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL  time.Duration `envconfig:"STOCKLINE_REDIS_IDEMPOTENCY_TTL" default:"24h"`
	RateLimitWindow time.Duration `envconfig:"STOCKLINE_REDIS_RATE_LIMIT_WINDOW" default:"1m"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOCKLINE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOCKLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOCKLINE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"STOCKLINE_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKLINE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STOCKLINE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentLimit int           `envconfig:"STOCKLINE_AUTH_RATE_LIMIT_LOGIN_IDENT_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"STOCKLINE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKLINE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOCKLINE_CORS_ALLOWED_ORIGINS" default:"*"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"STOCKLINE_CRON_INTERVAL" default:"1h"`
	AuditLogRetention time.Duration `envconfig:"STOCKLINE_AUDIT_LOG_RETENTION" default:"96h"`
	StatisticsRefresh bool          `envconfig:"STOCKLINE_CRON_STATISTICS_REFRESH" default:"true"`
	JobTimeout        time.Duration `envconfig:"STOCKLINE_CRON_JOB_TIMEOUT" default:"10m"`
	LockTTL           time.Duration `envconfig:"STOCKLINE_CRON_LOCK_TTL" default:"30m"`
}

// BootstrapConfig seeds the first owner account when the users table is empty.
type BootstrapConfig struct {
	AdminName     string `envconfig:"STOCKLINE_BOOTSTRAP_ADMIN_NAME" default:"Admin"`
	AdminEmail    string `envconfig:"STOCKLINE_BOOTSTRAP_ADMIN_EMAIL" default:"admin@example.com"`
	AdminPhone    string `envconfig:"STOCKLINE_BOOTSTRAP_ADMIN_PHONE" default:"1234567890"`
	AdminPassword string `envconfig:"STOCKLINE_BOOTSTRAP_ADMIN_PASSWORD" default:"admin123"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
