package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FURNISHD"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "FURNISHD_APP_ENV"
	EnvPort   = "FURNISHD_APP_PORT"
	EnvDBDSN  = "FURNISHD_DB_DSN"
	EnvDBHost = "FURNISHD_DB_HOST"
	EnvDBUser = "FURNISHD_DB_USER"
	EnvDBName = "FURNISHD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"FURNISHD_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNISHD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FURNISHD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNISHD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FURNISHD_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FURNISHD_DB_DSN"`
	Driver string `envconfig:"FURNISHD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FURNISHD_DB_HOST"`
	LegacyPort     int    `envconfig:"FURNISHD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FURNISHD_DB_USER"`
	LegacyPassword string `envconfig:"FURNISHD_DB_PASSWORD"`
	LegacyName     string `envconfig:"FURNISHD_DB_NAME"`
	LegacySSLMode  string `envconfig:"FURNISHD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNISHD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNISHD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNISHD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNISHD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNISHD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FURNISHD_REDIS_ADDR"`
	Password     string        `envconfig:"FURNISHD_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNISHD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNISHD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNISHD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNISHD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNISHD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNISHD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FURNISHD_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FURNISHD_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FURNISHD_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FURNISHD_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FURNISHD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FURNISHD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FURNISHD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FURNISHD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FURNISHD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FURNISHD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FURNISHD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FURNISHD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FURNISHD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FURNISHD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FURNISHD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FURNISHD_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval               time.Duration `envconfig:"FURNISHD_CRON_INTERVAL" default:"24h"`
	StaleOrderGracePeriod time.Duration `envconfig:"FURNISHD_CRON_STALE_ORDER_GRACE" default:"240h"`
	ContactRetentionDays   int           `envconfig:"FURNISHD_CRON_CONTACT_RETENTION_DAYS" default:"180"`
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
