package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ROMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "ROMS_APP_ENV"
	EnvPort       = "ROMS_APP_PORT"
	EnvDBDSN      = "ROMS_DB_DSN"
	EnvDBHost     = "ROMS_DB_HOST"
	EnvDBUser     = "ROMS_DB_USER"
	EnvDBName     = "ROMS_DB_NAME"
	EnvRedisURL   = "ROMS_REDIS_URL"
	EnvJWTSecret  = "ROMS_JWT_SECRET"
	EnvJWTIssuer  = "ROMS_JWT_ISSUER"
	EnvJWTExpMins = "ROMS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Workflow     WorkflowConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"ROMS_APP_ENV" required:"true"`
	Port         string `envconfig:"ROMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ROMS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ROMS_DB_DSN"`
	Driver string `envconfig:"ROMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROMS_DB_HOST"`
	LegacyPort     int    `envconfig:"ROMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROMS_DB_USER"`
	LegacyPassword string `envconfig:"ROMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROMS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROMS_REDIS_ADDR"`
	Password     string        `envconfig:"ROMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ROMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ROMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ROMS_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// WorkflowConfig tunes the guard predicates of the candidate pipeline.
type WorkflowConfig struct {
	PassportMinValidityMonths int `envconfig:"ROMS_PASSPORT_MIN_VALIDITY_MONTHS" default:"6"`
	ExpiryWarningDays         int `envconfig:"ROMS_EXPIRY_WARNING_DAYS" default:"90"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"ROMS_CRON_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROMS_AUTO_MIGRATE" default:"false"`
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
