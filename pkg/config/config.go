package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "LABSTOCK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Import       ImportConfig
	FeatureFlags FeatureFlagsConfig
	Worker       WorkerConfig
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
	Env          string `envconfig:"LABSTOCK_APP_ENV" default:"dev"`
	Port         string `envconfig:"LABSTOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LABSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LABSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LABSTOCK_DB_DSN"`
	Driver string `envconfig:"LABSTOCK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LABSTOCK_DB_HOST"`
	Port     int    `envconfig:"LABSTOCK_DB_PORT" default:"5432"`
	User     string `envconfig:"LABSTOCK_DB_USER"`
	Password string `envconfig:"LABSTOCK_DB_PASSWORD"`
	Name     string `envconfig:"LABSTOCK_DB_NAME"`
	SSLMode  string `envconfig:"LABSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LABSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LABSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LABSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LABSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either LABSTOCK_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"LABSTOCK_REDIS_URL"`
	Address      string        `envconfig:"LABSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"LABSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LABSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LABSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LABSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LABSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LABSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LABSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API can
// run without redis; idempotency capture and the redis rate-limit backend are
// skipped when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"LABSTOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LABSTOCK_JWT_ISSUER" default:"labstock"`
	ExpirationMinutes int    `envconfig:"LABSTOCK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// RateLimitConfig throttles the stock-transaction surface per acting user.
type RateLimitConfig struct {
	Backend     string        `envconfig:"LABSTOCK_RATE_LIMIT_BACKEND" default:"memory"`
	StockWindow time.Duration `envconfig:"LABSTOCK_RATE_LIMIT_STOCK_WINDOW" default:"1m"`
	StockLimit  int           `envconfig:"LABSTOCK_RATE_LIMIT_STOCK_LIMIT" default:"100"`
}

func (r RateLimitConfig) UseRedis() bool {
	return strings.EqualFold(r.Backend, "redis")
}

type ImportConfig struct {
	MaxRows        int   `envconfig:"LABSTOCK_IMPORT_MAX_ROWS" default:"5000"`
	MaxUploadBytes int64 `envconfig:"LABSTOCK_IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LABSTOCK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LABSTOCK_AUTO_MIGRATE" default:"false"`
}

type WorkerConfig struct {
	LowStockInterval time.Duration `envconfig:"LABSTOCK_WORKER_LOW_STOCK_INTERVAL" default:"1h"`
	ExpiryWindowDays int           `envconfig:"LABSTOCK_WORKER_EXPIRY_WINDOW_DAYS" default:"30"`
}
