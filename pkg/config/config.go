package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "PARTSHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PARTSHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTSHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTSHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTSHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PARTSHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"PARTSHUB_DB_DSN"`

	Host     string `envconfig:"PARTSHUB_DB_HOST"`
	Port     int    `envconfig:"PARTSHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"PARTSHUB_DB_USER"`
	Password string `envconfig:"PARTSHUB_DB_PASSWORD"`
	Name     string `envconfig:"PARTSHUB_DB_NAME"`
	SSLMode  string `envconfig:"PARTSHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTSHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTSHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTSHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTSHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"PARTSHUB_DB_HOST": db.Host,
		"PARTSHUB_DB_USER": db.User,
		"PARTSHUB_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database configuration incomplete: set PARTSHUB_DB_DSN or %s", strings.Join(missing, ", "))
	}

	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.User),
		url.QueryEscape(db.Password),
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTSHUB_REDIS_URL"`
	Address      string        `envconfig:"PARTSHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PARTSHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTSHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTSHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTSHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTSHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTSHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTSHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PricingConfig struct {
	// Currency is the single system currency applied to every resolved price.
	Currency string `envconfig:"PARTSHUB_PRICING_CURRENCY" default:"USD"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARTSHUB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PARTSHUB_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"PARTSHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"PARTSHUB_PUBSUB_ORDERS_TOPIC" default:"ph-order-events"`
	OrdersSubscription string `envconfig:"PARTSHUB_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PARTSHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PARTSHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PARTSHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}
