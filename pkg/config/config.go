package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	Remote       RemoteConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Remote.Backend == RemoteBackendSQL {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TACO_APP_ENV" required:"true"`
	Port         string `envconfig:"TACO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TACO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TACO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TACO_SERVICE_KIND" default:"api"`
}

// RemoteConfig selects and tunes the remote record store backend.
type RemoteConfig struct {
	Backend string        `envconfig:"TACO_REMOTE_BACKEND" default:"rest"`
	BaseURL string        `envconfig:"TACO_REMOTE_BASE_URL"`
	APIKey  string        `envconfig:"TACO_REMOTE_API_KEY"`
	Timeout time.Duration `envconfig:"TACO_REMOTE_TIMEOUT" default:"10s"`
}

// StorageConfig tunes blob uploads against the remote storage API.
type StorageConfig struct {
	Bucket        string        `envconfig:"TACO_STORAGE_BUCKET" default:"images"`
	UploadTimeout time.Duration `envconfig:"TACO_STORAGE_UPLOAD_TIMEOUT" default:"30s"`
}

type DBConfig struct {
	DSN    string `envconfig:"TACO_DB_DSN"`
	Driver string `envconfig:"TACO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TACO_DB_HOST"`
	LegacyPort     int    `envconfig:"TACO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TACO_DB_USER"`
	LegacyPassword string `envconfig:"TACO_DB_PASSWORD"`
	LegacyName     string `envconfig:"TACO_DB_NAME"`
	LegacySSLMode  string `envconfig:"TACO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TACO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TACO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TACO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TACO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TACO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TACO_REDIS_ADDR"`
	Password     string        `envconfig:"TACO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TACO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TACO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TACO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TACO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TACO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TACO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig tunes the local catalog cache.
type CacheConfig struct {
	DebounceInterval time.Duration `envconfig:"TACO_CACHE_DEBOUNCE_INTERVAL" default:"300ms"`
	ChangeChannel    string        `envconfig:"TACO_CACHE_CHANGE_CHANNEL" default:"taco:cache:changed"`
}

// SyncConfig tunes catalog reconciliation.
type SyncConfig struct {
	StalenessThreshold time.Duration `envconfig:"TACO_SYNC_STALENESS_THRESHOLD" default:"5m"`
	Interval           time.Duration `envconfig:"TACO_SYNC_INTERVAL" default:"15m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TACO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TACO_AUTO_MIGRATE" default:"false"`
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
