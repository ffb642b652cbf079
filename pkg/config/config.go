package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "CATALOG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Uploads  UploadsConfig
	Sheets   SheetsConfig
	Cart     CartConfig
	Orders   OrdersConfig
	AutoSync AutoSyncConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" default:"dev"`
	Port         string `envconfig:"CATALOG_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path            string        `envconfig:"CATALOG_DB_PATH" default:"database.sqlite"`
	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// RedisConfig wires the best-effort cart mirror. URL empty means the mirror is
// disabled and cart mutations only touch the primary store.
type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type AdminConfig struct {
	Passphrase string `envconfig:"CATALOG_ADMIN_PASSPHRASE" required:"true"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"CATALOG_UPLOADS_DIR" default:"uploads"`
	MaxVideoMB  int64  `envconfig:"CATALOG_UPLOADS_MAX_VIDEO_MB" default:"500"`
	MaxSheetMB  int64  `envconfig:"CATALOG_UPLOADS_MAX_SHEET_MB" default:"20"`
	PublicRoute string `envconfig:"CATALOG_UPLOADS_PUBLIC_ROUTE" default:"/uploads"`
}

type SheetsConfig struct {
	FetchTimeout time.Duration `envconfig:"CATALOG_SHEETS_FETCH_TIMEOUT" default:"30s"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"CATALOG_CART_TTL" default:"24h"`
}

type OrdersConfig struct {
	StartID    int64 `envconfig:"CATALOG_ORDERS_START_ID" default:"1000"`
	HistoryCap int   `envconfig:"CATALOG_ORDERS_HISTORY_CAP" default:"50"`
}

type AutoSyncConfig struct {
	Interval time.Duration `envconfig:"CATALOG_AUTOSYNC_INTERVAL" default:"5m"`
}
