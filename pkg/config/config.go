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
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	Search       SearchConfig
	Quotes       QuotesConfig
	Supabase     SupabaseConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.needsDatabase() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// needsDatabase reports whether any configured component reads or writes the own database.
func (c Config) needsDatabase() bool {
	return c.Catalog.Source == CatalogSourceDatabase ||
		c.Quotes.Backend == QuoteBackendDatabase ||
		c.DB.DSN != "" || c.DB.LegacyHost != ""
}

func (c Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceStatic, CatalogSourceDatabase, CatalogSourceRemote:
	default:
		return fmt.Errorf("%s must be one of static, database, remote (got %q)", EnvCatalogSource, c.Catalog.Source)
	}
	switch c.Quotes.Backend {
	case QuoteBackendRPC, QuoteBackendOrders, QuoteBackendDatabase:
	default:
		return fmt.Errorf("%s must be one of rpc, orders, database (got %q)", EnvQuotesBackend, c.Quotes.Backend)
	}
	if c.Catalog.Source == CatalogSourceRemote || c.Quotes.Backend != QuoteBackendDatabase {
		if strings.TrimSpace(c.Supabase.URL) == "" {
			return fmt.Errorf("%s is required for the configured catalog source or quote backend", EnvSupabaseURL)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"ASESFY_APP_ENV" required:"true"`
	Port         string `envconfig:"ASESFY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ASESFY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASESFY_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"ASESFY_CORS_ALLOWED_ORIGINS" default:"*"`
	// GlobalRateLimit caps requests per minute per client IP across the whole API; 0 disables it.
	GlobalRateLimit int `envconfig:"ASESFY_GLOBAL_RATE_LIMIT_PER_MINUTE" default:"300"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	return splitList(a.CORSOrigins)
}

type DBConfig struct {
	DSN    string `envconfig:"ASESFY_DB_DSN"`
	Driver string `envconfig:"ASESFY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ASESFY_DB_HOST"`
	LegacyPort     int    `envconfig:"ASESFY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ASESFY_DB_USER"`
	LegacyPassword string `envconfig:"ASESFY_DB_PASSWORD"`
	LegacyName     string `envconfig:"ASESFY_DB_NAME"`
	LegacySSLMode  string `envconfig:"ASESFY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ASESFY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASESFY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASESFY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASESFY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"ASESFY_DB_SLOW_QUERY" default:"200ms"`
}

// Enabled reports whether a database connection has been configured.
func (db DBConfig) Enabled() bool {
	return strings.TrimSpace(db.DSN) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"ASESFY_REDIS_URL"`
	Address      string        `envconfig:"ASESFY_REDIS_ADDR"`
	Password     string        `envconfig:"ASESFY_REDIS_PASSWORD"`
	DB           int           `envconfig:"ASESFY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ASESFY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ASESFY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ASESFY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ASESFY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ASESFY_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"ASESFY_REDIS_KEY_PREFIX" default:"asesfy"`
}

// Enabled reports whether Redis has been configured. Redis is optional; without it the
// idempotency, rate limit and catalog cache layers are skipped.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CatalogConfig struct {
	Source   string        `envconfig:"ASESFY_CATALOG_SOURCE" default:"static"`
	CacheTTL time.Duration `envconfig:"ASESFY_CATALOG_CACHE_TTL" default:"10m"`
}

type CartConfig struct {
	IdleTTL      time.Duration `envconfig:"ASESFY_CART_IDLE_TTL" default:"2h"`
	CookieName   string        `envconfig:"ASESFY_CART_COOKIE_NAME" default:"cart_session"`
	CookieSecure bool          `envconfig:"ASESFY_CART_COOKIE_SECURE" default:"false"`
}

// SessionCookie is the cookie carrying the cart session id.
func (c CartConfig) SessionCookie() string {
	if name := strings.TrimSpace(c.CookieName); name != "" {
		return name
	}
	return "cart_session"
}

type SearchConfig struct {
	DebounceMS int `envconfig:"ASESFY_SEARCH_DEBOUNCE_MS" default:"300"`
}

// Debounce returns the configured search quiet period.
func (s SearchConfig) Debounce() time.Duration {
	if s.DebounceMS <= 0 {
		return 0
	}
	return time.Duration(s.DebounceMS) * time.Millisecond
}

type QuotesConfig struct {
	Backend         string        `envconfig:"ASESFY_QUOTES_BACKEND" default:"rpc"`
	SuccessDisplay  time.Duration `envconfig:"ASESFY_QUOTES_SUCCESS_DISPLAY" default:"3s"`
	IdempotencyTTL  time.Duration `envconfig:"ASESFY_QUOTES_IDEMPOTENCY_TTL" default:"24h"`
	RateLimitWindow time.Duration `envconfig:"ASESFY_QUOTES_RATE_LIMIT_WINDOW" default:"10m"`
	RateLimitIP     int           `envconfig:"ASESFY_QUOTES_RATE_LIMIT_IP_LIMIT" default:"20"`
	RateLimitEmail  int           `envconfig:"ASESFY_QUOTES_RATE_LIMIT_EMAIL_LIMIT" default:"5"`
}

type SupabaseConfig struct {
	URL           string        `envconfig:"ASESFY_SUPABASE_URL"`
	AnonKey       string        `envconfig:"ASESFY_SUPABASE_ANON_KEY"`
	RPCFunction   string        `envconfig:"ASESFY_SUPABASE_QUOTE_RPC" default:"submit_quote_request"`
	OrdersTable   string        `envconfig:"ASESFY_SUPABASE_ORDERS_TABLE" default:"orders"`
	ServicesTable string        `envconfig:"ASESFY_SUPABASE_SERVICES_TABLE" default:"services"`
	Timeout       time.Duration `envconfig:"ASESFY_SUPABASE_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ASESFY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ASESFY_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	QuotesTopic string `envconfig:"ASESFY_PUBSUB_QUOTES_TOPIC" default:"asesfy-quote-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ASESFY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ASESFY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ASESFY_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MaintenanceConfig struct {
	Interval        time.Duration `envconfig:"ASESFY_MAINTENANCE_INTERVAL" default:"24h"`
	LockTTL         time.Duration `envconfig:"ASESFY_MAINTENANCE_LOCK_TTL" default:"1h"`
	OutboxRetention time.Duration `envconfig:"ASESFY_MAINTENANCE_OUTBOX_RETENTION" default:"720h"`
	DLQRetention    time.Duration `envconfig:"ASESFY_MAINTENANCE_DLQ_RETENTION" default:"2160h"`
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

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
