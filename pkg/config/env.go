package config

const EnvPrefix = "ASESFY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CatalogSourceStatic   = "static"
	CatalogSourceDatabase = "database"
	CatalogSourceRemote   = "remote"
)

const (
	QuoteBackendRPC      = "rpc"
	QuoteBackendOrders   = "orders"
	QuoteBackendDatabase = "database"
)

const (
	EnvAppEnv   = "ASESFY_APP_ENV"
	EnvPort     = "ASESFY_APP_PORT"
	EnvLogLevel = "ASESFY_LOG_LEVEL"

	EnvDBDSN    = "ASESFY_DB_DSN"
	EnvDBDriver = "ASESFY_DB_DRIVER"
	EnvDBHost   = "ASESFY_DB_HOST"
	EnvDBUser   = "ASESFY_DB_USER"
	EnvDBName   = "ASESFY_DB_NAME"

	EnvRedisURL = "ASESFY_REDIS_URL"

	EnvCatalogSource   = "ASESFY_CATALOG_SOURCE"
	EnvCatalogCacheTTL = "ASESFY_CATALOG_CACHE_TTL"

	EnvQuotesBackend        = "ASESFY_QUOTES_BACKEND"
	EnvQuotesSuccessDisplay = "ASESFY_QUOTES_SUCCESS_DISPLAY"

	EnvSupabaseURL     = "ASESFY_SUPABASE_URL"
	EnvSupabaseAnonKey = "ASESFY_SUPABASE_ANON_KEY"

	EnvSearchDebounceMS = "ASESFY_SEARCH_DEBOUNCE_MS"

	EnvGCPProjectID      = "ASESFY_GCP_PROJECT_ID"
	EnvPubSubQuotesTopic = "ASESFY_PUBSUB_QUOTES_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
