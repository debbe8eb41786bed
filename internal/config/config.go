package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Translator TranslatorConfig `yaml:"translator"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// CatalogConfig holds settings for the external anime catalog (AniList GraphQL).
type CatalogConfig struct {
	URL       string        `yaml:"url"        env:"CATALOG_URL"        env-default:"https://graphql.anilist.co"`
	UserAgent string        `yaml:"user_agent" env:"CATALOG_USER_AGENT" env-default:"anikor-backend"`
	Timeout   time.Duration `yaml:"timeout"    env:"CATALOG_TIMEOUT"    env-default:"15s"`

	// Recommendation page ranges: the narrow range applies when a genre
	// filter or a non-default sort is active.
	RecommendMaxPage       int `yaml:"recommend_max_page"        env:"CATALOG_RECOMMEND_MAX_PAGE"        env-default:"20"`
	RecommendFilterMaxPage int `yaml:"recommend_filter_max_page" env:"CATALOG_RECOMMEND_FILTER_MAX_PAGE" env-default:"5"`

	BreakerFailures uint32        `yaml:"breaker_failures" env:"CATALOG_BREAKER_FAILURES" env-default:"5"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"  env:"CATALOG_BREAKER_TIMEOUT"  env-default:"30s"`
}

// TranslatorConfig holds settings for the translation model. An empty APIKey
// disables translation entirely: every call passes the source text through.
type TranslatorConfig struct {
	APIKey    string        `yaml:"api_key"    env:"TRANSLATOR_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"TRANSLATOR_BASE_URL"`
	Model     string        `yaml:"model"      env:"TRANSLATOR_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"TRANSLATOR_MAX_TOKENS" env-default:"2048"`
	Timeout   time.Duration `yaml:"timeout"    env:"TRANSLATOR_TIMEOUT"    env-default:"60s"`
}

// Enabled reports whether a model credential is configured.
func (c TranslatorConfig) Enabled() bool { return c.APIKey != "" }

// CacheConfig holds response cache settings for the HTTP layer.
type CacheConfig struct {
	PopularTTL time.Duration `yaml:"popular_ttl" env:"CACHE_POPULAR_TTL" env-default:"10m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
