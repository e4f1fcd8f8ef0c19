package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Submission SubmissionConfig `yaml:"submission"`
	Assistant  AssistantConfig  `yaml:"assistant"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Taxonomy   TaxonomyConfig   `yaml:"taxonomy"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"  env:"SERVER_METRICS_ENABLED"  env-default:"true"`
	// RateLimitPerMinute caps requests per client IP. Zero disables the limiter.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// AuthConfig holds settings for validating the identity provider's tokens.
// Token issuance happens outside this service.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"jyutlore-id"`
}

// SubmissionConfig holds submission workflow settings.
type SubmissionConfig struct {
	MaxExamplesPerEntry int `yaml:"max_examples_per_entry" env:"SUBMISSION_MAX_EXAMPLES"        env-default:"10"`
	MaxTextLength       int `yaml:"max_text_length"        env:"SUBMISSION_MAX_TEXT_LENGTH"     env-default:"200"`
	MaxDefinitionLength int `yaml:"max_definition_length"  env:"SUBMISSION_MAX_DEF_LENGTH"      env-default:"2000"`
	DuplicateLimit      int `yaml:"duplicate_limit"        env:"SUBMISSION_DUPLICATE_LIMIT"     env-default:"10"`
}

// AssistantConfig holds classification assistant (LLM) settings.
// A missing API key disables the assistant; submissions proceed manually.
type AssistantConfig struct {
	APIKey  string        `yaml:"api_key" env:"ASSISTANT_API_KEY"`
	Model   string        `yaml:"model"   env:"ASSISTANT_MODEL"   env-default:"claude-sonnet-4-5"`
	Timeout time.Duration `yaml:"timeout" env:"ASSISTANT_TIMEOUT" env-default:"8s"`
}

// Enabled reports whether the assistant adapter should be wired.
func (c AssistantConfig) Enabled() bool {
	return c.APIKey != ""
}

// NormalizerConfig holds settings for the external text normalizer.
// An empty base URL disables the remote call; text passes through unnormalized.
type NormalizerConfig struct {
	BaseURL string        `yaml:"base_url" env:"NORMALIZER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"NORMALIZER_TIMEOUT" env-default:"3s"`
}

// TaxonomyConfig holds taxonomy index cache settings.
type TaxonomyConfig struct {
	CacheTTL     time.Duration `yaml:"cache_ttl"     env:"TAXONOMY_CACHE_TTL"     env-default:"10m"`
	CacheCleanup time.Duration `yaml:"cache_cleanup" env:"TAXONOMY_CACHE_CLEANUP" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
