// Package config loads the API settings from the environment. Every setting
// has a default; Load normalizes keywords and then validates the whole set,
// naming each offending variable in the error.
package config

import (
	"strings"
	"time"
	_ "time/tzdata" // FEATURED_TZ must resolve on minimal images

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS, comma separated
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool          // ENABLE_HSTS
	HSTSMaxAge time.Duration // HSTS_MAX_AGE
}

// OTELConfig configures trace export.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG
}

// DBConfig selects the SQL backend.
type DBConfig struct {
	Driver string // DB_DRIVER: sqlite|postgres
	Path   string // DB_PATH (sqlite)
	URL    string // DATABASE_URL (postgres)
	LogSQL bool   // DB_LOG_SQL
}

// ViewerConfig selects where per-viewer seen-sets live.
type ViewerConfig struct {
	Store         string        // VIEWER_STORE: memory|redis
	TTL           time.Duration // VIEWER_TTL
	CookieSecure  bool          // VIEWER_COOKIE_SECURE
	RedisAddr     string        // REDIS_ADDR
	RedisPassword string        // REDIS_PASSWORD
	RedisDB       int           // REDIS_DB
}

// Config is the full process configuration.
type Config struct {
	// HTTP server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64 // request body limit for writes
	GinMode           string

	LogLevel       string
	LogPretty      bool
	LogRedact      bool // scrub personal data from access logs
	SwaggerEnabled bool
	APIBasePath    string

	DB     DBConfig
	Viewer ViewerConfig

	// Listings and the featured poem
	PageSize      int
	MaxPageSize   int
	LatestLimit   int // default n for /poems/latest
	LatestMax     int
	ThemeDelete   string
	FeaturedTZ    string // IANA zone deciding where a featured day begins
	FeaturedRetry int    // re-reads after losing a featured-day race

	AdminAPIKey string // write routes are mounted only when set

	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// MustLoad is Load for process start-up; it panics on invalid settings.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, normalizes keyword values and validates the
// result. The returned Config is populated even when validation fails.
func Load() (Config, error) {
	cfg := Config{
		Port:              envStr("PORT", "8080"),
		ReadTimeout:       envDur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: envDur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      envDur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       envDur("IDLE_TIMEOUT", time.Minute),
		MaxHeaderBytes:    envInt("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(envInt("MAX_BODY_BYTES", 1<<20)),
		GinMode:           envLower("GIN_MODE", "release"),

		LogLevel:       envLower("LOG_LEVEL", "info"),
		LogPretty:      envBool("LOG_PRETTY", false),
		LogRedact:      envBool("LOG_REDACT", true),
		SwaggerEnabled: envBool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(envStr("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: envLower("DB_DRIVER", "sqlite"),
			Path:   envStr("DB_PATH", "poetry.db"),
			URL:    envStr("DATABASE_URL", ""),
			LogSQL: envBool("DB_LOG_SQL", false),
		},
		Viewer: ViewerConfig{
			Store:         envLower("VIEWER_STORE", "memory"),
			TTL:           envDur("VIEWER_TTL", 30*24*time.Hour),
			CookieSecure:  envBool("VIEWER_COOKIE_SECURE", false),
			RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
			RedisPassword: envStr("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
		},

		PageSize:      envInt("PAGE_SIZE", 21),
		MaxPageSize:   envInt("MAX_PAGE_SIZE", 100),
		LatestLimit:   envInt("LATEST_LIMIT", 9),
		LatestMax:     envInt("LATEST_MAX", 100),
		ThemeDelete:   envLower("THEME_DELETE_POLICY", "set_null"),
		FeaturedTZ:    envStr("FEATURED_TZ", "UTC"),
		FeaturedRetry: envInt("FEATURED_RETRIES", 3),

		AdminAPIKey: strings.TrimSpace(envStr("ADMIN_API_KEY", "")),

		RateRPS:   envFloat("RATE_RPS", 10),
		RateBurst: envInt("RATE_BURST", 20),

		CORS: CORSConfig{AllowedOrigins: splitCSV(envStr("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: envBool("ENABLE_HSTS", false),
			HSTSMaxAge: envDur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: envDur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			Endpoint:    envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: envStr("OTEL_SERVICE_NAME", "go-poetry-api"),
			SampleRatio: envFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

// normalize maps accepted aliases onto their canonical spelling.
func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		c.GinMode = "release"
	}
	if c.DB.Driver == "postgresql" {
		c.DB.Driver = "postgres"
	}
	c.ThemeDelete = strings.ReplaceAll(c.ThemeDelete, "-", "_")
}

// Validate reports every invalid setting, keyed by its variable name.
func (c Config) Validate() error {
	positive := []validation.Rule{validation.Required, validation.Min(time.Nanosecond)}
	sqlite, postgres := c.DB.Driver == "sqlite", c.DB.Driver == "postgres"

	return validation.Errors{
		"LOG_LEVEL": validation.Validate(c.LogLevel,
			validation.In("debug", "info", "warn", "error", "fatal", "panic")),
		"PORT":                validation.Validate(strings.TrimSpace(c.Port), validation.Required),
		"READ_TIMEOUT":        validation.Validate(c.ReadTimeout, positive...),
		"READ_HEADER_TIMEOUT": validation.Validate(c.ReadHeaderTimeout, positive...),
		"WRITE_TIMEOUT":       validation.Validate(c.WriteTimeout, positive...),
		"IDLE_TIMEOUT":        validation.Validate(c.IdleTimeout, positive...),
		"MAX_HEADER_BYTES":    validation.Validate(c.MaxHeaderBytes, validation.Required, validation.Min(1)),
		"MAX_BODY_BYTES":      validation.Validate(c.MaxBodyBytes, validation.Required, validation.Min(int64(1))),

		"DB_DRIVER": validation.Validate(c.DB.Driver, validation.In("sqlite", "postgres")),
		"DB_PATH": validation.Validate(strings.TrimSpace(c.DB.Path),
			validation.When(sqlite, validation.Required)),
		"DATABASE_URL": validation.Validate(strings.TrimSpace(c.DB.URL),
			validation.When(postgres, validation.Required.Error("is required when DB_DRIVER=postgres"))),

		"VIEWER_STORE": validation.Validate(c.Viewer.Store, validation.In("memory", "redis")),
		"REDIS_ADDR": validation.Validate(strings.TrimSpace(c.Viewer.RedisAddr),
			validation.When(c.Viewer.Store == "redis", validation.Required)),
		"VIEWER_TTL": validation.Validate(c.Viewer.TTL, positive...),

		"PAGE_SIZE": validation.Validate(c.PageSize,
			validation.Required, validation.Min(1), validation.Max(c.MaxPageSize)),
		"LATEST_LIMIT": validation.Validate(c.LatestLimit,
			validation.Required, validation.Min(1), validation.Max(c.LatestMax)),
		"THEME_DELETE_POLICY": validation.Validate(c.ThemeDelete,
			validation.In("restrict", "set_null", "cascade")),
		"FEATURED_TZ":      validation.Validate(c.FeaturedTZ, validation.By(ianaZone)),
		"FEATURED_RETRIES": validation.Validate(c.FeaturedRetry, validation.Min(0)),

		"RATE_RPS":        validation.Validate(c.RateRPS, validation.Min(0.0)),
		"RATE_BURST":      validation.Validate(c.RateBurst, validation.Required, validation.Min(1)),
		"HSTS_MAX_AGE":    validation.Validate(c.Security.HSTSMaxAge, validation.Min(time.Duration(0))),
		"IDEMPOTENCY_TTL": validation.Validate(c.IdempotencyTTL, positive...),

		"OTEL_TRACES_SAMPLER_ARG": validation.Validate(c.OTEL.SampleRatio,
			validation.Min(0.0), validation.Max(1.0)),
	}.Filter()
}

func ianaZone(v any) error {
	if _, err := time.LoadLocation(v.(string)); err != nil {
		return validation.NewError("validation_tz", "must be a valid IANA time zone")
	}
	return nil
}

// AdminEnabled reports whether write routes should be mounted.
func (c Config) AdminEnabled() bool { return c.AdminAPIKey != "" }

// FeaturedLocation returns the zone for featured days, UTC when invalid.
func (c Config) FeaturedLocation() *time.Location {
	loc, err := time.LoadLocation(c.FeaturedTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
