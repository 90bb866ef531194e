package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
	DriverMongo    = "mongo"
)

// Supported entry sources
const (
	SourceAPI     = "api"
	SourceFeed    = "feed"
	SourceSitemap = "sitemap"
	SourceFile    = "file"
)

// Config stores all configuration for the application.
type Config struct {
	APIURL string `mapstructure:"API_URL"`

	SourceKind     string `mapstructure:"SOURCE_KIND"`
	SourceLocation string `mapstructure:"SOURCE_LOCATION"`

	DBDriver           string `mapstructure:"DB_DRIVER"`
	DBPath             string `mapstructure:"DB_PATH"`
	PostgresDSN        string `mapstructure:"POSTGRES_DSN"`
	MongoURI           string `mapstructure:"MONGO_URI"`
	MongoDatabase      string `mapstructure:"MONGO_DATABASE"`
	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseKey        string `mapstructure:"SUPABASE_KEY"`
	SupabaseDBPassword string `mapstructure:"SUPABASE_DB_PASSWORD"`

	RedisAddr  string        `mapstructure:"REDIS_ADDR"`
	VisitedTTL time.Duration `mapstructure:"VISITED_TTL"`

	LogPath  string `mapstructure:"LOG_PATH"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MaxConcurrentScrapes int    `mapstructure:"MAX_CONCURRENT_SCRAPES"`
	ScrapeDelayMS        int    `mapstructure:"SCRAPE_DELAY_MS"`
	SyncSchedule         string `mapstructure:"SYNC_SCHEDULE"`
	FetchRetryAttempts   int    `mapstructure:"FETCH_RETRY_ATTEMPTS"`
	FetchDelayMS         int    `mapstructure:"FETCH_DELAY_MS"`

	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	TranscriptLang string        `mapstructure:"TRANSCRIPT_LANG"`
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`

	// Off by default: pages without block elements keep an empty fullContent
	ReadabilityFallback bool `mapstructure:"READABILITY_FALLBACK"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_URL", "https://open-source-content.xyz/v1")
	v.SetDefault("SOURCE_KIND", SourceAPI)
	v.SetDefault("SOURCE_LOCATION", "")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "data/content_database.sqlite")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "content_sync")
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_KEY", "")
	v.SetDefault("SUPABASE_DB_PASSWORD", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("VISITED_TTL", "24h")
	v.SetDefault("LOG_PATH", "logs/sync_logs.txt")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_CONCURRENT_SCRAPES", 3)
	v.SetDefault("SCRAPE_DELAY_MS", 1000)
	v.SetDefault("SYNC_SCHEDULE", "0 2 * * *")
	v.SetDefault("FETCH_RETRY_ATTEMPTS", 5)
	v.SetDefault("FETCH_DELAY_MS", 1000)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("TRANSCRIPT_LANG", "")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("READABILITY_FALLBACK", false)
}

// Load reads configuration from defaults, an optional config file, .env and
// the environment, in increasing order of precedence. An empty path looks for
// config.yaml in the working directory and tolerates its absence.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.MaxConcurrentScrapes <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_SCRAPES must be positive, got %d", c.MaxConcurrentScrapes)
	}
	if c.ScrapeDelayMS < 0 {
		return fmt.Errorf("SCRAPE_DELAY_MS must not be negative, got %d", c.ScrapeDelayMS)
	}
	if c.FetchDelayMS < 0 {
		return fmt.Errorf("FETCH_DELAY_MS must not be negative, got %d", c.FetchDelayMS)
	}
	if c.FetchRetryAttempts < 1 {
		return fmt.Errorf("FETCH_RETRY_ATTEMPTS must be at least 1, got %d", c.FetchRetryAttempts)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverSupabase, DriverMongo:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.SourceKind {
	case SourceAPI, SourceFeed, SourceSitemap, SourceFile:
	default:
		return fmt.Errorf("unknown SOURCE_KIND %q", c.SourceKind)
	}
	return nil
}

// ScrapeDelay is the pause between scrape batches.
func (c *Config) ScrapeDelay() time.Duration {
	return time.Duration(c.ScrapeDelayMS) * time.Millisecond
}

// FetchDelay is the pause between content API page requests.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.FetchDelayMS) * time.Millisecond
}
