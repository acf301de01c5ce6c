package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Usage backends.
const (
	UsageBackendMemory   = "memory"
	UsageBackendRedis    = "redis"
	UsageBackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Generator GeneratorConfig
	Scheduler SchedulerConfig
	Scraper   ScraperConfig
	Usage     UsageConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GeneratorConfig configures the hosted schedule generator.
type GeneratorConfig struct {
	APIKey      string
	Model       string
	CallTimeout time.Duration
}

// SchedulerConfig bounds the retry loop and the spacing rule.
type SchedulerConfig struct {
	MaxAttempts   int
	MinGapMinutes int
}

// ScraperConfig points at the registration timetable.
type ScraperConfig struct {
	BaseURL         string
	Campus          string
	Timeout         time.Duration
	CacheEnabled    bool
	SectionCacheTTL time.Duration
}

// UsageConfig selects where token totals and the run log are kept.
type UsageConfig struct {
	Backend       string
	RedisKey      string
	RunLogEnabled bool
}

// NeedsDatabase reports whether any component persists to postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Usage.Backend == UsageBackendPostgres || c.Usage.RunLogEnabled
}

// NeedsRedis reports whether any component uses redis.
func (c *Config) NeedsRedis() bool {
	return c.Usage.Backend == UsageBackendRedis || c.Scraper.CacheEnabled
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Generator = GeneratorConfig{
		APIKey:      v.GetString("GEMINI_API_KEY"),
		Model:       v.GetString("GEMINI_MODEL"),
		CallTimeout: parseDuration(v.GetString("GENERATOR_TIMEOUT"), 90*time.Second),
	}

	cfg.Scheduler = SchedulerConfig{
		MaxAttempts:   positiveOr(v.GetInt("SCHEDULER_MAX_ATTEMPTS"), 5),
		MinGapMinutes: positiveOr(v.GetInt("SCHEDULER_MIN_GAP_MINUTES"), 5),
	}

	cfg.Scraper = ScraperConfig{
		BaseURL:         v.GetString("SCRAPER_BASE_URL"),
		Campus:          v.GetString("SCRAPER_CAMPUS"),
		Timeout:         parseDuration(v.GetString("SCRAPER_TIMEOUT"), 20*time.Second),
		CacheEnabled:    v.GetBool("ENABLE_SECTION_CACHE"),
		SectionCacheTTL: parseDuration(v.GetString("SECTIONS_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Usage = UsageConfig{
		Backend:       strings.ToLower(v.GetString("USAGE_BACKEND")),
		RedisKey:      v.GetString("USAGE_REDIS_KEY"),
		RunLogEnabled: v.GetBool("ENABLE_RUN_LOG"),
	}
	switch cfg.Usage.Backend {
	case UsageBackendMemory, UsageBackendRedis, UsageBackendPostgres:
	default:
		return nil, errors.New("USAGE_BACKEND must be one of memory, redis, postgres")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "unischeduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
	v.SetDefault("GENERATOR_TIMEOUT", "90s")

	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", 5)
	v.SetDefault("SCHEDULER_MIN_GAP_MINUTES", 5)

	v.SetDefault("SCRAPER_BASE_URL", "https://selfservice.banner.vt.edu/ssb/HZSKVTSC.P_ProcRequest")
	v.SetDefault("SCRAPER_CAMPUS", "0")
	v.SetDefault("SCRAPER_TIMEOUT", "20s")
	v.SetDefault("ENABLE_SECTION_CACHE", false)
	v.SetDefault("SECTIONS_CACHE_TTL", "15m")

	v.SetDefault("USAGE_BACKEND", UsageBackendMemory)
	v.SetDefault("USAGE_REDIS_KEY", "usage:total_tokens")
	v.SetDefault("ENABLE_RUN_LOG", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
