package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTokenTTL is how long session tokens live unless JWT_TOKEN_TTL says otherwise
const DefaultTokenTTL = 12 * time.Hour

// Config holds all configuration for the application
type Config struct {
	PostgreSQL  PostgreSQLConfig
	Server      ServerConfig
	Search      SearchConfig
	Interpreter InterpreterConfig
	Heuristic   HeuristicConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Audit       AuditConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the parts below
	Driver             string // "postgres" (lib/pq) or "pgx"
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MigrateOnStart     bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	DefaultSort  string
	// UseMemoryStore serves the seed corpus instead of PostgreSQL
	UseMemoryStore bool
}

// InterpreterConfig holds the natural-language interpreter configuration
type InterpreterConfig struct {
	Provider    string // "http" or "langchain"
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	MaxTokens   int
	ExtraBody   string // JSON string merged into the request as extra_body
	Timeout     time.Duration
	MaxRetries  int
	RatePerSec  float64
	RateBurst   int
	Enabled     bool
}

// HeuristicConfig holds heuristic extractor configuration
type HeuristicConfig struct {
	ExtraLocations []string
}

// CacheConfig holds listing snapshot cache configuration
type CacheConfig struct {
	Enabled       bool
	LocalTTL      time.Duration
	LocalMaxSize  int64
	MemcacheHosts []string
	MemcacheTTL   time.Duration
}

// RedisConfig holds the reveal ledger Redis configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	RevealTTL time.Duration
}

// AuditConfig holds contact disclosure audit configuration
type AuditConfig struct {
	AMQPURL  string
	Queue    string
	PoolSize int
}

// AuthConfig holds JWT configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	RequestsPerMinute int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Driver:             getEnv("PG_DRIVER", "postgres"),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "estate"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			MigrateOnStart:     getEnvAsBool("PG_MIGRATE_ON_START", false),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Session-ID"),
		},
		Search: SearchConfig{
			DefaultLimit:   getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:       getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			DefaultSort:    getEnv("SEARCH_DEFAULT_SORT", "newest"),
			UseMemoryStore: getEnvAsBool("SEARCH_MEMORY_STORE", false),
		},
		Interpreter: InterpreterConfig{
			Provider:    getEnv("INTERPRETER_PROVIDER", "http"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     strings.TrimRight(getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			Model:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 512),
			ExtraBody:   getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			Timeout:     getEnvAsDuration("INTERPRETER_TIMEOUT", 12*time.Second),
			MaxRetries:  getEnvAsInt("INTERPRETER_MAX_RETRIES", 1),
			RatePerSec:  getEnvAsFloat("INTERPRETER_RATE_PER_SEC", 2),
			RateBurst:   getEnvAsInt("INTERPRETER_RATE_BURST", 4),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "" && getEnvAsBool("INTERPRETER_ENABLED", true),
		},
		Heuristic: HeuristicConfig{
			ExtraLocations: getEnvAsList("HEURISTIC_EXTRA_LOCATIONS"),
		},
		Cache: CacheConfig{
			Enabled:       getEnvAsBool("CACHE_ENABLED", true),
			LocalTTL:      getEnvAsDuration("CACHE_LOCAL_TTL", 30*time.Second),
			LocalMaxSize:  int64(getEnvAsInt("CACHE_LOCAL_MAX_SIZE", 256)),
			MemcacheHosts: getEnvAsList("MEMCACHE_HOSTS"),
			MemcacheTTL:   getEnvAsDuration("MEMCACHE_TTL", 2*time.Minute),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			RevealTTL: getEnvAsDuration("REVEAL_SESSION_TTL", 24*time.Hour),
		},
		Audit: AuditConfig{
			AMQPURL:  getEnv("AUDIT_AMQP_URL", ""),
			Queue:    getEnv("AUDIT_QUEUE", "contact_disclosed"),
			PoolSize: getEnvAsInt("AUDIT_POOL_SIZE", 16),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TOKEN_TTL", DefaultTokenTTL),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.PostgreSQL.Driver != "postgres" && cfg.PostgreSQL.Driver != "pgx" {
		return nil, fmt.Errorf("unsupported PG_DRIVER %q (want postgres or pgx)", cfg.PostgreSQL.Driver)
	}

	return cfg, nil
}

// RequireAuth reports an error when the server cannot sign session tokens
func (c *Config) RequireAuth() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
	if c.PostgreSQL.Driver == "pgx" {
		// pgbouncer in transaction mode cannot hold prepared statements
		dsn += " default_query_exec_mode=simple_protocol"
	}
	return dsn
}

// DebugEnabled reports whether [DEBUG] logging is on
func (c *Config) DebugEnabled() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
