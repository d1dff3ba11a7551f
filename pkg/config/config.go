package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Messaging
	Kafka KafkaConfig

	// External services
	Services ServicesConfig

	// Underwriting policy
	Underwriting UnderwritingConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring (/metrics on the API port)
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// golang-migrate source URL
	MigrationsPath string
}

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	QuoteTopic string
}

// ServicesConfig holds collaborator service endpoints
type ServicesConfig struct {
	MemberServiceURL  string // 채무 조회 (debt check)
	ProductPricingURL string // 계약 상태 조회 (agreement lookup)
	PriceEngineURL    string // 가격 엔진
	Timeout           time.Duration
	RateLimitRPS      int
}

// UnderwritingConfig holds underwriting policy switches
type UnderwritingConfig struct {
	QuoteStore string // postgres, memory

	BlockRequotingMode string // off, shadow, enforce
	BlockCheckFailOpen bool
	PriceReuseFailOpen bool
	DebtCheckFailOpen  bool

	PriceStabilityWindow time.Duration
	QuoteValidity        time.Duration
	GuidelinesFile       string

	ExpiredQuotesSchedule string // cron (with seconds)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "underwriter"),
			User:            getEnv("DB_USER", "underwriter"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "file://migrations"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Messaging
		Kafka: KafkaConfig{
			Enabled:    getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:    getEnvAsList("KAFKA_BROKERS", "localhost:9092"),
			QuoteTopic: getEnv("KAFKA_QUOTE_TOPIC", "underwriter.quote-created"),
		},

		// External services
		Services: ServicesConfig{
			MemberServiceURL:  getEnv("MEMBER_SERVICE_URL", "http://member-service"),
			ProductPricingURL: getEnv("PRODUCT_PRICING_URL", "http://product-pricing"),
			PriceEngineURL:    getEnv("PRICE_ENGINE_URL", "http://price-engine"),
			Timeout:           getEnvAsDuration("EXTERNAL_TIMEOUT", "10s"),
			RateLimitRPS:      getEnvAsInt("EXTERNAL_RATE_LIMIT_RPS", 20),
		},

		// Underwriting policy
		Underwriting: UnderwritingConfig{
			QuoteStore:            getEnv("QUOTE_STORE", "postgres"),
			BlockRequotingMode:    getEnv("BLOCK_REQUOTING_MODE", "shadow"),
			BlockCheckFailOpen:    getEnvAsBool("BLOCK_CHECK_FAIL_OPEN", true),
			PriceReuseFailOpen:    getEnvAsBool("PRICE_REUSE_FAIL_OPEN", true),
			DebtCheckFailOpen:     getEnvAsBool("DEBT_CHECK_FAIL_OPEN", true),
			PriceStabilityWindow:  getEnvAsDuration("PRICE_STABILITY_WINDOW", "720h"),
			QuoteValidity:         getEnvAsDuration("QUOTE_VALIDITY", "720h"),
			GuidelinesFile:        getEnv("GUIDELINES_FILE", ""),
			ExpiredQuotesSchedule: getEnv("EXPIRED_QUOTES_SCHEDULE", "0 */15 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required unless quotes are kept in memory
	switch c.Underwriting.QuoteStore {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case "memory":
	default:
		return fmt.Errorf("QUOTE_STORE must be one of: postgres, memory")
	}

	switch c.Underwriting.BlockRequotingMode {
	case "off", "shadow", "enforce":
	default:
		return fmt.Errorf("BLOCK_REQUOTING_MODE must be one of: off, shadow, enforce")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.Underwriting.PriceStabilityWindow <= 0 {
		return fmt.Errorf("PRICE_STABILITY_WINDOW must be positive")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",        // Current directory
		"config/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
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
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := getEnv(key, defaultValue)

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
