package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Agent    AgentConfig
	Server   ServerConfig
	Account  AccountConfig
	Fetcher  FetcherConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

// AgentConfig configures the background coordinator daemon.
type AgentConfig struct {
	Port            string
	Host            string
	NotificationTTL time.Duration
}

// ServerConfig configures the account service HTTP server.
type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AccountConfig points the import transport at the account service.
type AccountConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FetcherConfig controls how product pages are retrieved.
type FetcherConfig struct {
	Rendered     bool // use a headless browser instead of plain HTTP
	Timeout      time.Duration
	MaxRetries   int
	RequestDelay time.Duration
	UserAgents   []string
}

// StorageConfig selects where the agent persists session and recent
// imports: "file" or "redis".
type StorageConfig struct {
	Type      string
	FilePath  string
	RedisAddr string
	RedisDB   int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Agent: AgentConfig{
			Port:            getEnvOrDefault("AGENT_PORT", "7300"),
			Host:            getEnvOrDefault("AGENT_HOST", "127.0.0.1"),
			NotificationTTL: getDurationOrDefault("AGENT_NOTIFICATION_TTL", 5*time.Second),
		},
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Account: AccountConfig{
			BaseURL: getEnvOrDefault("ACCOUNT_BASE_URL", "https://api.dropflow.pro"),
			Timeout: getDurationOrDefault("ACCOUNT_TIMEOUT", 15*time.Second),
		},
		Fetcher: FetcherConfig{
			Rendered:     getBoolOrDefault("FETCHER_RENDERED", false),
			Timeout:      getDurationOrDefault("FETCHER_TIMEOUT", 30*time.Second),
			MaxRetries:   getIntOrDefault("FETCHER_MAX_RETRIES", 3),
			RequestDelay: getDurationOrDefault("FETCHER_REQUEST_DELAY", 2*time.Second),
			UserAgents:   getStringSliceOrDefault("FETCHER_USER_AGENTS", defaultUserAgents()),
		},
		Storage: StorageConfig{
			Type:      getEnvOrDefault("STORAGE_TYPE", "file"),
			FilePath:  getEnvOrDefault("STORAGE_FILE_PATH", "dropflow-agent.json"),
			RedisAddr: getEnvOrDefault("STORAGE_REDIS_ADDR", "localhost:6379"),
			RedisDB:   getIntOrDefault("STORAGE_REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", ""),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "dropflow"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("AUTH_JWT_SECRET", ""),
			TokenTTL:  getDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "file", "redis":
	default:
		return fmt.Errorf("STORAGE_TYPE must be file or redis, got %q", c.Storage.Type)
	}

	if c.Fetcher.MaxRetries < 0 {
		return fmt.Errorf("FETCHER_MAX_RETRIES must not be negative")
	}

	if c.Agent.NotificationTTL <= 0 {
		return fmt.Errorf("AGENT_NOTIFICATION_TTL must be positive")
	}

	return nil
}

// ValidateServer applies the checks only the account service needs.
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}
