package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends selectable through TOKEN_STORE.
const (
	StoreBolt   = "bolt"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Token       TokenConfig
	Redis       RedisConfig
	Shell       ShellConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Health      HealthConfig
}

// APIConfig points at the dashboard backend.
type APIConfig struct {
	BaseURL    string
	LoginPath  string
	Timeout    time.Duration
	AuthScheme string
}

// TokenConfig selects and locates the persistent token slot.
type TokenConfig struct {
	Store    string
	Key      string
	BoltPath string
	FilePath string
	Timeout  time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	Prefix   string
}

// ShellConfig configures the local web shell.
type ShellConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type HealthConfig struct {
	// Interval between backend and token store checks; zero disables them.
	Interval time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suitable for a local install.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "dashboard"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:    getString("API_BASE_URL", getString("VITE_API_BASE_URL", "http://127.0.0.1:8000")),
			LoginPath:  getString("API_LOGIN_PATH", "/api/auth/login/"),
			Timeout:    getDuration("API_TIMEOUT", 10*time.Second),
			AuthScheme: getString("AUTH_SCHEME", "Token"),
		},
		Token: TokenConfig{
			Store:    strings.ToLower(getString("TOKEN_STORE", StoreBolt)),
			Key:      getString("TOKEN_KEY", "token"),
			BoltPath: getString("TOKEN_BOLT_PATH", "./data/session.db"),
			FilePath: getString("TOKEN_FILE_PATH", "./data/token"),
			Timeout:  getDuration("TOKEN_STORE_TIMEOUT", 2*time.Second),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			Prefix:   getString("REDIS_PREFIX", "dashboard:"),
		},
		Shell: ShellConfig{
			Host:         getString("SHELL_HOST", "127.0.0.1"),
			Port:         getString("SHELL_PORT", "5173"),
			ReadTimeout:  getDuration("SHELL_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SHELL_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("SHELL_IDLE_TIMEOUT", 120*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 15*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
		Health: HealthConfig{
			Interval: getDuration("HEALTH_INTERVAL", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	switch c.Token.Store {
	case StoreBolt, StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: unknown TOKEN_STORE %q", c.Token.Store)
	}
	if c.Token.Key == "" {
		return fmt.Errorf("config: TOKEN_KEY must not be empty")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("config: API_BASE_URL %q must be an http(s) URL", c.API.BaseURL)
	}
	return nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the listen address of the web shell.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Shell.Host, c.Shell.Port)
}

// ShellURL is the address users open in a browser.
func (c *Config) ShellURL() string {
	return "http://" + c.Address()
}
