package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPITimeout bounds every remote call unless a caller overrides it
const DefaultAPITimeout = 10 * time.Second

// Config holds all application configuration
type Config struct {
	Port               string   `mapstructure:"port"`
	GoEnv              string   `mapstructure:"go_env"`
	LogLevel           string   `mapstructure:"log_level"`
	APIBaseURL         string   `mapstructure:"api_base_url"`
	UseAPI             bool     `mapstructure:"use_api"`
	APITimeoutMS       int      `mapstructure:"api_timeout_ms"`
	StoreDSN           string   `mapstructure:"store_dsn"`
	SeedDemoData       bool     `mapstructure:"seed_demo_data"`
	AWSRegion          string   `mapstructure:"aws_region"`
	AWSAccessKeyID     string   `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string   `mapstructure:"aws_secret_access_key"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080/api"),
		UseAPI:             getEnvBool("USE_API", true),
		APITimeoutMS:       getEnvInt("API_TIMEOUT_MS", int(DefaultAPITimeout/time.Millisecond)),
		StoreDSN:           getEnv("STORE_DSN", "sqlite://panel.db"),
		SeedDemoData:       getEnvBool("SEED_DEMO_DATA", true),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads the configuration from a YAML file. Keys match the mapstructure
// tags on Config; anything missing falls back to the same defaults as Load.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("go_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("use_api", true)
	v.SetDefault("api_timeout_ms", int(DefaultAPITimeout/time.Millisecond))
	v.SetDefault("store_dsn", "sqlite://panel.db")
	v.SetDefault("seed_demo_data", true)
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:5173"})

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.UseAPI && strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required when USE_API is enabled")
	}
	if c.APITimeoutMS <= 0 {
		return fmt.Errorf("API_TIMEOUT_MS must be positive, got %d", c.APITimeoutMS)
	}
	if strings.TrimSpace(c.StoreDSN) == "" {
		return fmt.Errorf("STORE_DSN is required")
	}
	return nil
}

// Timeout returns the remote call timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
