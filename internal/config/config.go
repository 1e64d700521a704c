package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	HTTPPort        string
	MetricsPort     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Shared secret expected in "Authorization: Bearer <token>"
	APIToken string

	// Namespace used when a request omits one
	DefaultNamespace string

	// Kubernetes configuration
	K8sInCluster      bool
	K8sKubeConfigPath string
	K8sRequestTimeout time.Duration

	// Audit trail (disabled when RedisURL is empty)
	RedisURL    string
	AuditStream string
	AuditMaxLen int64

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Application metadata
	AppName    string
	AppVersion string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	httpPort := getEnv("HTTP_PORT", "8000")

	cfg := &Config{
		HTTPPort:          httpPort,
		MetricsPort:       getEnv("METRICS_PORT", httpPort),
		ReadTimeout:       getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvDuration("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getEnvDuration("IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		APIToken:          os.Getenv("BRIDGE_API_TOKEN"),
		DefaultNamespace:  getEnv("DEFAULT_NAMESPACE", "default"),
		K8sInCluster:      getEnvBool("K8S_IN_CLUSTER", false),
		K8sKubeConfigPath: getEnv("K8S_KUBECONFIG_PATH", ""),
		K8sRequestTimeout: getEnvDuration("K8S_REQUEST_TIMEOUT", 30*time.Second),
		RedisURL:          getEnv("REDIS_URL", ""),
		AuditStream:       getEnv("AUDIT_STREAM", "remediation:audit"),
		AuditMaxLen:       int64(getEnvInt("AUDIT_MAX_LEN", 10000)),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		AppName:           "remediation-bridge",
		AppVersion:        getEnv("APP_VERSION", "dev"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("BRIDGE_API_TOKEN is required")
	}

	if c.DefaultNamespace == "" {
		return fmt.Errorf("DEFAULT_NAMESPACE must not be empty")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json/console)", c.LogFormat)
	}

	if c.RedisURL != "" && c.AuditStream == "" {
		return fmt.Errorf("AUDIT_STREAM must not be empty when REDIS_URL is set")
	}

	return nil
}

// AuditEnabled reports whether outcomes should be written to Redis
func (c *Config) AuditEnabled() bool {
	return c.RedisURL != ""
}

// GetServerAddress returns the listen address for the API server
func (c *Config) GetServerAddress() string {
	return ":" + c.HTTPPort
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return defaultVal
		}
		return b
	}
	return defaultVal
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		return i
	}
	return defaultVal
}

// getEnvDuration retrieves a duration environment variable ("30s", "2m") or returns a default value
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return defaultVal
}
