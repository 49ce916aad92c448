package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Log      LogConfig
	Registry RegistryConfig
	Metrics  MetricsConfig
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error, none
	Format string // text or json
}

// RegistryConfig represents relationship registry configuration
type RegistryConfig struct {
	PrincipalType string // Fixed right-hand side of entity-to-principal keys
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled   bool
	Namespace string // Prefix for Prometheus metric names
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"none":  true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree until we find go.mod
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the root directory
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// InitConfig initializes viper configuration
// env: environment name (dev, test, prod)
func InitConfig(env string) error {
	if env == "" {
		env = "dev"
	}

	// Set config file name based on environment
	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// The binary may run outside a source checkout; the project root is optional
	if projectRoot, err := findProjectRoot(); err == nil {
		viper.AddConfigPath(projectRoot)
	}

	// Read config file (optional, ignore error if not found)
	_ = viper.ReadInConfig()

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("PRINCIPAL_TYPE", "user")
	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_NAMESPACE", "tsunagi")

	return nil
}

// Load loads configuration from viper
func Load() (*Config, error) {
	config := &Config{
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Registry: RegistryConfig{
			PrincipalType: viper.GetString("PRINCIPAL_TYPE"),
		},
		Metrics: MetricsConfig{
			Enabled:   viper.GetBool("METRICS_ENABLED"),
			Namespace: viper.GetString("METRICS_NAMESPACE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that every setting has an accepted value
func (c *Config) Validate() error {
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid LOG_LEVEL %q (want debug, info, warn, error or none)", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", c.Log.Format)
	}
	if c.Registry.PrincipalType == "" {
		return fmt.Errorf("PRINCIPAL_TYPE must not be empty")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("METRICS_NAMESPACE is required when metrics are enabled")
	}
	return nil
}
