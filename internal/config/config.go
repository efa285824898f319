package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the comparison service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Backend  BackendConfig  `mapstructure:"backend"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds storage quota policy. CapacityBytes approximates
// the capacity of the underlying store; WarnThreshold is the usage
// fraction at which a quota warning is raised.
type StorageConfig struct {
	CapacityBytes int64   `mapstructure:"capacity_bytes"`
	WarnThreshold float64 `mapstructure:"warn_threshold"`
}

// BackendConfig holds the chat backend configuration
type BackendConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("CHATARENA")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/chatarena.db")

	// 5 MiB mirrors the conservative browser localStorage estimate the
	// web client worked against; warn at three quarters full.
	v.SetDefault("storage.capacity_bytes", 5*1024*1024)
	v.SetDefault("storage.warn_threshold", 0.75)

	v.SetDefault("backend.provider", "ollama")
	v.SetDefault("backend.base_url", "http://localhost:11434/v1")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.model", "qwen2.5:7b")
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
