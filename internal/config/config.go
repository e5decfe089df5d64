package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Azure     AzureConfig     `mapstructure:"azure"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	PagePath        string        `mapstructure:"page_path"`
}

// StorageConfig selects the persistence backend. Driver is one of
// "sqlite", "redis", or "memory".
type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AzureConfig carries the Azure OpenAI connection settings. The same values
// are served verbatim on /config for the browser client.
type AzureConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	Key        string `mapstructure:"key"`
	APIVersion string `mapstructure:"api_version"`
}

type AssistantConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.page_path", "./web/shopping-list.html")

	// Storage
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./listkeeper.db")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.db", 0)

	// Azure OpenAI
	v.SetDefault("azure.api_version", "2024-08-01-preview")

	// Assistant
	v.SetDefault("assistant.default_provider", "azure")
	v.SetDefault("assistant.gemini.model", "gemini-1.5-flash")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.path", "STORAGE_PATH")
	v.BindEnv("storage.redis.password", "REDIS_PASSWORD")

	// Azure OpenAI
	v.BindEnv("azure.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.deployment", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("azure.key", "AZURE_OPENAI_KEY")
	v.BindEnv("azure.api_version", "AZURE_OPENAI_API_VERSION")

	// Assistant
	v.BindEnv("assistant.default_provider", "ASSISTANT_PROVIDER")
	v.BindEnv("assistant.gemini.api_key", "GEMINI_API_KEY")
}
