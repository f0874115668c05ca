package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Secret SecretConfig `yaml:"secret"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the externally reachable base URL of this server, used to
	// derive the service URLs handed to the destination system and by the
	// global endpoint to relay onto the project endpoint.
	BaseURL string `yaml:"base_url"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SecretConfig struct {
	// EncryptionKey is the per-installation key secrets are sealed with.
	EncryptionKey string `yaml:"encryption_key"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		DB: DBConfig{
			Path: "fieldpull.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("FIELDPULL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("FIELDPULL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FIELDPULL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDPULL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if baseURL := os.Getenv("FIELDPULL_BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if dbPath := os.Getenv("FIELDPULL_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FIELDPULL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if key := os.Getenv("FIELDPULL_ENCRYPTION_KEY"); key != "" {
		cfg.Secret.EncryptionKey = key
	}

	if cfg.Secret.EncryptionKey == "" {
		return Config{}, fmt.Errorf("FIELDPULL_ENCRYPTION_KEY is required")
	}

	return cfg, nil
}

// ServiceURLs are the per-service entry point URLs handed to the
// destination system, each carrying the given secret.
type ServiceURLs struct {
	Data     string
	Metadata string
	User     string
}

// ServiceURLs derives the service URLs for a destination project.
func (c ServerConfig) ServiceURLs(projectID int64, secret string) ServiceURLs {
	build := func(service string) string {
		q := url.Values{}
		q.Set("pid", strconv.FormatInt(projectID, 10))
		q.Set("secret", secret)
		q.Set("service", service)
		return c.BaseURL + "/pull/project?" + q.Encode()
	}
	return ServiceURLs{
		Data:     build("data"),
		Metadata: build("metadata"),
		User:     build("user"),
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
