package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the engine's runtime configuration. Values come from an optional
// YAML file, with REINHARDT_* environment variables taking precedence.
type Config struct {
	HTTPAddress    string         `yaml:"http_addr"`
	LogLevel       string         `yaml:"log_level"`
	AppLabel       string         `yaml:"app_label"`
	RepositoryPath string         `yaml:"repository_path"`
	SchemaFile     string         `yaml:"schema_file"`
	Database       DatabaseConfig `yaml:"database"`
}

// DatabaseConfig selects the backend the engine migrates.
type DatabaseConfig struct {
	Provider    string `yaml:"provider"`
	DSN         string `yaml:"dsn"`
	Schema      string `yaml:"schema"`
	LedgerTable string `yaml:"ledger_table"`
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddress:    ":8080",
		LogLevel:       "info",
		AppLabel:       "default",
		RepositoryPath: "./migrations",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.HTTPAddress = getEnv("REINHARDT_HTTP_ADDR", cfg.HTTPAddress)
	cfg.LogLevel = getEnv("REINHARDT_LOG_LEVEL", cfg.LogLevel)
	cfg.AppLabel = getEnv("REINHARDT_APP_LABEL", cfg.AppLabel)
	cfg.RepositoryPath = getEnv("REINHARDT_REPOSITORY_PATH", cfg.RepositoryPath)
	cfg.SchemaFile = getEnv("REINHARDT_SCHEMA_FILE", cfg.SchemaFile)
	cfg.Database.Provider = getEnv("REINHARDT_DB_PROVIDER", cfg.Database.Provider)
	cfg.Database.DSN = getEnv("REINHARDT_DB_DSN", cfg.Database.DSN)
	cfg.Database.Schema = getEnv("REINHARDT_DB_SCHEMA", cfg.Database.Schema)
	cfg.Database.LedgerTable = getEnv("REINHARDT_LEDGER_TABLE", cfg.Database.LedgerTable)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	if c.Database.Provider == "" {
		return errors.New("database provider is required (REINHARDT_DB_PROVIDER or database.provider)")
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required (REINHARDT_DB_DSN or database.dsn)")
	}
	if c.AppLabel == "" {
		return errors.New("app_label must not be empty")
	}
	if c.RepositoryPath == "" {
		return errors.New("repository_path must not be empty")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
