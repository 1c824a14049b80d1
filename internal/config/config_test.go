package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app_label: shop
repository_path: /var/lib/migrations
schema_file: schema.yaml
http_addr: ":9090"
log_level: debug
database:
  provider: postgres
  dsn: postgres://localhost/shop
  schema: public
  ledger_table: custom_ledger
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppLabel != "shop" {
		t.Errorf("AppLabel = %q", cfg.AppLabel)
	}
	if cfg.HTTPAddress != ":9090" {
		t.Errorf("HTTPAddress = %q", cfg.HTTPAddress)
	}
	if cfg.Database.Provider != "postgres" || cfg.Database.LedgerTable != "custom_ledger" {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  provider: sqlite
  dsn: "file::memory:"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddress != ":8080" {
		t.Errorf("HTTPAddress default = %q", cfg.HTTPAddress)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default = %q", cfg.LogLevel)
	}
	if cfg.AppLabel != "default" {
		t.Errorf("AppLabel default = %q", cfg.AppLabel)
	}
	if cfg.RepositoryPath != "./migrations" {
		t.Errorf("RepositoryPath default = %q", cfg.RepositoryPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
app_label: shop
database:
  provider: postgres
  dsn: postgres://file/dsn
`)
	t.Setenv("REINHARDT_APP_LABEL", "billing")
	t.Setenv("REINHARDT_DB_DSN", "postgres://env/dsn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppLabel != "billing" {
		t.Errorf("AppLabel = %q, want env value", cfg.AppLabel)
	}
	if cfg.Database.DSN != "postgres://env/dsn" {
		t.Errorf("DSN = %q, want env value", cfg.Database.DSN)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("REINHARDT_DB_PROVIDER", "sqlite")
	t.Setenv("REINHARDT_DB_DSN", "file::memory:")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Provider != "sqlite" {
		t.Errorf("Provider = %q", cfg.Database.Provider)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing provider", func(c *Config) { c.Database.Provider = "" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"missing app label", func(c *Config) { c.AppLabel = "" }},
		{"missing repository path", func(c *Config) { c.RepositoryPath = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				AppLabel:       "shop",
				RepositoryPath: "./migrations",
				Database:       DatabaseConfig{Provider: "postgres", DSN: "postgres://localhost/shop"},
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
