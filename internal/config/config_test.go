package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != "sqlite" {
		t.Errorf("Expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.DBPath == "" {
		t.Error("Expected non-empty default DB path")
	}
	if cfg.ImportBatchSize != 20 {
		t.Errorf("Expected batch size 20, got %d", cfg.ImportBatchSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Missing config file should not error: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Expected default backend, got %q", cfg.Backend)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `backend: sqlite
db_path: /tmp/test-rolo.db
ai_merge: true
import_batch_size: 50
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBPath != "/tmp/test-rolo.db" {
		t.Errorf("Expected db_path from file, got %q", cfg.DBPath)
	}
	if !cfg.AIMerge {
		t.Error("Expected ai_merge true")
	}
	if cfg.ImportBatchSize != 50 {
		t.Errorf("Expected batch size 50, got %d", cfg.ImportBatchSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("db_path: /tmp/from-file.db\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("ROLO_DB", "/tmp/from-env.db")
	t.Setenv("ROLO_IMPORT_BATCH_SIZE", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("Environment should override file, got %q", cfg.DBPath)
	}
	if cfg.ImportBatchSize != 5 {
		t.Errorf("Expected batch size 5 from env, got %d", cfg.ImportBatchSize)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad backend", func(c *Config) { c.Backend = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Backend = "postgres" }},
		{"batch size too small", func(c *Config) { c.ImportBatchSize = 0 }},
		{"batch size too large", func(c *Config) { c.ImportBatchSize = 500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("backend: [not a scalar\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for invalid YAML")
	}
}
