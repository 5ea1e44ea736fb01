package config

import (
	"os"
	"path/filepath"
	"testing"
)

type loaderTestConfig struct {
	Server struct {
		Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
		Host string `mapstructure:"host" validate:"required"`
	} `mapstructure:"server"`
	Relay struct {
		DefaultSession string `mapstructure:"default_session"`
	} `mapstructure:"relay"`
}

func createTestConfigFile(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoaderLoadFile(t *testing.T) {
	configPath := createTestConfigFile(t, `
server:
  port: 8080
  host: "localhost"
relay:
  default_session: "050518"
`)

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	var cfg loaderTestConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Relay.DefaultSession != "050518" {
		t.Errorf("Expected default session 050518, got %s", cfg.Relay.DefaultSession)
	}
}

func TestLoaderFileNotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidator(t *testing.T) {
	var cfg loaderTestConfig
	cfg.Server.Port = 8080
	cfg.Server.Host = "localhost"

	v := NewValidator()
	if err := v.Validate(&cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Server.Port = 0
	if err := v.Validate(&cfg); err == nil {
		t.Error("expected validation failure for missing port")
	}
}
