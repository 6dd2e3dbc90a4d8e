package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", c.HTTP.Addr)
	}
	if c.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite, got %q", c.Database.Driver)
	}
	if c.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h, got %s", c.Auth.TokenTTL)
	}
	if !c.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  addr: ":9000"
database:
  driver: postgres
  dsn: postgres://localhost/uniforms
log:
  level: debug
auth:
  token_ttl: 2h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("UNIFORMADMIN_HTTP_ADDR", ":9100")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Addr != ":9100" {
		t.Errorf("environment should override file, got %q", c.HTTP.Addr)
	}
	if c.Database.Driver != "postgres" || c.Database.DSN != "postgres://localhost/uniforms" {
		t.Errorf("unexpected database config %+v", c.Database)
	}
	if c.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h, got %s", c.Auth.TokenTTL)
	}
	level, err := c.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("UNIFORMADMIN_LOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Registers cleanup so the variable set by the dotenv file is removed.
	t.Setenv("UNIFORMADMIN_LOG_LEVEL", "")
	os.Unsetenv("UNIFORMADMIN_LOG_LEVEL")

	c, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Log.Level != "warn" {
		t.Errorf("expected warn from dotenv, got %q", c.Log.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"UNIFORMADMIN_DATABASE_DRIVER": "mysql",
		"UNIFORMADMIN_LOG_LEVEL":       "loud",
		"UNIFORMADMIN_AUTH_TOKEN_TTL":  "-1h",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}
