package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "ALLOWED_ORIGINS", "DB_DRIVER", "MONGO_URI", "SQLITE_PATH", "JWT_SECRET", "CATALOG_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "LOG_LEVEL", "LOG_FILE", "LOG_DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 8080
database:
  uri: mongodb://localhost:27017/learnwords
jwt:
  secret: s3cret
catalog:
  path: ./words/test.json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Errorf("Expected default driver mongo, got %q", cfg.Database.Driver)
	}
	if cfg.DatabaseTimeout() != 5*time.Second {
		t.Errorf("Expected default timeout 5s, got %v", cfg.DatabaseTimeout())
	}
	if cfg.TokenExpiry() != 24*time.Hour {
		t.Errorf("Expected default expiry 24h, got %v", cfg.TokenExpiry())
	}
	if cfg.RateLimit.MarkPerMinute != 120 {
		t.Errorf("Expected default rate limit 120, got %d", cfg.RateLimit.MarkPerMinute)
	}
	if cfg.Catalog.Path != "./words/test.json" {
		t.Errorf("Unexpected catalog path %q", cfg.Catalog.Path)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
jwt:
  secret: from-file
database:
  driver: mongo
  uri: mongodb://file
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/lw.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.JWT.Secret != "from-env" || cfg.Server.Port != 9090 {
		t.Errorf("Env overrides not applied: secret=%q port=%d", cfg.JWT.Secret, cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.SQLitePath != "/tmp/lw.db" {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("Expected origins %v, got %v", want, cfg.Server.AllowedOrigins)
	}
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "env-only")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Expected memory driver, got %q", cfg.Database.Driver)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"no secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"mongo without uri", func(c *Config) { c.Database.URI = "" }, true},
		{"sqlite without uri", func(c *Config) { c.Database.Driver = DriverSQLite; c.Database.URI = "" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Config
			c.JWT.Secret = "x"
			c.Database.Driver = DriverMongo
			c.Database.URI = "mongodb://localhost"
			tc.mutate(&c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unterminated")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}
