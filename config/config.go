package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		Driver         string `yaml:"driver"` // mongo, sqlite or memory
		URI            string `yaml:"uri"`
		SQLitePath     string `yaml:"sqlitePath"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"database"`

	JWT struct {
		Secret      string `yaml:"secret"`
		ExpiryHours int    `yaml:"expiryHours"`
	} `yaml:"jwt"`

	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		MarkPerMinute int `yaml:"markPerMinute"`
	} `yaml:"rateLimit"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
}

// LoadConfig reads the configuration file, then applies .env and environment
// overrides and defaults. A missing file is not an error when the environment
// supplies everything required.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getenvInt("PORT", c.Server.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	c.Database.Driver = getenv("DB_DRIVER", c.Database.Driver)
	c.Database.URI = getenv("MONGO_URI", c.Database.URI)
	c.Database.SQLitePath = getenv("SQLITE_PATH", c.Database.SQLitePath)
	c.JWT.Secret = getenv("JWT_SECRET", c.JWT.Secret)
	c.Catalog.Path = getenv("CATALOG_PATH", c.Catalog.Path)
	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getenv("LOG_FILE", c.Log.File)
	c.Log.Debug = getenvBool("LOG_DEBUG", c.Log.Debug)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./data/learnwords.db"
	}
	if c.Database.TimeoutSeconds <= 0 {
		c.Database.TimeoutSeconds = 5
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "./words/words1.json"
	}
	if c.RateLimit.MarkPerMinute <= 0 {
		c.RateLimit.MarkPerMinute = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("database uri is required for the mongo driver")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// DatabaseTimeout bounds a single storage operation
func (c *Config) DatabaseTimeout() time.Duration {
	return time.Duration(c.Database.TimeoutSeconds) * time.Second
}

// TokenExpiry is the lifetime of minted bearer tokens
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
