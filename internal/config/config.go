package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all groco settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Shop    ShopConfig    `yaml:"shop"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // memory, sqlite, mongo, postgres
	Path     string `yaml:"path"`   // sqlite only
	URL      string `yaml:"url"`    // mongo, postgres
	Database string `yaml:"database"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"`
}

type ShopConfig struct {
	CatalogPath string  `yaml:"catalog_path"` // empty uses the built-in catalog
	ShippingFee float64 `yaml:"shipping_fee"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Storage: StorageConfig{
			Driver:   "sqlite",
			Path:     "data/groco.db",
			Database: "groco",
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		Shop: ShopConfig{
			ShippingFee: 5.99,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, then applies .env and
// environment overrides. A missing file gives the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// a missing .env is normal
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if addr := os.Getenv("GROCO_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if driver := os.Getenv("GROCO_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if path := os.Getenv("GROCO_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
	if url := os.Getenv("GROCO_STORAGE_URL"); url != "" {
		c.Storage.URL = url
	}
	if secret := os.Getenv("GROCO_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if level := os.Getenv("GROCO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetTokenTTL parses the token lifetime, falling back to 24h.
func (c *Config) GetTokenTTL() time.Duration {
	if d, err := time.ParseDuration(c.Auth.TokenTTL); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "mongo", "postgres":
		if c.Storage.URL == "" {
			return fmt.Errorf("storage driver %s needs storage.url", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if len(c.Server.AllowOrigins) == 0 {
		return errors.New("server.allow_origins needs at least one origin")
	}
	for _, origin := range c.Server.AllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("bad origin %q in server.allow_origins: want * or an http(s) url", origin)
		}
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (or set GROCO_JWT_SECRET)")
	}
	if c.Shop.ShippingFee < 0 {
		return errors.New("shop.shipping_fee cannot be negative")
	}
	return nil
}
