// Package config loads the service settings from .env, an optional app.yaml
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	MongoURI    string
	DBName      string
	JWTKey      string
	AdminID     string
	RedisAddr   string
	CacheTTL    time.Duration
	NatsURL     string
	UploadDir   string
	CORSOrigins string
}

// Load reads the configuration. A missing .env or app.yaml is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName("app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read app.yaml: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("DB_HOST", "localhost:27017")
	v.SetDefault("DB_NAME", "socnet")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("APP_ENV"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DBName:      v.GetString("DB_NAME"),
		JWTKey:      v.GetString("JWT_KEY"),
		AdminID:     v.GetString("ADMIN_ID"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		CacheTTL:    v.GetDuration("CACHE_TTL"),
		NatsURL:     v.GetString("NATS_URL"),
		UploadDir:   v.GetString("UPLOAD_DIR"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
	}

	cfg.MongoURI = v.GetString("DB_URI")
	if cfg.MongoURI == "" {
		cfg.MongoURI = mongoURI(v.GetString("DB_USER"), v.GetString("DB_PASSWORD"), v.GetString("DB_HOST"))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mongoURI assembles the connection string. Credentials select the
// mongodb+srv scheme used by hosted clusters.
func mongoURI(user, password, host string) string {
	if user == "" {
		return "mongodb://" + host
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(password), host)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTKey == "" {
		if c.IsProduction() {
			return errors.New("JWT_KEY is required")
		}
		c.JWTKey = "local-development-key"
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
