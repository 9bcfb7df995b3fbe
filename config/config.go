package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable not set")
	ErrUnknownDriver    = errors.New("unknown database driver")
)

type Config struct {
	Env       string   `yaml:"env"`
	Port      string   `yaml:"port"`
	PublicURL string   `yaml:"public_url"`
	DB        Database `yaml:"database"`
	Auth      Auth     `yaml:"auth"`
	CORS      []string `yaml:"cors_origins"`
	Uploads   Uploads  `yaml:"uploads"`
	RabbitMQ  RabbitMQ `yaml:"rabbitmq"`
	Admin     Admin    `yaml:"admin"`
}

type Database struct {
	Driver       string `yaml:"driver"`
	URI          string `yaml:"uri"`
	LogLevel     string `yaml:"log_level"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	Issuer        string        `yaml:"issuer"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl"`
}

type Uploads struct {
	Dir   string `yaml:"dir"`
	MaxMB int64  `yaml:"max_mb"`
}

// RabbitMQ publishing is disabled when URL is empty.
type RabbitMQ struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Admin is an optional account created at startup when it does not exist yet.
type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func Default() *Config {
	return &Config{
		Env:       "development",
		Port:      "8080",
		PublicURL: "http://localhost:3000",
		DB: Database{
			Driver:       "sqlite",
			URI:          "orders.db?_foreign_keys=on",
			LogLevel:     "warn",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Auth: Auth{
			TokenTTL:      24 * time.Hour,
			Issuer:        "order-desk",
			ResetTokenTTL: time.Hour,
		},
		CORS:     []string{"http://localhost:3000"},
		Uploads:  Uploads{Dir: "uploads", MaxMB: 5},
		RabbitMQ: RabbitMQ{Exchange: "orders_topic"},
		Admin:    Admin{Name: "Administrator"},
	}
}

// Load reads .env (if any), then the optional YAML file at path, then
// environment variables, which win over both.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded, using environment variables")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnv("APP_ENV", c.Env)
	c.Port = getEnv("PORT", c.Port)
	c.PublicURL = getEnv("APP_URL", c.PublicURL)
	c.DB.Driver = getEnv("DB_DRIVER", c.DB.Driver)
	c.DB.URI = getEnv("DATABASE_URI", c.DB.URI)
	c.DB.LogLevel = getEnv("DB_LOG_LEVEL", c.DB.LogLevel)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Uploads.Dir = getEnv("UPLOAD_DIR", c.Uploads.Dir)
	c.RabbitMQ.URL = getEnv("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)
	c.Admin.Email = getEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
	c.Admin.Name = getEnv("ADMIN_NAME", c.Admin.Name)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORS = splitList(origins)
	}

	var err error
	if c.DB.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns); err != nil {
		return err
	}
	if c.DB.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", c.DB.MaxIdleConns); err != nil {
		return err
	}
	maxMB, err := getEnvInt("MAX_UPLOAD_MB", int(c.Uploads.MaxMB))
	if err != nil {
		return err
	}
	c.Uploads.MaxMB = int64(maxMB)
	if c.Auth.TokenTTL, err = getEnvDuration("JWT_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.Auth.ResetTokenTTL, err = getEnvDuration("RESET_TOKEN_TTL", c.Auth.ResetTokenTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DB.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if !c.IsDevelopment() && len(c.CORS) == 0 {
		return errors.New("CORS_ORIGINS must list at least one origin outside development")
	}
	if c.Uploads.MaxMB <= 0 {
		return fmt.Errorf("upload limit must be positive, got %d MB", c.Uploads.MaxMB)
	}
	return nil
}

// IsDevelopment mirrors the APP_ENV values that relax CORS.
func (c *Config) IsDevelopment() bool {
	return c.Env == "debug" || c.Env == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
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
