package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DevJWTSecret is only accepted outside prod. It is public, so any token signed
// with it is forgeable.
const DevJWTSecret = "insecure-dev-secret-change-me"

type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`
	Port int    `envconfig:"PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"vacations"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"vacations"`
	DBName     string `envconfig:"DB_NAME" default:"vacations"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBURL      string `envconfig:"DB_URL"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	AdminEmail     string `envconfig:"ADMIN_EMAIL"`
	AdminPassword  string `envconfig:"ADMIN_PASSWORD"`
	AdminFirstName string `envconfig:"ADMIN_FIRST_NAME" default:"Admin"`
	AdminLastName  string `envconfig:"ADMIN_LAST_NAME" default:"User"`

	ImagesDir      string   `envconfig:"IMAGES_DIR" default:"images"`
	MaxUploadBytes int64    `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`

	RedisAddr       string `envconfig:"REDIS_ADDR"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
	RedisDB         int    `envconfig:"REDIS_DB" default:"0"`
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" default:"30"`

	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT"`
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config

	err := envconfig.Process("", &cfg)

	if err != nil {
		return Config{}, err
	}

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.buildDBURL()
	}

	if cfg.JWTSecret == "" && !cfg.IsProd() {
		cfg.JWTSecret = DevJWTSecret
	}

	err = cfg.Validate()

	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// UsesInsecureSecret reports whether tokens are signed with the public development secret.
func (c Config) UsesInsecureSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("PORT must be positive")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.IsProd() && c.UsesInsecureSecret() {
		return errors.New("JWT_SECRET must not use the development default in prod")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

func (c Config) buildDBURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// WithTimeout bounds a storage call made on behalf of a request. A nil parent
// falls back to context.Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}
