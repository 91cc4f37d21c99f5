package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string        `env:"BOT_TOKEN" validate:"required"`
	APIBaseURL  string        `env:"API_BASE_URL" validate:"required,url"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" validate:"gte=0"`
	MetricsAddr string        `env:"METRICS_ADDR"`
	MaxSessions int           `env:"MAX_SESSIONS" validate:"gt=0"`
	Feed        FeedConfig
	Reporting   ReportingConfig
	Database    DatabaseConfig
}

// FeedConfig holds pagination and interaction settings
type FeedConfig struct {
	PageSize      int           `env:"FEED_PAGE_SIZE" validate:"gt=0"`
	ArticleLimit  int           `env:"FEED_ARTICLE_LIMIT" validate:"gte=0"`
	ViewThreshold time.Duration `env:"VIEW_THRESHOLD" validate:"gt=0"`
	LikeReconcile string        `env:"LIKE_RECONCILE" validate:"oneof=none rollback"`
}

// ReportingConfig holds interaction report delivery settings
type ReportingConfig struct {
	Workers   int     `env:"REPORT_WORKERS" validate:"gt=0"`
	QueueSize int     `env:"REPORT_QUEUE_SIZE" validate:"gt=0"`
	Rate      float64 `env:"REPORT_RATE" validate:"gte=0"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host          string `env:"DB_HOST"`
	Port          string `env:"DB_PORT"`
	Name          string `env:"DB_NAME"`
	User          string `env:"DB_USER"`
	Password      string `env:"DB_PASSWORD" validate:"required"`
	RetentionDays int    `env:"DIAGNOSTICS_RETENTION_DAYS" validate:"gt=0"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		APIBaseURL:  getEnv("API_BASE_URL", "https://news-app-backend-bl47.onrender.com"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 0, &errs),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		MaxSessions: getEnvInt("MAX_SESSIONS", 10000, &errs),
		Feed: FeedConfig{
			PageSize:      getEnvInt("FEED_PAGE_SIZE", 10, &errs),
			ArticleLimit:  getEnvInt("FEED_ARTICLE_LIMIT", 900, &errs),
			ViewThreshold: getEnvDuration("VIEW_THRESHOLD", 5*time.Second, &errs),
			LikeReconcile: getEnv("LIKE_RECONCILE", "none"),
		},
		Reporting: ReportingConfig{
			Workers:   getEnvInt("REPORT_WORKERS", 4, &errs),
			QueueSize: getEnvInt("REPORT_QUEUE_SIZE", 256, &errs),
			Rate:      getEnvFloat("REPORT_RATE", 20, &errs),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			Name:          getEnv("DB_NAME", "newsfeed"),
			User:          getEnv("DB_USER", "newsfeed"),
			Password:      os.Getenv("DB_PASSWORD"),
			RetentionDays: getEnvInt("DIAGNOSTICS_RETENTION_DAYS", 30, &errs),
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// validate reports failed fields by their environment variable name
func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is invalid: failed %q", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a number: %w", key, err))
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration: %w", key, err))
		return defaultValue
	}
	return d
}
