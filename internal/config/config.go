package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process-wide settings, read once at startup
type Config struct {
	Env         string
	ServerPort  string
	FrontendURL string
	DB          DBConfig
	JWT         JWTConfig
	SMTP        SMTPConfig
}

// JWTConfig holds token signing parameters
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

// SMTPConfig holds outbound email credentials
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Load reads configuration from the environment, after applying a .env file
// if one is present. Every missing required value is reported in one error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	var errs []error

	dbCfg, err := LoadDBConfig()
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Env:         getEnv("APP_ENV", "dev"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", ""), "/"),
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", ""),
			AccessTTL: getDurationEnv("JWT_EXPIRES_IN", 24*time.Hour),
			ResetTTL:  getDurationEnv("RESET_TOKEN_EXPIRES_IN", time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}
	if dbCfg != nil {
		cfg.DB = *dbCfg
	}
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.User)

	if cfg.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.FrontendURL == "" {
		errs = append(errs, errors.New("FRONTEND_URL is required"))
	}
	if cfg.SMTP.Host == "" || cfg.SMTP.User == "" || cfg.SMTP.Password == "" {
		errs = append(errs, errors.New("SMTP_HOST, SMTP_USER and SMTP_PASSWORD are required"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// NewLogger builds the process logger: JSON in production, text otherwise
func NewLogger(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "default", fallback)
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "default", fallback)
		return fallback
	}
	return parsed
}
