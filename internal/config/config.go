package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment   string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	DBDriver      string        `mapstructure:"DB_DRIVER"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	SQLitePath    string        `mapstructure:"SQLITE_PATH"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	TripWindowTTL time.Duration `mapstructure:"TRIP_WINDOW_TTL"`
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	SweepCron     string        `mapstructure:"SWEEP_CRON"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBDriver:    getEnv("DB_DRIVER", DriverPostgres),
		DBDSN:       os.Getenv("DB_DSN"),
		SQLitePath:  getEnv("SQLITE_PATH", "trip_planner.db"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		SweepCron:   getEnv("SWEEP_CRON", "@every 1h"),
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TRIP_WINDOW_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("TRIP_WINDOW_TTL: %w", err)
	}
	cfg.TripWindowTTL = ttl

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}

	if _, err := cron.ParseStandard(cfg.SweepCron); err != nil {
		return nil, fmt.Errorf("SWEEP_CRON: %w", err)
	}

	return cfg, nil
}

// CacheEnabled задан ли адрес Redis для кэша окон поездок
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
