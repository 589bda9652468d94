package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Shift    schedule.ShiftConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string

	// ReconcileInterval is how often the nightly reconciliation job wakes
	// up; the job itself only acts in the configured hour.
	ReconcileInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_INTERVAL: %w", err)
	}

	config.App = AppConfig{
		Port:              appPort,
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:    getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
		ReconcileInterval: reconcileInterval,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	shift, err := loadShiftConfig()
	if err != nil {
		return nil, err
	}
	config.Shift = shift

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadShiftConfig builds the classification parameters from the environment
// on top of the regulatory defaults. Every knob is overridable so a tenant in
// another jurisdiction never needs a code change.
func loadShiftConfig() (schedule.ShiftConfig, error) {
	cfg := schedule.DefaultShiftConfig()
	cfg.Version = getEnv("SHIFT_CONFIG_VERSION", cfg.Version)

	intKnobs := []struct {
		env string
		dst *int
	}{
		{"SHIFT_STANDARD_MINUTES", &cfg.StandardShiftMinutes},
		{"SHIFT_TIER1_LIMIT_MINUTES", &cfg.Tier1LimitMinutes},
		{"SHIFT_TIER2_LIMIT_MINUTES", &cfg.Tier2LimitMinutes},
		{"SHIFT_LUNCH_MINUTES", &cfg.LunchMinutes},
		{"SHIFT_GRACE_MINUTES", &cfg.GracePeriodMinutes},
		{"SHIFT_DUPLICATE_THRESHOLD_MINUTES", &cfg.DuplicateThresholdMinutes},
	}
	for _, knob := range intKnobs {
		raw := os.Getenv(knob.env)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return schedule.ShiftConfig{}, fmt.Errorf("invalid %s: %w", knob.env, err)
		}
		*knob.dst = v
	}

	clockKnobs := []struct {
		env string
		dst *schedule.ClockTime
	}{
		{"SHIFT_NIGHT_START", &cfg.Night.Start},
		{"SHIFT_NIGHT_END", &cfg.Night.End},
		{"SHIFT_LUNCH_START", &cfg.LunchStart},
		{"SHIFT_NOMINAL_START", &cfg.NominalStart},
		{"SHIFT_NOMINAL_END", &cfg.NominalEnd},
	}
	for _, knob := range clockKnobs {
		raw := os.Getenv(knob.env)
		if raw == "" {
			continue
		}
		v, err := schedule.ParseClockTime(raw)
		if err != nil {
			return schedule.ShiftConfig{}, fmt.Errorf("invalid %s: %w", knob.env, err)
		}
		*knob.dst = v
	}

	if raw := os.Getenv("SHIFT_REST_WEEKDAYS"); raw != "" {
		cfg.RestWeekdays = nil
		for _, part := range strings.Split(raw, ",") {
			wd, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || wd < 0 || wd > 6 {
				return schedule.ShiftConfig{}, fmt.Errorf("invalid SHIFT_REST_WEEKDAYS entry %q (0=Sunday..6=Saturday)", part)
			}
			cfg.RestWeekdays = append(cfg.RestWeekdays, time.Weekday(wd))
		}
	}

	if raw := os.Getenv("SHIFT_REST_DATES"); raw != "" {
		cfg.RestDates = nil
		for _, part := range strings.Split(raw, ",") {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(part))
			if err != nil {
				return schedule.ShiftConfig{}, fmt.Errorf("invalid SHIFT_REST_DATES entry %q: %w", part, err)
			}
			cfg.RestDates = append(cfg.RestDates, d)
		}
	}

	if err := cfg.Validate(); err != nil {
		return schedule.ShiftConfig{}, fmt.Errorf("invalid shift configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
