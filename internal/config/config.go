package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Log      LogConfig
	Points   PointsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               string
	FrontendURL        string
	RateLimitPerMinute int
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
}

// LogConfig holds structured-logging settings
type LogConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// PointsConfig holds the gamification policy. The exact award values are
// product configuration, so they live here rather than in code.
type PointsConfig struct {
	PerUSDSaved          decimal.Decimal
	ReferralSignupNew    decimal.Decimal
	ReferralSignupRef    decimal.Decimal
	ReferralFirstEntry   decimal.Decimal
	ReferralActivity     decimal.Decimal
	ReferralActivityDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "enough"),
		},
		Server: ServerConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			FrontendURL:        getEnv("FRONTEND_URL", ""),
			RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		},
		App: AppConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Path:       getEnv("LOG_PATH", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnv("LOG_COMPRESS", "false") == "true",
		},
		Points: PointsConfig{
			PerUSDSaved:          getEnvDecimal("POINTS_PER_USD_SAVED", "1.0"),
			ReferralSignupNew:    getEnvDecimal("POINTS_REFERRAL_SIGNUP_NEW", "20"),
			ReferralSignupRef:    getEnvDecimal("POINTS_REFERRAL_SIGNUP_REFERRER", "50"),
			ReferralFirstEntry:   getEnvDecimal("POINTS_REFERRAL_FIRST_ENTRY", "30"),
			ReferralActivity:     getEnvDecimal("POINTS_REFERRAL_ACTIVITY", "25"),
			ReferralActivityDays: getEnvInt("REFERRAL_ACTIVITY_STREAK_DAYS", 7),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		d, _ = decimal.NewFromString(defaultValue)
	}
	return d
}
