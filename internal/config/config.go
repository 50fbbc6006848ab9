package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the rules used to classify and aggregate attendance
type AttendanceConfig struct {
	DayShiftHours    float64
	NightShiftHours  float64
	AllowFutureDates bool
	Timezone         string
	HolidayFile      string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// ExportConfig controls the periodic workbook archive job
type ExportConfig struct {
	ArchiveEnabled  bool
	ArchiveInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("APP_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Attendance configuration
	dayHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_DAY_SHIFT_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_DAY_SHIFT_HOURS: %w", err)
	}
	nightHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_NIGHT_SHIFT_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_NIGHT_SHIFT_HOURS: %w", err)
	}
	allowFuture, err := strconv.ParseBool(getEnv("ATTENDANCE_ALLOW_FUTURE_DATES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ALLOW_FUTURE_DATES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DayShiftHours:    dayHours,
		NightShiftHours:  nightHours,
		AllowFutureDates: allowFuture,
		Timezone:         getEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		HolidayFile:      getEnv("HOLIDAY_CALENDAR_FILE", ""),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/storage"),
	}

	// Export archive configuration
	archiveEnabled, err := strconv.ParseBool(getEnv("EXPORT_ARCHIVE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_ARCHIVE_ENABLED: %w", err)
	}
	archiveInterval, err := time.ParseDuration(getEnv("EXPORT_ARCHIVE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_ARCHIVE_INTERVAL: %w", err)
	}

	config.Export = ExportConfig{
		ArchiveEnabled:  archiveEnabled,
		ArchiveInterval: archiveInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.DayShiftHours <= 0 || c.Attendance.NightShiftHours <= 0 {
		return fmt.Errorf("shift hours must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	if c.Export.ArchiveEnabled && c.Export.ArchiveInterval <= 0 {
		return fmt.Errorf("EXPORT_ARCHIVE_INTERVAL must be positive")
	}
	return nil
}

// Location returns the timezone used to decide what "today" is
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
