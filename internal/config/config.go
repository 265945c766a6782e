package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

const (
	StorePostgres = "postgres"
	StoreDrive    = "drive"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Tables     TablesConfig
	Drive      DriveConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	// AllowedOrigins are the browser origins accepted by CORS.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AdminConfig gates the table editors. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	PasswordHash string
}

// TablesConfig selects where the leave, travel and scan tables live.
type TablesConfig struct {
	Store string // postgres or drive
}

type DriveConfig struct {
	FolderID        string
	CredentialsFile string
	CredentialsJSON string
	LeaveFile       string
	TravelFile      string
	ScanFile        string
	// RefreshInterval is how often cached workbooks are reloaded. Zero
	// disables the job.
	RefreshInterval time.Duration
}

// RedisConfig is optional; an empty Addr disables the workbook cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type StorageConfig struct {
	Type            string // local or gcs
	BasePath        string
	BaseURL         string
	Bucket          string
	CredentialsJSON string
}

type AttendanceConfig struct {
	WorkStart             string // HH:MM
	WorkEnd               string // HH:MM
	CollapseLeaveSubtypes bool
	Aliases               string // alias=canonical;alias2=canonical2
	StripTitles           bool
	ReportTimeout         time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.App.AllowedOrigins = append(config.App.AllowedOrigins, origin)
		}
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Admin = AdminConfig{
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	config.Tables = TablesConfig{
		Store: strings.ToLower(getEnv("TABLE_STORE", StorePostgres)),
	}

	// Google Drive workbooks
	refresh, err := time.ParseDuration(getEnv("DRIVE_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRIVE_REFRESH_INTERVAL: %w", err)
	}
	config.Drive = DriveConfig{
		FolderID:        getEnv("DRIVE_FOLDER_ID", ""),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		LeaveFile:       getEnv("DRIVE_LEAVE_FILE", "leave_report.xlsx"),
		TravelFile:      getEnv("DRIVE_TRAVEL_FILE", "travel_report.xlsx"),
		ScanFile:        getEnv("DRIVE_SCAN_FILE", "scan_report.xlsx"),
		RefreshInterval: refresh,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		TTL:      redisTTL,
	}

	// Attachment storage
	config.Storage = StorageConfig{
		Type:            strings.ToLower(getEnv("STORAGE_TYPE", StorageLocal)),
		BasePath:        getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:         getEnv("STORAGE_BASE_URL", "/uploads"),
		Bucket:          getEnv("GCS_BUCKET", ""),
		CredentialsJSON: getEnv("GCS_CREDENTIALS_JSON", ""),
	}

	// Attendance policy
	reportTimeout, err := time.ParseDuration(getEnv("REPORT_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEOUT: %w", err)
	}
	config.Attendance = AttendanceConfig{
		WorkStart:             getEnv("WORK_START_TIME", "08:30"),
		WorkEnd:               getEnv("WORK_END_TIME", "16:30"),
		CollapseLeaveSubtypes: getEnvBool("COLLAPSE_LEAVE_SUBTYPES", false),
		Aliases:               getEnv("NAME_ALIASES", ""),
		StripTitles:           getEnvBool("NAME_STRIP_TITLES", true),
		ReportTimeout:         reportTimeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}

	switch c.Tables.Store {
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDrive:
		if c.Drive.FolderID == "" {
			return fmt.Errorf("DRIVE_FOLDER_ID is required")
		}
		if c.Drive.CredentialsFile == "" && c.Drive.CredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS_JSON is required")
		}
	default:
		return fmt.Errorf("TABLE_STORE must be one of: postgres, drive")
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required")
		}
	case StorageGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("GCS_BUCKET is required")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of: local, gcs")
	}

	if !validator.IsValidClock(c.Attendance.WorkStart) {
		return fmt.Errorf("WORK_START_TIME must be in HH:MM format")
	}
	if !validator.IsValidClock(c.Attendance.WorkEnd) {
		return fmt.Errorf("WORK_END_TIME must be in HH:MM format")
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

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
