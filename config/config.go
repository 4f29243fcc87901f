package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cuti-dinas-backend/internal/notifier"
)

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// GetEnvAsDuration menerima format time.ParseDuration ("90s") atau angka detik.
func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := strings.TrimSpace(GetEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DebugSQL bool
}

// DSN menyusun data source name sesuai driver.
func (c DBConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Jakarta",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type AppConfig struct {
	Port        string
	Environment string
	DB          DBConfig

	JWTSecret  string
	SessionTTL time.Duration

	StorageURL string
	URLSecret  string
	URLTTL     time.Duration
	MaxUpload  int64

	SMTP        notifier.SMTPConfig
	TraceOutput string
}

// Load membaca konfigurasi dari environment. .env dimuat terlebih dahulu oleh cmd.
func Load() (*AppConfig, error) {
	driver := strings.ToLower(GetEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}
	cfg := &AppConfig{
		Port:        GetEnv("APP_PORT", "3000"),
		Environment: strings.ToLower(GetEnv("ENVIRONMENT", "development")),
		DB: DBConfig{
			Driver:   driver,
			Host:     GetEnv("DB_HOST", "127.0.0.1"),
			Port:     GetEnv("DB_PORT", defaultPort),
			Name:     GetEnv("DB_DATABASE", "cuti_dinas"),
			User:     GetEnv("DB_USERNAME", "root"),
			Password: GetEnv("DB_PASSWORD", ""),
			SSLMode:  GetEnv("DB_SSLMODE", "disable"),
			DebugSQL: strings.ToLower(GetEnv("DEBUG_SQL", "")) == "true",
		},
		JWTSecret:  GetEnv("JWT_SECRET", ""),
		SessionTTL: GetEnvAsDuration("JWT_TTL", 24*time.Hour),
		StorageURL: GetEnv("STORAGE_URL", ""),
		URLSecret:  GetEnv("DOKUMEN_URL_SECRET", ""),
		URLTTL:     GetEnvAsDuration("DOKUMEN_URL_TTL", 60*time.Second),
		MaxUpload:  int64(GetEnvAsInt("MAX_UPLOAD_MB", 5)) << 20,
		SMTP: notifier.SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			Username: GetEnv("SMTP_USERNAME", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", ""),
		},
		TraceOutput: GetEnv("TRACE_OUTPUT", ""),
	}

	if driver != "mysql" && driver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER %q tidak didukung, gunakan mysql atau postgres", driver)
	}
	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET wajib diisi di production")
		}
		cfg.JWTSecret = "rahasia-pengembangan"
	}
	if cfg.StorageURL == "" {
		dir, err := filepath.Abs(GetEnv("STORAGE_DIR", filepath.Join("uploads", "dokumen")))
		if err != nil {
			return nil, fmt.Errorf("STORAGE_DIR: %w", err)
		}
		cfg.StorageURL = dir
	}
	if cfg.URLSecret == "" {
		cfg.URLSecret = cfg.JWTSecret + ":dokumen"
	}
	return cfg, nil
}
