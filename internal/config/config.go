package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBDriver   string // "sqlite" or "postgres"
	DBPath     string // sqlite store file
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Telegram
	BotToken        string
	AdminTelegramID int64

	// Credential issuer (QITO)
	QitoAPIURL  string
	QitoTimeout time.Duration

	// Admin panel
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminUsername string
	AdminPassword string
	AdminToken    string

	// Inventory alerting
	LowStockThreshold int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "bot_database.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "vpnshop"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		BotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		AdminTelegramID: parseInt64(getEnv("ADMIN_TELEGRAM_ID", "0")),

		QitoAPIURL:  getEnv("QITO_API_URL", "http://localhost:3000/api/users"),
		QitoTimeout: parseDuration(getEnv("QITO_TIMEOUT", "30s")),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     parseDuration(getEnv("JWT_EXPIRY", "12h")),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),

		LowStockThreshold: parseInt(getEnv("LOW_STOCK_THRESHOLD", "10")),

		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
