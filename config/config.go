package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	RedisAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	PayUKey  string
	PayUSalt string
	PayUMode string // TEST or LIVE

	// BaseURL is this service's public address, used to build the
	// surl/furl callback targets handed to the gateway.
	BaseURL string
	// FrontendBaseURL hosts the client screens we redirect to after
	// reconciliation.
	FrontendBaseURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		RedisAddr: getEnv("REDIS_URL", "localhost:6379"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "insurance"),

		PayUKey:  getEnv("PAYU_KEY", ""),
		PayUSalt: getEnv("PAYU_SALT", ""),
		PayUMode: getEnv("PAYU_MODE", "TEST"),

		BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
	}

	if AppConfig.PayUKey == "" || AppConfig.PayUSalt == "" {
		log.Println("Warning: Missing PAYU_KEY or PAYU_SALT in environment variables")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
