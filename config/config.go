package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	APP_ENV string // "development" | "production"
	APP_URL string

	DODO_API_KEY        string
	DODO_API_BASE       string
	DODO_WEBHOOK_SECRET string

	PAYNOW_INTEGRATION_ID  string
	PAYNOW_INTEGRATION_KEY string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	SUPPORT_CONTACT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	APP_ENV = getEnv("APP_ENV", "development")
	if APP_ENV != "development" && APP_ENV != "production" {
		log.Fatalf("APP_ENV must be \"development\" or \"production\", got %q", APP_ENV)
	}
	APP_URL = getEnv("APP_URL", "http://localhost:5173")

	DODO_API_BASE = getEnv("DODO_API_BASE", "https://test.dodopayments.com")

	// Payment credentials fail closed in production. Development may run
	// without them, which switches checkout to the mock path and leaves the
	// webhook unsigned.
	if APP_ENV == "production" {
		DODO_API_KEY = mustEnv("DODO_API_KEY")
		DODO_WEBHOOK_SECRET = mustEnv("DODO_WEBHOOK_SECRET")
	} else {
		DODO_API_KEY = getEnv("DODO_API_KEY", "")
		DODO_WEBHOOK_SECRET = getEnv("DODO_WEBHOOK_SECRET", "")
		if DODO_WEBHOOK_SECRET == "" {
			log.Println("⚠️  DODO_WEBHOOK_SECRET not set: webhook signature verification is OFF (development only)")
		}
	}

	PAYNOW_INTEGRATION_ID = getEnv("PAYNOW_INTEGRATION_ID", "")
	PAYNOW_INTEGRATION_KEY = getEnv("PAYNOW_INTEGRATION_KEY", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	SUPPORT_CONTACT = getEnv("SUPPORT_CONTACT", "support@connect-ed.app")
}

func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
