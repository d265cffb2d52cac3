package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	// WhatsApp gateway. Empty URL selects the log-only client (dev mode).
	WAGatewayURL   string
	WAGatewayToken string
}

func LoadEnv() Env {
	// .env is optional; deployments may set variables directly.
	_ = godotenv.Load()

	return Env{
		AppAddr: getenvDefault("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenvDefault("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenvDefault("DB_HOST", "127.0.0.1:3306"),
		DBName: getenvDefault("DB_NAME", "tour_app"),

		WAGatewayURL:   strings.TrimSpace(os.Getenv("WA_GATEWAY_URL")),
		WAGatewayToken: strings.TrimSpace(os.Getenv("WA_GATEWAY_TOKEN")),
	}
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
