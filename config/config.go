package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DefaultGameID is the single table every process serves.
const DefaultGameID uint = 1

// InitEnv loads .env and validates required vars.
func InitEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
}

// Port returns the HTTP listen port.
func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}
