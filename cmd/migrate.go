package main

import (
	"log"

	"github.com/crapstable/craps-backend/config"
)

func main() {
	config.InitEnv()
	db := config.SetupDatabase() // connects + migrates + seeds
	_ = db
	log.Println("✅ Database migration completed successfully")
}
