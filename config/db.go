package config

import (
	"errors"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/crapstable/craps-backend/models"
)

var DB *gorm.DB

// SetupDatabase connects to the DB, runs migrations and seeds the default
// game row. Provisioning happens before the table starts serving.
func SetupDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	DB = db
	log.Println("✅ Database connected and migrated")
	return db
}

// Migrate creates the schema and the default game.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Game{},
		&models.Player{},
		&models.Bet{},
		&models.Roll{},
	); err != nil {
		return err
	}
	return SeedDefaultGame(db)
}

// SeedDefaultGame ensures the single table row exists.
func SeedDefaultGame(db *gorm.DB) error {
	var g models.Game
	err := db.First(&g, DefaultGameID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&models.Game{
		ID:     DefaultGameID,
		Status: models.GameWaiting,
		Phase:  models.PhaseComeOut,
	}).Error
}
