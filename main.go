package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/crapstable/craps-backend/config"
	"github.com/crapstable/craps-backend/controllers"
	"github.com/crapstable/craps-backend/game"
	"github.com/crapstable/craps-backend/routes"
	"github.com/crapstable/craps-backend/services"
	"github.com/crapstable/craps-backend/store"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(api *controllers.API, hub *services.Hub) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, api)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket table endpoint
	r.GET("/ws", hub.HandleWS)

	return r
}

func main() {
	// Load env variables
	config.InitEnv()

	// Connect to database
	db := config.SetupDatabase()

	// Wire the table core
	st := store.NewGormStore(db)
	table := services.NewTable(st, config.DefaultGameID, game.NewRandSource())
	hub := services.NewHub(table)
	api := controllers.New(table)

	// Deactivate idle players every 10 seconds
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if cleaned, err := table.CleanupIdle(); err == nil && len(cleaned) > 0 {
				hub.BroadcastState()
			}
		}
	}()

	// Setup Gin router
	router := setupRouter(api, hub)

	// Start server
	port := config.Port()
	log.Printf("🚀 Craps Backend server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
