package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/crapstable/craps-backend/controllers"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	g := r.Group("/api")

	// ----------------------
	// Table actions
	// ----------------------
	g.POST("/join", api.Join) // Join the table
	g.POST("/bet", api.Bet)   // Place a bet
	g.POST("/roll", api.Roll) // Roll the dice (shooter only)

	// ----------------------
	// Polling fallback
	// ----------------------
	g.GET("/state", api.State)       // Full table snapshot
	g.GET("/player/:id", api.Player) // One player and their bets
}
