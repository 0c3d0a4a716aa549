package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crapstable/craps-backend/models"
	"github.com/crapstable/craps-backend/services"
	"github.com/crapstable/craps-backend/store"
)

// API is the pull-based surface over the table: request/response
// equivalents of every realtime action.
type API struct {
	Table *services.Table
}

func New(table *services.Table) *API {
	return &API{Table: table}
}

// Join seats a new participant.
func (a *API) Join(c *gin.Context) {
	var req struct {
		Name string            `json:"name"`
		Role models.PlayerRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Name == "" {
		req.Name = "Player"
	}
	if req.Role == "" {
		req.Role = models.RolePlayer
	}

	result, err := a.Table.Join(req.Name, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to join game"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Bet places a wager for a player.
func (a *API) Bet(c *gin.Context) {
	var req struct {
		PlayerID uint           `json:"player_id" binding:"required"`
		BetType  models.BetType `json:"bet_type" binding:"required"`
		Amount   models.Cents   `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid bet parameters"})
		return
	}

	a.Table.Touch(req.PlayerID)
	result, err := a.Table.PlaceBet(req.PlayerID, req.BetType, req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place bet"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Roll rolls the dice for the shooter.
func (a *API) Roll(c *gin.Context) {
	var req struct {
		PlayerID uint `json:"player_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Player ID required"})
		return
	}

	a.Table.Touch(req.PlayerID)
	result, err := a.Table.RollDice(req.PlayerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to roll"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// State returns the current table snapshot (the polling fallback for
// clients without a push channel).
func (a *API) State(c *gin.Context) {
	// Piggyback idle cleanup on state polls, like the realtime loop does.
	if _, err := a.Table.CleanupIdle(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	snap, err := a.Table.State()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": snap})
}

// Player returns one player and their active bets.
func (a *API) Player(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Player ID required"})
		return
	}

	a.Table.Touch(uint(id))
	info, err := a.Table.PlayerInfo(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "info": info})
}
