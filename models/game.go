package models

import (
	"time"

	"gorm.io/datatypes"
)

type GamePhase string

const (
	PhaseComeOut GamePhase = "come_out"
	PhasePoint   GamePhase = "point"
)

type GameStatus string

const (
	GameWaiting GameStatus = "waiting"
	GameActive  GameStatus = "active"
)

// Game is the single authoritative table state. Point is non-nil iff
// Phase is PhasePoint.
type Game struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Status        GameStatus     `json:"status"`
	Phase         GamePhase      `json:"phase"`
	Point         *int           `json:"point"`
	ShooterID     *uint          `json:"shooter_id"`
	TurnStartedAt *time.Time     `json:"turn_started_at"`
	Events        datatypes.JSON `json:"events"` // rolling log of recent table events
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// GameEvent is one entry of the Events log column.
type GameEvent struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}
