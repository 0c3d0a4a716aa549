package models

import "time"

type PlayerRole string

const (
	RolePlayer    PlayerRole = "player"
	RoleSpectator PlayerRole = "spectator"
)

// Player is a participant at the table. Players are never deleted, only
// marked inactive when they leave or time out.
type Player struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	GameID     uint       `json:"game_id"`
	Name       string     `json:"name"`
	Bankroll   Cents      `json:"bankroll"`
	Role       PlayerRole `json:"role"`
	IsActive   bool       `json:"is_active"`
	LastActive time.Time  `json:"last_active"`
	JoinedAt   time.Time  `gorm:"autoCreateTime" json:"joined_at"`
}
