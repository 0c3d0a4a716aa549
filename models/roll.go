package models

import "time"

// Roll is one entry of the append-only roll log.
type Roll struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GameID     uint      `json:"game_id"`
	PlayerID   uint      `json:"player_id"`
	Die1       int       `json:"die1"`
	Die2       int       `json:"die2"`
	Total      int       `json:"total"`
	Phase      GamePhase `json:"phase"`
	PointValue *int      `json:"point_value"`
	RolledAt   time.Time `gorm:"autoCreateTime" json:"rolled_at"`
}
