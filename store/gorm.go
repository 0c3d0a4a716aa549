package store

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/crapstable/craps-backend/models"
)

const maxGameEvents = 20

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// --- Games ---

func (s *GormStore) GetGame(id uint) (*models.Game, error) {
	var g models.Game
	if err := s.db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) UpdateGame(id uint, phase models.GamePhase, point *int, shooterID *uint, resetTurnTimer bool) error {
	updates := map[string]any{
		"phase":      phase,
		"point":      point,
		"shooter_id": shooterID,
	}
	if resetTurnTimer {
		updates["turn_started_at"] = time.Now()
	}
	return s.db.Model(&models.Game{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) SetGameStatus(id uint, status models.GameStatus) error {
	return s.db.Model(&models.Game{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) AppendGameEvent(id uint, message string) error {
	g, err := s.GetGame(id)
	if err != nil {
		return err
	}

	var events []models.GameEvent
	if len(g.Events) > 0 {
		_ = json.Unmarshal(g.Events, &events)
	}
	events = append(events, models.GameEvent{
		Time:    time.Now().Format("15:04:05"),
		Message: message,
	})
	if len(events) > maxGameEvents {
		events = events[len(events)-maxGameEvents:]
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return s.db.Model(&models.Game{}).Where("id = ?", id).Update("events", datatypes.JSON(raw)).Error
}

// --- Players ---

func (s *GormStore) AddPlayer(gameID uint, name string, bankroll models.Cents, role models.PlayerRole) (*models.Player, error) {
	p := models.Player{
		GameID:     gameID,
		Name:       name,
		Bankroll:   bankroll,
		Role:       role,
		IsActive:   true,
		LastActive: time.Now(),
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) GetPlayer(id uint) (*models.Player, error) {
	var p models.Player
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) ActivePlayers(gameID uint) ([]models.Player, error) {
	var players []models.Player
	err := s.db.
		Where("game_id = ? AND is_active = ?", gameID, true).
		Order("joined_at ASC, id ASC").
		Find(&players).Error
	return players, err
}

func (s *GormStore) CountActivePlayers(gameID uint, role models.PlayerRole) (int64, error) {
	var count int64
	err := s.db.Model(&models.Player{}).
		Where("game_id = ? AND is_active = ? AND role = ?", gameID, true, role).
		Count(&count).Error
	return count, err
}

func (s *GormStore) UpdatePlayerBankroll(id uint, bankroll models.Cents) error {
	return s.db.Model(&models.Player{}).Where("id = ?", id).Update("bankroll", bankroll).Error
}

func (s *GormStore) SetPlayerInactive(id uint) error {
	return s.db.Model(&models.Player{}).Where("id = ?", id).Update("is_active", false).Error
}

func (s *GormStore) TouchPlayer(id uint) error {
	return s.db.Model(&models.Player{}).Where("id = ?", id).Update("last_active", time.Now()).Error
}

func (s *GormStore) CleanupIdlePlayers(gameID uint, timeout time.Duration) ([]uint, error) {
	cutoff := time.Now().Add(-timeout)

	var idle []models.Player
	err := s.db.
		Where("game_id = ? AND is_active = ? AND last_active < ?", gameID, true, cutoff).
		Find(&idle).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(idle))
	for _, p := range idle {
		if err := s.SetPlayerInactive(p.ID); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// --- Bets ---

func (s *GormStore) PlaceBet(playerID, gameID uint, betType models.BetType, amount models.Cents) (*models.Bet, error) {
	b := models.Bet{
		PlayerID: playerID,
		GameID:   gameID,
		Type:     betType,
		Amount:   amount,
		Status:   models.BetActive,
	}
	if err := s.db.Create(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) ActiveBets(gameID uint) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.
		Where("game_id = ? AND status = ?", gameID, models.BetActive).
		Order("id ASC").
		Find(&bets).Error
	return bets, err
}

func (s *GormStore) ActiveBetsByType(gameID uint, betType models.BetType) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.
		Where("game_id = ? AND status = ? AND bet_type = ?", gameID, models.BetActive, betType).
		Find(&bets).Error
	return bets, err
}

func (s *GormStore) PlayerActiveBets(playerID uint) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.
		Where("player_id = ? AND status = ?", playerID, models.BetActive).
		Find(&bets).Error
	return bets, err
}

func (s *GormStore) ResolveBet(betID uint, status models.BetStatus, payout models.Cents) error {
	return s.db.Model(&models.Bet{}).Where("id = ?", betID).Updates(map[string]any{
		"status":      status,
		"payout":      payout,
		"resolved_at": time.Now(),
	}).Error
}

func (s *GormStore) SetBetPointNumber(betID uint, point int) error {
	return s.db.Model(&models.Bet{}).Where("id = ?", betID).Update("point_number", point).Error
}

func (s *GormStore) ComeBetsOnPoint(gameID uint, point int) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.
		Where("game_id = ? AND status = ? AND bet_type IN ? AND point_number = ?",
			gameID, models.BetActive, []models.BetType{models.BetCome, models.BetDontCome}, point).
		Find(&bets).Error
	return bets, err
}

// --- Rolls ---

func (s *GormStore) RecordRoll(roll *models.Roll) error {
	return s.db.Create(roll).Error
}

func (s *GormStore) RecentRolls(gameID uint, limit int) ([]models.Roll, error) {
	var rolls []models.Roll
	err := s.db.
		Where("game_id = ?", gameID).
		Order("id DESC").
		Limit(limit).
		Find(&rolls).Error
	return rolls, err
}
