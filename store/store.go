package store

import (
	"errors"
	"time"

	"github.com/crapstable/craps-backend/models"
)

// ErrNotFound is returned when a requested game or player does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for the table. The game core reads and
// writes exclusively through it and never depends on a storage format.
//
// WithTx runs fn against a store bound to one database transaction; every
// mutating table operation goes through it so a roll either fully commits
// (state, resolved bets, bankroll deltas) or has no visible effect.
type Store interface {
	WithTx(fn func(Store) error) error

	// Games
	GetGame(id uint) (*models.Game, error)
	UpdateGame(id uint, phase models.GamePhase, point *int, shooterID *uint, resetTurnTimer bool) error
	SetGameStatus(id uint, status models.GameStatus) error
	AppendGameEvent(id uint, message string) error

	// Players
	AddPlayer(gameID uint, name string, bankroll models.Cents, role models.PlayerRole) (*models.Player, error)
	GetPlayer(id uint) (*models.Player, error)
	ActivePlayers(gameID uint) ([]models.Player, error)
	CountActivePlayers(gameID uint, role models.PlayerRole) (int64, error)
	UpdatePlayerBankroll(id uint, bankroll models.Cents) error
	SetPlayerInactive(id uint) error
	TouchPlayer(id uint) error
	CleanupIdlePlayers(gameID uint, timeout time.Duration) ([]uint, error)

	// Bets
	PlaceBet(playerID, gameID uint, betType models.BetType, amount models.Cents) (*models.Bet, error)
	ActiveBets(gameID uint) ([]models.Bet, error)
	ActiveBetsByType(gameID uint, betType models.BetType) ([]models.Bet, error)
	PlayerActiveBets(playerID uint) ([]models.Bet, error)
	ResolveBet(betID uint, status models.BetStatus, payout models.Cents) error
	SetBetPointNumber(betID uint, point int) error
	ComeBetsOnPoint(gameID uint, point int) ([]models.Bet, error)

	// Rolls
	RecordRoll(roll *models.Roll) error
	RecentRolls(gameID uint, limit int) ([]models.Roll, error)
}
