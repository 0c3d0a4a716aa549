package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/crapstable/craps-backend/game"
	"github.com/crapstable/craps-backend/models"
	"github.com/crapstable/craps-backend/store"
	"github.com/crapstable/craps-backend/utils/logger"
)

const (
	// MaxPlayers is the number of seats at the table; later joiners are
	// seated as spectators.
	MaxPlayers = 8

	// StartingBankroll is handed to every new player.
	StartingBankroll = models.Cents(100000) // $1000.00

	// The shooter has 20s to roll; non-shooters may bet during the first
	// 15s of the turn.
	ShooterTurnSeconds   = 20
	BettingWindowSeconds = 15

	// Players silent for longer than this are marked inactive.
	IdleTimeout = 60 * time.Second

	recentRollLimit = 5
)

// Table coordinates one craps table: joins, bet placement, rolls and
// shooter rotation. Its mutex is the serialization boundary for all
// mutating operations, so one mutation is in flight per table at a time
// and bankroll check-then-deduct is atomic.
type Table struct {
	mu     sync.Mutex
	gameID uint
	store  store.Store
	dice   game.Source
	now    func() time.Time
}

func NewTable(st store.Store, gameID uint, dice game.Source) *Table {
	return &Table{
		gameID: gameID,
		store:  st,
		dice:   dice,
		now:    time.Now,
	}
}

// TimerInfo is the lazily derived turn/betting clock.
type TimerInfo struct {
	ShooterTimeRemaining int  `json:"shooter_time_remaining"`
	BettingTimeRemaining int  `json:"betting_time_remaining"`
	BettingClosed        bool `json:"betting_closed"`
}

type JoinResult struct {
	Success  bool              `json:"success"`
	PlayerID uint              `json:"player_id"`
	Role     models.PlayerRole `json:"role"`
	Message  string            `json:"message"`
}

type BetResult struct {
	Success     bool         `json:"success"`
	BetID       uint         `json:"bet_id,omitempty"`
	NewBankroll models.Cents `json:"new_bankroll"`
	Message     string       `json:"message"`
}

type RollResult struct {
	Success bool          `json:"success"`
	Roll    *game.Outcome `json:"roll,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Snapshot is a self-consistent view of a fully committed table state.
type Snapshot struct {
	Game            *models.Game    `json:"game"`
	Players         []models.Player `json:"players"`
	RecentRolls     []models.Roll   `json:"recent_rolls"`
	ActiveBetsCount int             `json:"active_bets_count"`
	ShooterID       *uint           `json:"shooter_id"`
	Timer           TimerInfo       `json:"timer"`
}

type PlayerInfo struct {
	Player     *models.Player `json:"player"`
	ActiveBets []models.Bet   `json:"active_bets"`
}

// Join seats a new participant. When all seats are taken the joiner is
// admitted as a spectator instead. The first seated player (or the
// earliest-joined one if the shooter went inactive) becomes the shooter.
func (t *Table) Join(name string, role models.PlayerRole) (*JoinResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if role != models.RolePlayer && role != models.RoleSpectator {
		role = models.RolePlayer
	}

	var result *JoinResult
	err := t.store.WithTx(func(tx store.Store) error {
		// Free up seats held by idle players first.
		if err := t.cleanupIdle(tx); err != nil {
			return err
		}

		message := "Joined as player"
		if role == models.RolePlayer {
			count, err := tx.CountActivePlayers(t.gameID, models.RolePlayer)
			if err != nil {
				return err
			}
			if count >= MaxPlayers {
				role = models.RoleSpectator
				message = "Game is full. Joined as spectator."
			}
		}
		if role == models.RoleSpectator && message == "Joined as player" {
			message = "Joined as spectator"
		}

		p, err := tx.AddPlayer(t.gameID, name, StartingBankroll, role)
		if err != nil {
			return err
		}

		if err := t.ensureShooter(tx); err != nil {
			return err
		}

		logger.Infof("player %d (%s) joined game %d as %s", p.ID, name, t.gameID, role)
		result = &JoinResult{Success: true, PlayerID: p.ID, Role: role, Message: message}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaceBet validates and books a wager. Preconditions are checked in
// order and the first failure wins; a failed placement mutates nothing.
func (t *Table) PlaceBet(playerID uint, betType models.BetType, amount models.Cents) (*BetResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var result *BetResult
	err := t.store.WithTx(func(tx store.Store) error {
		reject := func(format string, args ...any) error {
			result = &BetResult{Success: false, Message: fmt.Sprintf(format, args...)}
			return nil
		}

		if !betType.Valid() {
			return reject("Unknown bet type: %s", betType)
		}
		if amount <= 0 {
			return reject("Bet amount must be positive")
		}

		p, err := tx.GetPlayer(playerID)
		if err == store.ErrNotFound {
			return reject("Player not found or inactive")
		}
		if err != nil {
			return err
		}
		if !p.IsActive {
			return reject("Player not found or inactive")
		}
		if p.Role == models.RoleSpectator {
			return reject("Spectators cannot place bets")
		}

		g, err := tx.GetGame(t.gameID)
		if err != nil {
			return err
		}

		// Non-shooters can only bet while the betting window is open.
		if g.ShooterID == nil || *g.ShooterID != playerID {
			if t.timerInfo(g).BettingClosed {
				return reject("Betting time has closed. Wait for next roll.")
			}
		}

		// The point number itself is off for place bets.
		if betType.IsPlace() && g.Phase == models.PhasePoint && g.Point != nil &&
			betType.PlaceTarget() == *g.Point {
			return reject("Cannot place bet on the point number. Use Pass Line and Odds instead.")
		}

		if betType == models.BetPassOdds || betType == models.BetDontPassOdds {
			if msg := t.validateOddsBet(tx, g, playerID, betType, amount); msg != "" {
				return reject("%s", msg)
			}
		}

		if p.Bankroll < amount {
			return reject("Insufficient funds")
		}

		newBankroll := p.Bankroll - amount
		if err := tx.UpdatePlayerBankroll(playerID, newBankroll); err != nil {
			return err
		}
		bet, err := tx.PlaceBet(playerID, t.gameID, betType, amount)
		if err != nil {
			return err
		}

		logger.Infof("player %d placed %s for $%.2f", playerID, betType, amount.Dollars())
		result = &BetResult{
			Success:     true,
			BetID:       bet.ID,
			NewBankroll: newBankroll,
			Message:     "Bet placed successfully",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateOddsBet enforces the Vegas 3x-4x-5x odds rules. Returns a
// rejection message, or "" if the bet is allowed.
func (t *Table) validateOddsBet(tx store.Store, g *models.Game, playerID uint, betType models.BetType, amount models.Cents) string {
	if g.Phase != models.PhasePoint || g.Point == nil {
		return "Odds bets can only be placed after a point is established"
	}

	baseType := models.BetPassLine
	baseName := "Pass Line"
	if betType == models.BetDontPassOdds {
		baseType = models.BetDontPass
		baseName = "Don't Pass"
	}

	playerBets, err := tx.PlayerActiveBets(playerID)
	if err != nil {
		return "Could not load your active bets"
	}

	var base *models.Bet
	var currentOdds models.Cents
	for i := range playerBets {
		switch playerBets[i].Type {
		case baseType:
			if base == nil {
				base = &playerBets[i]
			}
		case betType:
			currentOdds += playerBets[i].Amount
		}
	}

	if base == nil {
		return fmt.Sprintf("You must have a %s bet before placing odds", baseName)
	}

	mult := game.MaxOddsMultiplier(*g.Point)
	maxAmount := base.Amount * models.Cents(mult)
	if currentOdds+amount > maxAmount {
		return fmt.Sprintf("Odds bet exceeds maximum. Max: $%.2f (%dx your $%.2f bet), Current: $%.2f",
			maxAmount.Dollars(), mult, base.Amount.Dollars(), currentOdds.Dollars())
	}
	return ""
}

// RollDice rolls for the shooter: the roll's full effect (phase
// transition, every bet resolution, the roll record) commits in one
// transaction before the next mutation is accepted.
func (t *Table) RollDice(playerID uint) (*RollResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var result *RollResult
	err := t.store.WithTx(func(tx store.Store) error {
		g, err := tx.GetGame(t.gameID)
		if err != nil {
			return err
		}
		if g.ShooterID == nil || *g.ShooterID != playerID {
			result = &RollResult{Success: false, Message: "Only the shooter can roll"}
			return nil
		}

		die1, die2 := t.dice.Roll()
		outcome := game.Resolve(g.Phase, g.Point, die1, die2)
		logger.Infof("game %d: %s", t.gameID, outcome.Message)

		if err := tx.RecordRoll(&models.Roll{
			GameID:     t.gameID,
			PlayerID:   playerID,
			Die1:       die1,
			Die2:       die2,
			Total:      outcome.Total,
			Phase:      outcome.Phase,
			PointValue: outcome.Point,
		}); err != nil {
			return err
		}

		// A number that just became the point turns its place bets off:
		// they are returned to their owners.
		if outcome.PhaseChanged && outcome.Kind == game.PointEstablished && outcome.Point != nil {
			if err := t.returnPlaceBetsOnPoint(tx, *outcome.Point); err != nil {
				return err
			}
		}

		if err := tx.UpdateGame(t.gameID, outcome.Phase, outcome.Point, g.ShooterID, true); err != nil {
			return err
		}

		if err := t.resolveBets(tx, &outcome); err != nil {
			return err
		}

		if err := tx.AppendGameEvent(t.gameID, outcome.Message); err != nil {
			return err
		}

		if outcome.Kind == game.SevenOut && outcome.PhaseChanged {
			if err := t.rotateShooter(tx); err != nil {
				return err
			}
		}

		result = &RollResult{Success: true, Roll: &outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveBets runs one pass over the active bet set. Terminal bets are
// never revisited: the query only returns active rows. Place bets are the
// one family that pays out while staying active.
func (t *Table) resolveBets(tx store.Store, o *game.Outcome) error {
	bets, err := tx.ActiveBets(t.gameID)
	if err != nil {
		return err
	}

	for _, bet := range bets {
		var (
			resolve bool
			status  models.BetStatus
			payout  models.Cents
		)

		switch {
		case bet.Type == models.BetPassLine:
			if o.PassLine == game.ResultWin {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			} else if o.PassLine == game.ResultLose {
				resolve, status = true, models.BetLost
			}

		case bet.Type == models.BetDontPass:
			switch o.DontPass {
			case game.ResultWin:
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			case game.ResultLose:
				resolve, status = true, models.BetLost
			case game.ResultPush:
				resolve, status, payout = true, models.BetPushed, bet.Amount
			}

		case bet.Type == models.BetPassOdds:
			// Odds ride on the established point: paid at true odds when
			// the point is made, lost on a seven-out.
			if o.Kind == game.PointMade {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, o.PriorPoint)
			} else if o.Kind == game.SevenOut {
				resolve, status = true, models.BetLost
			}

		case bet.Type == models.BetDontPassOdds:
			if o.Kind == game.SevenOut {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, o.PriorPoint)
			} else if o.Kind == game.PointMade {
				resolve, status = true, models.BetLost
			}

		case bet.Type == models.BetField:
			if o.Field == game.ResultWin {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			} else {
				resolve, status = true, models.BetLost
			}

		case bet.Type == models.BetCome:
			resolve, status, payout, err = t.resolveComeBet(tx, &bet, o, false)
			if err != nil {
				return err
			}

		case bet.Type == models.BetDontCome:
			resolve, status, payout, err = t.resolveComeBet(tx, &bet, o, true)
			if err != nil {
				return err
			}

		case bet.Type == models.BetAnySeven:
			if o.Total == 7 {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			} else {
				resolve, status = true, models.BetLost
			}

		case bet.Type == models.BetAnyCraps:
			if o.Total == 2 || o.Total == 3 || o.Total == 12 {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			} else {
				resolve, status = true, models.BetLost
			}

		case bet.Type.IsHardway():
			target := bet.Type.HardwayTarget()
			if o.Total == target && o.Die1 == o.Die2 {
				resolve, status, payout = true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil)
			} else if o.Total == target || o.Total == 7 {
				// Easy way or seven-out loses; otherwise the bet rides.
				resolve, status = true, models.BetLost
			}

		case bet.Type.IsPlace():
			target := bet.Type.PlaceTarget()
			if o.Total == target {
				// Place bets pay out and stay on the table.
				win := game.Payout(bet.Type, bet.Amount, o.Total, nil)
				if err := t.creditPlayer(tx, bet.PlayerID, win); err != nil {
					return err
				}
				logger.Infof("place bet won (stays active): player %d, %s, payout $%.2f",
					bet.PlayerID, bet.Type, win.Dollars())
			} else if o.Total == 7 {
				resolve, status = true, models.BetLost
			}
		}

		if !resolve {
			continue
		}
		if err := tx.ResolveBet(bet.ID, status, payout); err != nil {
			return err
		}
		if payout > 0 {
			if err := t.creditPlayer(tx, bet.PlayerID, payout); err != nil {
				return err
			}
			logger.Infof("bet resolved: player %d, %s, status %s, payout $%.2f",
				bet.PlayerID, bet.Type, status, payout.Dollars())
		}
	}
	return nil
}

// resolveComeBet handles the two-phase come/don't-come lifecycle. Until
// the bet travels to a number it is evaluated as its own come-out roll;
// afterwards it resolves purely against that number versus 7.
func (t *Table) resolveComeBet(tx store.Store, bet *models.Bet, o *game.Outcome, dont bool) (bool, models.BetStatus, models.Cents, error) {
	if bet.PointNumber == nil {
		switch {
		case o.Total == 7 || o.Total == 11:
			if dont {
				return true, models.BetLost, 0, nil
			}
			return true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil), nil
		case o.Total == 2 || o.Total == 3:
			if dont {
				return true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil), nil
			}
			return true, models.BetLost, 0, nil
		case o.Total == 12:
			if dont {
				// 12 is a push for don't come.
				return true, models.BetPushed, bet.Amount, nil
			}
			return true, models.BetLost, 0, nil
		default:
			// 4, 5, 6, 8, 9, 10: the bet travels to the number.
			if err := tx.SetBetPointNumber(bet.ID, o.Total); err != nil {
				return false, "", 0, err
			}
			return false, "", 0, nil
		}
	}

	point := *bet.PointNumber
	switch {
	case o.Total == point:
		if dont {
			return true, models.BetLost, 0, nil
		}
		return true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil), nil
	case o.Total == 7:
		if dont {
			return true, models.BetWon, game.Payout(bet.Type, bet.Amount, o.Total, nil), nil
		}
		return true, models.BetLost, 0, nil
	}
	return false, "", 0, nil
}

// returnPlaceBetsOnPoint pushes active place bets riding the number that
// just became the point, refunding the stake.
func (t *Table) returnPlaceBetsOnPoint(tx store.Store, point int) error {
	placeType := models.PlaceTypeFor(point)
	if placeType == "" {
		return nil
	}

	bets, err := tx.ActiveBetsByType(t.gameID, placeType)
	if err != nil {
		return err
	}
	for _, bet := range bets {
		if err := t.creditPlayer(tx, bet.PlayerID, bet.Amount); err != nil {
			return err
		}
		if err := tx.ResolveBet(bet.ID, models.BetPushed, bet.Amount); err != nil {
			return err
		}
		logger.Infof("place bet returned: player %d had $%.2f on %s (point was established)",
			bet.PlayerID, bet.Amount.Dollars(), placeType)
	}
	return nil
}

func (t *Table) creditPlayer(tx store.Store, playerID uint, amount models.Cents) error {
	p, err := tx.GetPlayer(playerID)
	if err != nil {
		return err
	}
	return tx.UpdatePlayerBankroll(playerID, p.Bankroll+amount)
}

// State returns the current snapshot. The shooter timeout is evaluated
// lazily here, so a stale shooter is rotated out before the snapshot is
// taken.
func (t *Table) State() (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var snap *Snapshot
	err := t.store.WithTx(func(tx store.Store) error {
		g, err := tx.GetGame(t.gameID)
		if err != nil {
			return err
		}

		rotated, err := t.checkShooterTimeout(tx, g)
		if err != nil {
			return err
		}
		if rotated {
			if g, err = tx.GetGame(t.gameID); err != nil {
				return err
			}
		}

		players, err := tx.ActivePlayers(t.gameID)
		if err != nil {
			return err
		}
		rolls, err := tx.RecentRolls(t.gameID, recentRollLimit)
		if err != nil {
			return err
		}
		bets, err := tx.ActiveBets(t.gameID)
		if err != nil {
			return err
		}

		snap = &Snapshot{
			Game:            g,
			Players:         players,
			RecentRolls:     rolls,
			ActiveBetsCount: len(bets),
			ShooterID:       g.ShooterID,
			Timer:           t.timerInfo(g),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// PlayerInfo returns one player and their active bets.
func (t *Table) PlayerInfo(playerID uint) (*PlayerInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	bets, err := t.store.PlayerActiveBets(playerID)
	if err != nil {
		return nil, err
	}
	return &PlayerInfo{Player: p, ActiveBets: bets}, nil
}

// Touch refreshes a player's liveness timestamp (actions and heartbeats).
func (t *Table) Touch(playerID uint) {
	if err := t.store.TouchPlayer(playerID); err != nil {
		logger.Errorf("touch player %d: %v", playerID, err)
	}
}

// CleanupIdle deactivates players idle for longer than IdleTimeout and
// rotates the shooter role away from any of them. Returns the ids of the
// players that were deactivated.
func (t *Table) CleanupIdle() ([]uint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cleaned []uint
	err := t.store.WithTx(func(tx store.Store) error {
		var err error
		cleaned, err = t.cleanupIdleIDs(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cleaned, nil
}

func (t *Table) cleanupIdle(tx store.Store) error {
	_, err := t.cleanupIdleIDs(tx)
	return err
}

func (t *Table) cleanupIdleIDs(tx store.Store) ([]uint, error) {
	cleaned, err := tx.CleanupIdlePlayers(t.gameID, IdleTimeout)
	if err != nil {
		return nil, err
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	logger.Infof("game %d: deactivated %d idle players", t.gameID, len(cleaned))

	g, err := tx.GetGame(t.gameID)
	if err != nil {
		return nil, err
	}
	if g.ShooterID != nil {
		for _, id := range cleaned {
			if id == *g.ShooterID {
				if err := t.rotateShooter(tx); err != nil {
					return nil, err
				}
				break
			}
		}
	}
	return cleaned, nil
}

// ensureShooter assigns the earliest-joined active player as shooter when
// there is none, or when the current shooter has gone inactive.
func (t *Table) ensureShooter(tx store.Store) error {
	g, err := tx.GetGame(t.gameID)
	if err != nil {
		return err
	}

	if g.ShooterID != nil {
		shooter, err := tx.GetPlayer(*g.ShooterID)
		if err != nil && err != store.ErrNotFound {
			return err
		}
		if err == nil && shooter.IsActive {
			return nil
		}
	}

	next := t.firstSeatedPlayer(tx)
	if next == nil {
		return nil
	}
	if err := tx.UpdateGame(t.gameID, g.Phase, g.Point, &next.ID, true); err != nil {
		return err
	}
	logger.Infof("game %d: player %d is the shooter", t.gameID, next.ID)
	return tx.SetGameStatus(t.gameID, models.GameActive)
}

func (t *Table) firstSeatedPlayer(tx store.Store) *models.Player {
	players, err := tx.ActivePlayers(t.gameID)
	if err != nil {
		return nil
	}
	for i := range players {
		if players[i].Role == models.RolePlayer {
			return &players[i]
		}
	}
	return nil
}

// rotateShooter advances the shooter to the next seated active player in
// join order, circularly, and restarts the turn clock.
func (t *Table) rotateShooter(tx store.Store) error {
	players, err := tx.ActivePlayers(t.gameID)
	if err != nil {
		return err
	}

	seated := players[:0:0]
	for _, p := range players {
		if p.Role == models.RolePlayer {
			seated = append(seated, p)
		}
	}
	if len(seated) == 0 {
		return nil
	}

	g, err := tx.GetGame(t.gameID)
	if err != nil {
		return err
	}

	current := 0
	if g.ShooterID != nil {
		for i, p := range seated {
			if p.ID == *g.ShooterID {
				current = i
				break
			}
		}
	}
	next := seated[(current+1)%len(seated)].ID

	logger.Infof("game %d: shooter rotated to player %d", t.gameID, next)
	return tx.UpdateGame(t.gameID, g.Phase, g.Point, &next, true)
}

// checkShooterTimeout rotates the shooter when their 20s turn has
// elapsed. Evaluated on state reads, not by a background timer.
func (t *Table) checkShooterTimeout(tx store.Store, g *models.Game) (bool, error) {
	if g.ShooterID == nil || g.TurnStartedAt == nil {
		return false, nil
	}
	elapsed := int(t.now().Sub(*g.TurnStartedAt).Seconds())
	if elapsed < ShooterTurnSeconds {
		return false, nil
	}
	logger.Infof("game %d: shooter %d timed out, rotating", t.gameID, *g.ShooterID)
	if err := t.rotateShooter(tx); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Table) timerInfo(g *models.Game) TimerInfo {
	if g.ShooterID == nil || g.TurnStartedAt == nil {
		return TimerInfo{
			ShooterTimeRemaining: ShooterTurnSeconds,
			BettingTimeRemaining: BettingWindowSeconds,
		}
	}
	elapsed := int(t.now().Sub(*g.TurnStartedAt).Seconds())
	return TimerInfo{
		ShooterTimeRemaining: max(0, ShooterTurnSeconds-elapsed),
		BettingTimeRemaining: max(0, BettingWindowSeconds-elapsed),
		BettingClosed:        elapsed >= BettingWindowSeconds,
	}
}
