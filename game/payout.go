package game

import "github.com/crapstable/craps-backend/models"

// Payout returns the total credited on a winning bet, stake included.
// total is the roll total (used by the field bet) and point the established
// point (used by odds bets); both may be ignored depending on the type.
func Payout(t models.BetType, amount models.Cents, total int, point *int) models.Cents {
	switch t {
	case models.BetPassLine, models.BetDontPass, models.BetCome, models.BetDontCome:
		return amount * 2 // even money

	case models.BetPassOdds, models.BetDontPassOdds:
		if point == nil {
			return amount
		}
		// True odds: 4/10 pay 2:1, 5/9 pay 3:2, 6/8 pay 6:5.
		switch *point {
		case 4, 10:
			return amount + amount*2
		case 5, 9:
			return amount + amount.MulRatio(3, 2)
		case 6, 8:
			return amount + amount.MulRatio(6, 5)
		default:
			return amount
		}

	case models.BetField:
		// 2 and 12 pay 2:1, the rest of the field pays even money.
		if total == 2 || total == 12 {
			return amount * 3
		}
		return amount * 2

	case models.BetAnyCraps:
		return amount * 8 // 7:1

	case models.BetAnySeven:
		return amount * 5 // 4:1

	case models.BetHardway4, models.BetHardway10:
		return amount * 8 // 7:1

	case models.BetHardway6, models.BetHardway8:
		return amount * 10 // 9:1

	case models.BetPlace4, models.BetPlace10:
		return amount + amount.MulRatio(9, 5)

	case models.BetPlace5, models.BetPlace9:
		return amount + amount.MulRatio(7, 5)

	case models.BetPlace6, models.BetPlace8:
		return amount + amount.MulRatio(7, 6)

	default:
		return amount * 2
	}
}

// MaxOddsMultiplier is the 3x-4x-5x cap on odds bets relative to the base
// line bet: 3x behind 4 and 10, 4x behind 5 and 9, 5x behind 6 and 8.
func MaxOddsMultiplier(point int) int64 {
	switch point {
	case 4, 10:
		return 3
	case 5, 9:
		return 4
	case 6, 8:
		return 5
	default:
		return 0
	}
}
