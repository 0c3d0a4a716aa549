package models

import "time"

// BetType is the closed set of wagers the table accepts.
type BetType string

const (
	BetPassLine     BetType = "pass_line"
	BetDontPass     BetType = "dont_pass"
	BetPassOdds     BetType = "pass_odds"
	BetDontPassOdds BetType = "dont_pass_odds"
	BetCome         BetType = "come"
	BetDontCome     BetType = "dont_come"
	BetField        BetType = "field"
	BetAnyCraps     BetType = "any_craps"
	BetAnySeven     BetType = "any_seven"

	BetHardway4  BetType = "hardway_4"
	BetHardway6  BetType = "hardway_6"
	BetHardway8  BetType = "hardway_8"
	BetHardway10 BetType = "hardway_10"

	BetPlace4  BetType = "place_4"
	BetPlace5  BetType = "place_5"
	BetPlace6  BetType = "place_6"
	BetPlace8  BetType = "place_8"
	BetPlace9  BetType = "place_9"
	BetPlace10 BetType = "place_10"
)

var placeTargets = map[BetType]int{
	BetPlace4: 4, BetPlace5: 5, BetPlace6: 6,
	BetPlace8: 8, BetPlace9: 9, BetPlace10: 10,
}

var hardwayTargets = map[BetType]int{
	BetHardway4: 4, BetHardway6: 6, BetHardway8: 8, BetHardway10: 10,
}

var allBetTypes = map[BetType]bool{
	BetPassLine: true, BetDontPass: true, BetPassOdds: true, BetDontPassOdds: true,
	BetCome: true, BetDontCome: true, BetField: true, BetAnyCraps: true, BetAnySeven: true,
	BetHardway4: true, BetHardway6: true, BetHardway8: true, BetHardway10: true,
	BetPlace4: true, BetPlace5: true, BetPlace6: true, BetPlace8: true,
	BetPlace9: true, BetPlace10: true,
}

func (t BetType) Valid() bool {
	return allBetTypes[t]
}

func (t BetType) IsPlace() bool {
	_, ok := placeTargets[t]
	return ok
}

// PlaceTarget returns the number a place bet rides on, or 0 for other types.
func (t BetType) PlaceTarget() int {
	return placeTargets[t]
}

func (t BetType) IsHardway() bool {
	_, ok := hardwayTargets[t]
	return ok
}

// HardwayTarget returns the total a hardway bet needs, or 0 for other types.
func (t BetType) HardwayTarget() int {
	return hardwayTargets[t]
}

// PlaceTypeFor maps a point number to its place bet type.
func PlaceTypeFor(number int) BetType {
	for t, n := range placeTargets {
		if n == number {
			return t
		}
	}
	return ""
}

type BetStatus string

const (
	BetActive BetStatus = "active"
	BetWon    BetStatus = "won"
	BetLost   BetStatus = "lost"
	BetPushed BetStatus = "pushed"
)

// Bet is a wager held by a player. Once Status leaves BetActive the row is
// terminal and never re-evaluated. PointNumber is used only by come and
// don't come bets once they travel to a number.
type Bet struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PlayerID    uint       `json:"player_id"`
	GameID      uint       `json:"game_id"`
	Type        BetType    `gorm:"column:bet_type" json:"bet_type"`
	Amount      Cents      `json:"amount"`
	Status      BetStatus  `json:"status"`
	Payout      Cents      `json:"payout"`
	PointNumber *int       `json:"point_number,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
