package game

import (
	"fmt"

	"github.com/crapstable/craps-backend/models"
)

// OutcomeKind classifies what a roll did to the table.
type OutcomeKind string

const (
	NaturalWin       OutcomeKind = "natural_win"
	Craps            OutcomeKind = "craps"
	PointEstablished OutcomeKind = "point_established"
	PointMade        OutcomeKind = "point_made"
	SevenOut         OutcomeKind = "seven_out"
	NoDecision       OutcomeKind = "no_decision"
)

// LineResult is the win/lose/push signal a roll emits for one bet family.
type LineResult string

const (
	ResultNone LineResult = ""
	ResultWin  LineResult = "win"
	ResultLose LineResult = "lose"
	ResultPush LineResult = "push"
)

// Outcome is the full record of one roll: the dice, the phase transition
// and the per-family signals the resolver consumes.
type Outcome struct {
	Die1  int `json:"die1"`
	Die2  int `json:"die2"`
	Total int `json:"total"`

	Phase models.GamePhase `json:"phase"` // phase after the roll
	Point *int             `json:"point"` // point after the roll

	// Table state before the roll; odds payouts need the point that was
	// on when the decision roll landed.
	PriorPhase models.GamePhase `json:"-"`
	PriorPoint *int             `json:"-"`

	Kind         OutcomeKind `json:"outcome"`
	PassLine     LineResult  `json:"pass_line_result"`
	DontPass     LineResult  `json:"dont_pass_result"`
	Field        LineResult  `json:"field_result"`
	PhaseChanged bool        `json:"phase_changed"`
	Message      string      `json:"message"`
}

// Resolve runs one roll through the come-out/point state machine. It is a
// pure function: phase and point describe the table before the roll, the
// returned Outcome describes it after.
func Resolve(phase models.GamePhase, point *int, die1, die2 int) Outcome {
	total := die1 + die2
	o := Outcome{
		Die1:       die1,
		Die2:       die2,
		Total:      total,
		Phase:      phase,
		Point:      point,
		PriorPhase: phase,
		PriorPoint: point,
		Field:      fieldResult(total),
	}

	if phase == models.PhaseComeOut {
		resolveComeOut(&o)
	} else {
		resolvePoint(&o)
	}
	return o
}

func resolveComeOut(o *Outcome) {
	o.Message = fmt.Sprintf("Come Out Roll: %d", o.Total)

	switch {
	case o.Total == 7 || o.Total == 11:
		o.Kind = NaturalWin
		o.PassLine = ResultWin
		o.DontPass = ResultLose
		o.Message += " - Natural! Pass Line wins!"
	case o.Total == 2 || o.Total == 3 || o.Total == 12:
		o.Kind = Craps
		o.PassLine = ResultLose
		if o.Total == 12 {
			// 12 is a push for Don't Pass
			o.DontPass = ResultPush
			o.Message += " - Craps! Pass Line loses, Don't Pass pushes."
		} else {
			o.DontPass = ResultWin
			o.Message += " - Craps! Pass Line loses, Don't Pass wins!"
		}
	default:
		point := o.Total
		o.Kind = PointEstablished
		o.Phase = models.PhasePoint
		o.Point = &point
		o.PhaseChanged = true
		o.Message += fmt.Sprintf(" - Point is %d", point)
	}
}

func resolvePoint(o *Outcome) {
	point := *o.Point
	o.Message = fmt.Sprintf("Point Roll: %d (Point is %d)", o.Total, point)

	switch {
	case o.Total == point:
		o.Kind = PointMade
		o.PassLine = ResultWin
		o.DontPass = ResultLose
		o.Phase = models.PhaseComeOut
		o.Point = nil
		o.PhaseChanged = true
		o.Message += " - Point made! Pass Line wins!"
	case o.Total == 7:
		o.Kind = SevenOut
		o.PassLine = ResultLose
		o.DontPass = ResultWin
		o.Phase = models.PhaseComeOut
		o.Point = nil
		o.PhaseChanged = true
		o.Message += " - Seven out! Don't Pass wins!"
	default:
		o.Kind = NoDecision
		o.Message += " - No decision, keep rolling."
	}
}

// fieldResult is computed on every roll regardless of phase.
// The field wins on 2, 3, 4, 9, 10, 11 and 12.
func fieldResult(total int) LineResult {
	switch total {
	case 2, 3, 4, 9, 10, 11, 12:
		return ResultWin
	default:
		return ResultLose
	}
}
