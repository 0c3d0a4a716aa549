package models

import (
	"math"
	"strconv"
)

// Cents is a currency amount in integer minor units. Bankrolls and payouts
// are stored and compared in cents so odds-limit checks are exact.
type Cents int64

// CentsFromDollars converts a dollar amount to cents, rounding to the
// nearest cent.
func CentsFromDollars(d float64) Cents {
	return Cents(math.Round(d * 100))
}

func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// MulRatio returns c*num/den rounded half up to the nearest cent.
// Used for fractional payout odds like 7:6 and 3:2.
func (c Cents) MulRatio(num, den int64) Cents {
	v := int64(c) * num
	q := v / den
	if (v%den)*2 >= den {
		q++
	}
	return Cents(q)
}

// MarshalJSON renders the amount as a dollar figure with two decimals,
// matching what clients display.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Dollars(), 'f', 2, 64)), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	d, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*c = CentsFromDollars(d)
	return nil
}
