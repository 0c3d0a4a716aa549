package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsFromDollars(t *testing.T) {
	assert.Equal(t, Cents(1000), CentsFromDollars(10))
	assert.Equal(t, Cents(1050), CentsFromDollars(10.50))
	assert.Equal(t, Cents(5001), CentsFromDollars(50.01))
	assert.Equal(t, Cents(0), CentsFromDollars(0))
}

func TestMulRatioRoundsHalfUp(t *testing.T) {
	// 7:6 on $10.00 is $11.666..., rounded to $11.67.
	assert.Equal(t, Cents(1167), Cents(1000).MulRatio(7, 6))
	// 3:2 on an odd cent amount.
	assert.Equal(t, Cents(1502), Cents(1001).MulRatio(3, 2))
	// Exact ratios stay exact.
	assert.Equal(t, Cents(1800), Cents(1000).MulRatio(9, 5))
	assert.Equal(t, Cents(1400), Cents(1000).MulRatio(7, 5))
}

func TestCentsJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Cents(2167))
	require.NoError(t, err)
	assert.Equal(t, "21.67", string(raw))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte("10.5"), &c))
	assert.Equal(t, Cents(1050), c)

	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, Cents(2167), c)
}

func TestBetTypeHelpers(t *testing.T) {
	assert.True(t, BetPassLine.Valid())
	assert.False(t, BetType("parlay").Valid())

	assert.Equal(t, 6, BetPlace6.PlaceTarget())
	assert.Equal(t, 0, BetField.PlaceTarget())
	assert.Equal(t, 8, BetHardway8.HardwayTarget())

	assert.Equal(t, BetPlace10, PlaceTypeFor(10))
	assert.Equal(t, BetType(""), PlaceTypeFor(7))
}
