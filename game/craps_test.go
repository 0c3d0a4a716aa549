package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crapstable/craps-backend/models"
)

func intp(n int) *int { return &n }

func TestComeOutNatural(t *testing.T) {
	for _, dice := range [][2]int{{3, 4}, {5, 6}} {
		o := Resolve(models.PhaseComeOut, nil, dice[0], dice[1])
		assert.Equal(t, NaturalWin, o.Kind)
		assert.Equal(t, ResultWin, o.PassLine)
		assert.Equal(t, ResultLose, o.DontPass)
		assert.Equal(t, models.PhaseComeOut, o.Phase)
		assert.Nil(t, o.Point)
		assert.False(t, o.PhaseChanged)
	}
}

func TestComeOutCraps(t *testing.T) {
	tests := []struct {
		die1, die2 int
		dontPass   LineResult
	}{
		{1, 1, ResultWin},  // 2
		{1, 2, ResultWin},  // 3
		{6, 6, ResultPush}, // 12 pushes Don't Pass
	}
	for _, tt := range tests {
		o := Resolve(models.PhaseComeOut, nil, tt.die1, tt.die2)
		assert.Equal(t, Craps, o.Kind)
		assert.Equal(t, ResultLose, o.PassLine)
		assert.Equal(t, tt.dontPass, o.DontPass)
		assert.Equal(t, models.PhaseComeOut, o.Phase)
	}
}

func TestComeOutEstablishesPoint(t *testing.T) {
	o := Resolve(models.PhaseComeOut, nil, 2, 2)
	assert.Equal(t, PointEstablished, o.Kind)
	assert.Equal(t, models.PhasePoint, o.Phase)
	require.NotNil(t, o.Point)
	assert.Equal(t, 4, *o.Point)
	assert.True(t, o.PhaseChanged)
	assert.Equal(t, ResultNone, o.PassLine)
	assert.Equal(t, ResultNone, o.DontPass)
}

func TestPointMade(t *testing.T) {
	o := Resolve(models.PhasePoint, intp(6), 2, 4)
	assert.Equal(t, PointMade, o.Kind)
	assert.Equal(t, ResultWin, o.PassLine)
	assert.Equal(t, ResultLose, o.DontPass)
	assert.Equal(t, models.PhaseComeOut, o.Phase)
	assert.Nil(t, o.Point)
	assert.True(t, o.PhaseChanged)
	// The established point survives on the outcome for odds payouts.
	require.NotNil(t, o.PriorPoint)
	assert.Equal(t, 6, *o.PriorPoint)
}

func TestSevenOut(t *testing.T) {
	o := Resolve(models.PhasePoint, intp(5), 3, 4)
	assert.Equal(t, SevenOut, o.Kind)
	assert.Equal(t, ResultLose, o.PassLine)
	assert.Equal(t, ResultWin, o.DontPass)
	assert.Equal(t, models.PhaseComeOut, o.Phase)
	assert.Nil(t, o.Point)
	assert.True(t, o.PhaseChanged)
}

func TestPointNoDecision(t *testing.T) {
	o := Resolve(models.PhasePoint, intp(8), 1, 4)
	assert.Equal(t, NoDecision, o.Kind)
	assert.Equal(t, ResultNone, o.PassLine)
	assert.Equal(t, ResultNone, o.DontPass)
	assert.Equal(t, models.PhasePoint, o.Phase)
	require.NotNil(t, o.Point)
	assert.Equal(t, 8, *o.Point)
	assert.False(t, o.PhaseChanged)
}

func TestFieldResultAllTotals(t *testing.T) {
	wins := map[int]bool{2: true, 3: true, 4: true, 9: true, 10: true, 11: true, 12: true}
	for total := 2; total <= 12; total++ {
		want := ResultLose
		if wins[total] {
			want = ResultWin
		}
		assert.Equal(t, want, fieldResult(total), "total %d", total)
	}
}

func TestFixedSourceReplaysScript(t *testing.T) {
	src := &FixedSource{Rolls: [][2]int{{1, 2}, {3, 4}}}
	d1, d2 := src.Roll()
	assert.Equal(t, [2]int{1, 2}, [2]int{d1, d2})
	d1, d2 = src.Roll()
	assert.Equal(t, [2]int{3, 4}, [2]int{d1, d2})
}

func TestRandSourceBounds(t *testing.T) {
	src := NewRandSource()
	for i := 0; i < 1000; i++ {
		d1, d2 := src.Roll()
		require.GreaterOrEqual(t, d1, 1)
		require.LessOrEqual(t, d1, 6)
		require.GreaterOrEqual(t, d2, 1)
		require.LessOrEqual(t, d2, 6)
	}
}
