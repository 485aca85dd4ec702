package games

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(20240817))
}

func TestCoinflip_HouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 100_000
	var returned float64
	for i := 0; i < iterations; i++ {
		if FlipCoin(rng) == Heads {
			returned += CoinflipMultiplier
		}
	}

	ratio := returned / iterations
	assert.Less(t, ratio, 1.0, "average payout ratio must stay below 1")
	assert.InDelta(t, 0.975, ratio, 0.015)
}

func TestDice_HouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 100_000
	var returned float64
	for i := 0; i < iterations; i++ {
		if RollDice(rng).PlayerWins() {
			returned += DiceMultiplier
		}
	}

	// P(player > dealer) = 15/36, tie counts as a loss
	ratio := returned / iterations
	assert.Less(t, ratio, 1.0)
	assert.InDelta(t, 15.0/36.0*DiceMultiplier, ratio, 0.02)
}

func TestDice_TieLoses(t *testing.T) {
	roll := DiceRoll{Player: 4, Dealer: 4}
	assert.False(t, roll.PlayerWins())
}

func TestCrashPoint_Bounds(t *testing.T) {
	rng := newRNG()

	instant := 0
	for i := 0; i < 100_000; i++ {
		point := CrashPoint(rng)
		require.GreaterOrEqual(t, point, 1.0)
		require.LessOrEqual(t, point, CrashCap)
		// floored to 2 decimal places
		require.InDelta(t, point, math.Floor(point*100)/100, 1e-9)
		if point == 1.0 {
			instant++
		}
	}

	// 1% forced floor plus the distribution's own mass near 1.0
	assert.Greater(t, instant, 1000)
	assert.Less(t, instant, 4000)
}

func TestCrash_HouseEdgeAtFixedTargets(t *testing.T) {
	// A player who always cashes out at a fixed target must lose in
	// expectation regardless of the target chosen.
	targets := []float64{1.2, 1.5, 2.0, 5.0}

	for _, target := range targets {
		rng := newRNG()

		const iterations = 100_000
		var returned float64
		for i := 0; i < iterations; i++ {
			if CrashPoint(rng) >= target {
				returned += target
			}
		}

		ratio := returned / iterations
		assert.Lessf(t, ratio, 1.0, "target %.2f must be sub-fair", target)
	}
}

func TestSafeCrashPoint_FallbackOnPanic(t *testing.T) {
	// A nil random source makes the generator panic; the wrapper must
	// degrade to the instant-crash fallback.
	point, err := SafeCrashPoint(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutcomeGeneration)
	assert.Equal(t, CrashFallbackPoint, point)
}

func TestPlaceMines(t *testing.T) {
	rng := newRNG()

	for _, count := range []int{1, 3, 10, 24} {
		mines := PlaceMines(rng, count)
		require.Len(t, mines, count)

		seen := make(map[int]bool)
		for _, pos := range mines {
			assert.GreaterOrEqual(t, pos, 0)
			assert.Less(t, pos, MinesGridSize)
			assert.False(t, seen[pos], "mine positions must be unique")
			seen[pos] = true
		}
	}
}

func TestSafePlaceMines_FallbackOnPanic(t *testing.T) {
	mines, err := SafePlaceMines(nil, 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutcomeGeneration)
	assert.Equal(t, []int{0, 1, 2}, mines)
}

func TestMinesMultiplier(t *testing.T) {
	// 25 cells, 3 mines: first reveal pays 25/22 * 0.96 = 1.05
	assert.InDelta(t, 1.05, MinesMultiplier(1, 3), 1e-9)
	// second reveal compounds with 24/21 * 0.96
	assert.InDelta(t, 1.15, MinesMultiplier(2, 3), 1e-9)
	// no reveals, no growth
	assert.Equal(t, 1.0, MinesMultiplier(0, 3))
}

func TestMines_SingleRevealHouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 100_000
	mult := MinesMultiplier(1, 3)
	var returned float64
	for i := 0; i < iterations; i++ {
		mines := PlaceMines(rng, 3)
		pick := rng.Intn(MinesGridSize)
		hit := false
		for _, pos := range mines {
			if pos == pick {
				hit = true
				break
			}
		}
		if !hit {
			returned += mult
		}
	}

	// P(safe) * multiplier = 22/25 * 1.05 = 0.924
	ratio := returned / iterations
	assert.Less(t, ratio, 1.0)
	assert.InDelta(t, 0.924, ratio, 0.02)
}

func TestWheel_HouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 500_000
	var returned float64
	colors := make(map[WheelColor]int)
	for i := 0; i < iterations; i++ {
		color, mult := SpinWheel(rng)
		colors[color]++
		returned += mult
	}

	// Weighted EV is 1.035, cut below 1 by the 4% forced-loss floor
	ratio := returned / iterations
	assert.Less(t, ratio, 1.0)
	assert.InDelta(t, 0.9936, ratio, 0.01)

	// gray picks up the forced-loss mass on top of its 50% weight
	assert.Greater(t, float64(colors[WheelGray])/iterations, 0.50)
	assert.InDelta(t, 0.03*0.96, float64(colors[WheelGreen])/iterations, 0.005)
}

func TestPenalty_HouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 100_000
	var returned float64
	for i := 0; i < iterations; i++ {
		shot := Directions[rng.Intn(len(Directions))]
		if _, goal := PenaltyShot(rng, shot); goal {
			returned += PenaltyMultiplier
		}
	}

	// 2/3 goal chance * 1.5 payout, shaved by the forced-save floor
	ratio := returned / iterations
	assert.Less(t, ratio, 1.0)
	assert.InDelta(t, 0.96, ratio, 0.02)
}

func TestPlinko_HouseEdge(t *testing.T) {
	rng := newRNG()

	const iterations = 100_000
	var returned float64
	for i := 0; i < iterations; i++ {
		column, path, mult := DropBall(rng)
		require.Len(t, path, PlinkoRows)
		require.GreaterOrEqual(t, column, 0)
		require.LessOrEqual(t, column, PlinkoRows)
		returned += mult
	}

	ratio := returned / iterations
	assert.Less(t, ratio, 1.0)
	assert.InDelta(t, 0.9625, ratio, 0.01)
}

func TestStreakPayout(t *testing.T) {
	assert.Equal(t, 1.0, StreakPayout(0))
	assert.InDelta(t, 1.96, StreakPayout(1), 1e-9)
	assert.InDelta(t, 3.84, StreakPayout(2), 1e-9)

	// the hard cap forces settlement at the accrued multiplier
	capPayout := StreakPayout(StreakMaxRounds)
	assert.InDelta(t, math.Pow(1.96, 15), capPayout, 1.0)
}
