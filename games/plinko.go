package games

import (
	"math/rand"
)

// PlinkoRows is the number of peg rows a ball falls through
const PlinkoRows = 8

// plinkoRowBias is the per-row probability of stepping right
var plinkoRowBias = [PlinkoRows]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}

// plinkoMultipliers maps the landing column to its payout. The table is tuned
// so the walk's expectation stays below 1.
var plinkoMultipliers = [PlinkoRows + 1]float64{5.6, 2.1, 1.1, 1.0, 0.4, 1.0, 1.1, 2.1, 5.6}

// DropBall walks a ball down the board and returns the landing column, the
// step-by-step path (0 = left, 1 = right) and the slot multiplier
func DropBall(rng *rand.Rand) (column int, path []int, multiplier float64) {
	path = make([]int, PlinkoRows)
	for row := 0; row < PlinkoRows; row++ {
		if rng.Float64() < plinkoRowBias[row] {
			path[row] = 1
			column++
		}
	}
	return column, path, round2(plinkoMultipliers[column])
}

// PlinkoMultiplier returns the payout multiplier for a landing column
func PlinkoMultiplier(column int) float64 {
	if column < 0 || column >= len(plinkoMultipliers) {
		return 0
	}
	return plinkoMultipliers[column]
}
