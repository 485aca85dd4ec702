package games

import (
	"math/rand"
)

const (
	// MinesGridSize is the number of cells on the board
	MinesGridSize = 25
	// MinesMaxCount caps the number of mines so at least one safe cell exists
	MinesMaxCount = 24

	minesEdge = 0.96
)

// PlaceMines places mineCount mines uniformly at random among the grid cells,
// without replacement. Returned positions are cell indices in [0, MinesGridSize).
func PlaceMines(rng *rand.Rand, mineCount int) []int {
	return rng.Perm(MinesGridSize)[:mineCount]
}

// SafePlaceMines wraps PlaceMines so a generation failure yields a
// deterministic fallback layout (the first mineCount cells)
func SafePlaceMines(rng *rand.Rand, mineCount int) (mines []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			mines = make([]int, 0, mineCount)
			for i := 0; i < mineCount; i++ {
				mines = append(mines, i)
			}
			err = generationFailure(r)
		}
	}()
	return PlaceMines(rng, mineCount), nil
}

// MinesStepMultiplier is the multiplier growth for revealing one more safe
// cell when revealed cells are already open
func MinesStepMultiplier(revealed, mineCount int) float64 {
	remaining := MinesGridSize - revealed
	safe := MinesGridSize - mineCount - revealed
	return float64(remaining) / float64(safe) * minesEdge
}

// MinesMultiplier is the accrued multiplier after revealing the given number
// of safe cells, compounding the per-reveal step and rounded to 2 decimals
func MinesMultiplier(revealed, mineCount int) float64 {
	m := 1.0
	for i := 0; i < revealed; i++ {
		m *= MinesStepMultiplier(i, mineCount)
	}
	return round2(m)
}
