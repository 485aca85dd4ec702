// Package games holds the pure outcome generators for every game kind. Each
// generator is stateless given a random source; the session engine owns all
// timing and settlement.
package games

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutcomeGeneration is reported when a generator fails. Callers receive a
// conservative fallback outcome alongside it so the session can still
// terminate and settle.
var ErrOutcomeGeneration = errors.New("outcome generation failure")

// round2 rounds a multiplier to 2 decimal places. All multipliers are rounded
// before they reach settlement.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func generationFailure(cause any) error {
	return fmt.Errorf("%w: %v", ErrOutcomeGeneration, cause)
}
