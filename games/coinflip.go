package games

import (
	"math/rand"
)

// CoinSide is one face of a coin
type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

// CoinflipMultiplier is the payout on a correct call. Fair would be 2.0.
const CoinflipMultiplier = 1.95

// StreakMultiplier is the per-round payout growth for progressive coinflip
const StreakMultiplier = 1.96

// StreakMaxRounds is the round cap after which a streak session is forced to
// settle as a win at the accrued multiplier
const StreakMaxRounds = 15

// FlipCoin returns a uniformly random coin side
func FlipCoin(rng *rand.Rand) CoinSide {
	if rng.Intn(2) == 0 {
		return Heads
	}
	return Tails
}

// StreakPayout returns the accrued multiplier after n correct guesses
func StreakPayout(rounds int) float64 {
	m := 1.0
	for i := 0; i < rounds; i++ {
		m *= StreakMultiplier
	}
	return round2(m)
}
