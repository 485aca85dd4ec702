package games

import (
	"math/rand"
)

// DiceMultiplier is the payout when the player out-rolls the dealer
const DiceMultiplier = 1.9

// DiceRoll holds one player roll and one dealer roll
type DiceRoll struct {
	Player int
	Dealer int
}

// RollDice rolls two independent six-sided dice
func RollDice(rng *rand.Rand) DiceRoll {
	return DiceRoll{
		Player: rng.Intn(6) + 1,
		Dealer: rng.Intn(6) + 1,
	}
}

// PlayerWins reports whether the player's roll beats the dealer's. Ties count
// as a loss.
func (r DiceRoll) PlayerWins() bool {
	return r.Player > r.Dealer
}
