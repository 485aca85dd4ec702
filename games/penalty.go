package games

import (
	"math/rand"
)

// Direction is a penalty shot or dive direction
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionMiddle Direction = "middle"
	DirectionRight  Direction = "right"
)

// PenaltyMultiplier is the payout on a goal
const PenaltyMultiplier = 1.5

// penaltyForcedSaveChance keeps the game sub-fair: a 2/3 goal chance at 1.5x
// would otherwise be exactly break-even
const penaltyForcedSaveChance = 0.04

// Directions lists the valid shot directions
var Directions = []Direction{DirectionLeft, DirectionMiddle, DirectionRight}

// KeeperDive returns the goalkeeper's uniformly random dive direction
func KeeperDive(rng *rand.Rand) Direction {
	return Directions[rng.Intn(len(Directions))]
}

// PenaltyShot resolves a shot in the given direction. It scores iff the
// keeper dives elsewhere and the forced-save floor does not trigger.
func PenaltyShot(rng *rand.Rand, shot Direction) (dive Direction, goal bool) {
	if rng.Float64() < penaltyForcedSaveChance {
		return shot, false
	}
	dive = KeeperDive(rng)
	return dive, shot != dive
}
