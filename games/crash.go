package games

import (
	"math"
	"math/rand"
)

const (
	// CrashCap is the maximum crash point
	CrashCap = 30.0
	// CrashFallbackPoint is the conservative outcome used when generation
	// fails: the round crashes instantly
	CrashFallbackPoint = 1.0

	crashEdge          = 0.96
	crashShape         = 1.7
	instantCrashChance = 0.01
)

// CrashPoint draws a crash point in [1.0, CrashCap]. The distribution is
// skewed low and carries a 1% instant-crash floor. The result is floored
// (not rounded) to 2 decimal places.
func CrashPoint(rng *rand.Rand) float64 {
	if rng.Float64() < instantCrashChance {
		return 1.0
	}

	r := rng.Float64()
	point := 1 + (math.Pow(1/(1-r), 1/crashShape)-1)*crashEdge
	if point > CrashCap || math.IsInf(point, 1) || math.IsNaN(point) {
		point = CrashCap
	}

	return math.Floor(point*100) / 100
}

// SafeCrashPoint wraps CrashPoint so a generation failure yields the instant
// crash fallback instead of tearing down the session
func SafeCrashPoint(rng *rand.Rand) (point float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			point = CrashFallbackPoint
			err = generationFailure(r)
		}
	}()
	return CrashPoint(rng), nil
}
