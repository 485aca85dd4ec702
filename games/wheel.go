package games

import (
	"math/rand"
)

// WheelColor is a wheel segment category
type WheelColor string

const (
	WheelGray   WheelColor = "gray"
	WheelYellow WheelColor = "yellow"
	WheelRed    WheelColor = "red"
	WheelBlue   WheelColor = "blue"
	WheelGreen  WheelColor = "green"
)

// wheelForcedLossChance is applied before the weighted draw
const wheelForcedLossChance = 0.04

// wheelSegments is the weighted categorical distribution, weights out of 100
var wheelSegments = []struct {
	Color      WheelColor
	Weight     int
	Multiplier float64
}{
	{WheelGray, 50, 0},
	{WheelYellow, 25, 1.5},
	{WheelRed, 15, 2},
	{WheelBlue, 7, 3},
	{WheelGreen, 3, 5},
}

// SpinWheel draws a wheel color and its payout multiplier. A 4% forced-loss
// floor lands on gray before the weighted draw.
func SpinWheel(rng *rand.Rand) (WheelColor, float64) {
	if rng.Float64() < wheelForcedLossChance {
		return WheelGray, 0
	}

	roll := rng.Intn(100)
	for _, seg := range wheelSegments {
		if roll < seg.Weight {
			return seg.Color, seg.Multiplier
		}
		roll -= seg.Weight
	}
	return WheelGray, 0
}

// WheelMultiplier returns the payout multiplier for a color
func WheelMultiplier(color WheelColor) float64 {
	for _, seg := range wheelSegments {
		if seg.Color == color {
			return seg.Multiplier
		}
	}
	return 0
}
