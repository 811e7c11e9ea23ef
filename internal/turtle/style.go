package turtle

import (
	"math"

	"github.com/aretw0/ltree/pkg/ports"
)

const (
	widthFactor   = 0.9
	alphaCeiling  = 1.5
	leafBaseGreen = 100
	leafGreenSpan = 100
	angleJitter   = 10.0
)

// BranchColor is the stroke hue of every segment; only its alpha varies.
var BranchColor = ports.RGBA{R: 165, G: 100, B: 25, A: 1}

// SegmentLength is the drawn length of an F at the given branch level.
func SegmentLength(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Ceil(base / float64(level))
}

// SegmentWidth tapers from the trunk to the tips. It is never negative.
func SegmentWidth(maxLevel, level int) float64 {
	return math.Max(0, RawSegmentWidth(maxLevel, level))
}

// RawSegmentWidth is the unclamped taper. It goes negative past maxLevel
// and still offsets the turtle there.
func RawSegmentWidth(maxLevel, level int) float64 {
	return widthFactor * float64(maxLevel-level)
}

// SegmentAlpha fades distal branches. A signature without brackets
// (maxLevel 0) is calibrated as if its deepest level were 1.
func SegmentAlpha(maxLevel, level int) float64 {
	if maxLevel < 1 {
		maxLevel = 1
	}
	a := alphaCeiling - float64(level)/float64(maxLevel)
	return math.Min(1, math.Max(0, a))
}

// LeafSize is the radius of a leaf before its vertical 2x stretch.
func LeafSize(iterations int, base float64) float64 {
	return (float64(iterations) + base/10) / 10
}

// LeafGreen maps a uniform sample in [0, 1) to the green channel of a leaf.
func LeafGreen(u float64) uint8 {
	return uint8(leafBaseGreen + math.Round(leafGreenSpan*clampUnit(u)))
}

// JitterAngle perturbs a base angle in degrees by up to ±5 degrees.
func JitterAngle(base, u float64) float64 {
	return base + angleJitter*(clampUnit(u)-0.5)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clampUnit(u float64) float64 {
	if u < 0 || math.IsNaN(u) {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
