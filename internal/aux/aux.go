// Package aux derives the auxiliary voice: a style-selected weight
// table, attenuated where it collides with the anchor/shimmer voices,
// fed through the selector with a density-derived hit target.
package aux

import (
	"math"

	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
	"github.com/duopulse/engine/internal/selector"
)

// Style is the aux rhythmic template chosen from axisY.
type Style int

const (
	Offbeat8ths Style = iota
	Syncopated16ths
	SeedVaried
)

func (s Style) String() string {
	switch s {
	case Offbeat8ths:
		return "Offbeat8ths"
	case Syncopated16ths:
		return "Syncopated16ths"
	case SeedVaried:
		return "SeedVaried"
	default:
		return "Unknown"
	}
}

const (
	axisYOffbeatBoundary    = 0.33
	axisYSyncopatedBoundary = 0.66
)

// SelectStyle maps axisY to an aux Style.
func SelectStyle(axisY float32) Style {
	switch {
	case axisY < axisYOffbeatBoundary:
		return Offbeat8ths
	case axisY < axisYSyncopatedBoundary:
		return Syncopated16ths
	default:
		return SeedVaried
	}
}

// SubStyle is the seed-chosen variant used under SeedVaried.
type SubStyle int

const (
	Polyrhythmic SubStyle = iota
	Displaced
	InverseMetric
)

func chooseSubStyle(seed uint32) SubStyle {
	u := hashing.HashSlotToUnit(seed, hashing.SlotAuxSubstyle)
	switch {
	case u < 1.0/3.0:
		return Polyrhythmic
	case u < 2.0/3.0:
		return Displaced
	default:
		return InverseMetric
	}
}

// DensityFactor is the fixed multiplier converting energy into the
// aux hit-count target. Unpinned by name elsewhere; chosen to keep
// aux noticeably sparser than the anchor voice across all zones.
const DensityFactor = 0.5

// Weights computes the raw (pre-collision-attenuation) weight table
// for style at the given pattern length.
func Weights(style Style, seed uint32, metricWeights []float32, patternLength int) patternlen.FloatBuffer {
	var w patternlen.FloatBuffer
	switch style {
	case Offbeat8ths:
		for i := 0; i < patternLength; i++ {
			if i%2 == 1 {
				w[i] = 0.8
			} else {
				w[i] = 0.2
			}
		}
	case Syncopated16ths:
		for i := 0; i < patternLength; i++ {
			if i%4 == 1 || i%4 == 3 {
				w[i] = 0.7
			} else {
				w[i] = 0.35
			}
		}
	case SeedVaried:
		sub := chooseSubStyle(seed)
		for i := 0; i < patternLength; i++ {
			switch sub {
			case Polyrhythmic:
				if i%3 == 0 {
					w[i] = 0.8
				}
			case Displaced:
				if i%4 == 2 || i%8 == 5 {
					w[i] = 0.75
				}
			case InverseMetric:
				w[i] = 1 - 0.5*metricWeights[i]
			}
		}
	}
	return w
}

// AttenuateCollisions scales weights down by 0.3 at any step already
// claimed by anchorMask or shimmerMask, discouraging but not
// forbidding overlap.
func AttenuateCollisions(weights []float32, anchorMask, shimmerMask uint64) {
	occupied := anchorMask | shimmerMask
	for i := range weights {
		if occupied&(uint64(1)<<uint(i)) != 0 {
			weights[i] *= 0.3
		}
	}
}

// Target computes the aux hit-count target, independent of the
// anchor/shimmer targets.
func Target(energy float32, patternLength int) int {
	if energy <= 0 {
		return 0
	}
	k := int(math.Round(float64(energy) * float64(patternLength) * DensityFactor))
	if k < 0 {
		k = 0
	}
	return k
}

// Generate runs the full aux pipeline: style selection, weight table,
// collision attenuation, and selection at min-spacing 1.
func Generate(axisY, energy float32, anchorMask, shimmerMask uint64, metricWeights []float32, patternLength int, seed uint32) uint64 {
	if patternLength <= 0 {
		return 0
	}
	style := SelectStyle(axisY)
	buf := Weights(style, seed, metricWeights, patternLength)
	weights := buf[:patternLength]
	AttenuateCollisions(weights, anchorMask, shimmerMask)

	k := Target(energy, patternLength)
	return selector.Select(weights, allSteps(patternLength), patternLength, k, 1, seed, hashing.SlotGumbel)
}

func allSteps(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
