// Package voice derives the shimmer voice's mask from the already-
// selected anchor mask: COMPLEMENT (gap-filling, the default) or
// SHADOW (optional, offset-tracking) relationship.
package voice

import (
	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
	"github.com/duopulse/engine/internal/selector"
	"github.com/duopulse/engine/internal/zone"
)

// ShadowCouplingThreshold is the minimum voiceCoupling at which SHADOW
// mode is eligible to engage (§4.9 step 4).
const ShadowCouplingThreshold = 0.5

// Complement derives the shimmer mask by gap-filling: eligibility is
// every step not already claimed by the anchor, shimmer weights come
// from the effective shimmer table optionally blended with the
// inverse of the metric weights (to favor off-the-beat placement),
// and the selector runs with half the zone's usual min-spacing.
func Complement(anchorMask uint64, shimmerWeights, metricWeights []float32, offbeatBlend float32, shimmerTarget int, ez zone.EnergyZone, patternLength int, seed uint32) uint64 {
	if patternLength <= 0 {
		return 0
	}

	eligibility := allSteps(patternLength) &^ anchorMask

	var weights patternlen.FloatBuffer
	for i := 0; i < patternLength; i++ {
		w := shimmerWeights[i]
		if offbeatBlend > 0 {
			inverse := 1 - metricWeights[i]
			w = w*(1-offbeatBlend) + inverse*offbeatBlend
		}
		weights[i] = w
	}

	minSpacing := selector.MinSpacingForZone(ez) / 2
	if minSpacing < 1 {
		minSpacing = 1
	}

	return selector.Select(weights[:patternLength], eligibility, patternLength, shimmerTarget, minSpacing, seed, hashing.SlotGumbel)
}

// Shadow derives the shimmer mask by shifting the anchor mask by a
// seed-derived delta of +1 or -1 step, cyclically within
// patternLength. Only meaningful when voiceCoupling >= 0.5; callers
// are responsible for that gate.
func Shadow(anchorMask uint64, patternLength int, seed uint32) uint64 {
	if patternLength <= 0 {
		return 0
	}
	delta := 1
	if hashing.HashSlotToUnit(seed, hashing.SlotShadowOffset) < 0.5 {
		delta = -1
	}
	return shift(anchorMask, delta, patternLength)
}

// Resolve picks COMPLEMENT or SHADOW per voiceCoupling and returns the
// shimmer mask, guaranteeing disjointness from anchorMask (SHADOW
// overlaps are cleared in favor of the anchor, preserving the
// post-condition in §4.9).
func Resolve(anchorMask uint64, shimmerWeights, metricWeights []float32, offbeatBlend float32, shimmerTarget int, ez zone.EnergyZone, patternLength int, seed uint32, voiceCoupling float32, shadowEnabled bool) uint64 {
	if shadowEnabled && voiceCoupling >= ShadowCouplingThreshold {
		return Shadow(anchorMask, patternLength, seed) &^ anchorMask
	}
	return Complement(anchorMask, shimmerWeights, metricWeights, offbeatBlend, shimmerTarget, ez, patternLength, seed)
}

func allSteps(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

func shift(mask uint64, delta, n int) uint64 {
	full := allSteps(n)
	mask &= full
	d := delta % n
	if d < 0 {
		d += n
	}
	if d == 0 {
		return mask
	}
	return ((mask << uint(d)) | (mask >> uint(n-d))) & full
}
