// Package guardrail applies the two post-selection repair passes that
// keep the anchor voice musically sane: beat-1 enforcement and
// max-gap repair. Both run after selection and before velocity, in a
// fixed order, with no backtracking (§4.10).
//
// Callers should not invoke these on a silent pattern (energy == 0);
// they assume anchorMask already carries at least one hit.
package guardrail

import (
	"math"

	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/zone"
)

const beat1ShapeThreshold float32 = 0.7

// maxGapAt32 is each non-MINIMAL zone's gap cap at a 32-step pattern
// length; other lengths scale proportionally.
var maxGapAt32 = map[zone.EnergyZone]int{
	zone.EnergyGroove: 8,
	zone.EnergyBuild:  6,
	zone.EnergyPeak:   4,
}

// Apply runs beat-1 enforcement followed by max-gap repair, in order.
func Apply(anchorMask, eligibility uint64, shape float32, ez zone.EnergyZone, patternLength int, seed uint32) uint64 {
	mask := ApplyBeat1(anchorMask, shape, seed)
	return ApplyMaxGap(mask, eligibility, ez, patternLength)
}

// ApplyBeat1 force-sets step 0 when shape < 0.7. At higher shape step 0
// is skipped (cleared) with rising probability (up to 40% at
// shape=1.0) and force-set otherwise.
func ApplyBeat1(anchorMask uint64, shape float32, seed uint32) uint64 {
	if shape < beat1ShapeThreshold {
		return anchorMask | 1
	}
	p := (shape - beat1ShapeThreshold) / 0.3 * 0.4
	if p > 0.4 {
		p = 0.4
	}
	if hashing.HashSlotToUnit(seed, hashing.SlotBeat1) < p {
		return anchorMask &^ 1
	}
	return anchorMask | 1
}

// ApplyMaxGap repeatedly finds the longest cyclic run of unset steps
// in mask and, if it exceeds the zone's cap, inserts one hit at the
// run's midpoint snapped to the nearest eligible, unset step. It stops
// once no run exceeds the cap or no eligible insertion point remains.
func ApplyMaxGap(mask, eligibility uint64, ez zone.EnergyZone, patternLength int) uint64 {
	if patternLength <= 0 || mask == 0 {
		return mask
	}
	cap := zoneMaxGap(ez, patternLength)
	if cap >= patternLength {
		return mask
	}

	for iter := 0; iter < patternLength; iter++ {
		start, length := longestZeroRun(mask, patternLength)
		if length <= cap {
			break
		}
		mid := (start + length/2) % patternLength
		step, ok := nearestEligible(mid, eligibility, mask, patternLength)
		if !ok {
			break
		}
		mask |= uint64(1) << uint(step)
	}
	return mask
}

func zoneMaxGap(ez zone.EnergyZone, patternLength int) int {
	if ez == zone.EnergyMinimal {
		return patternLength
	}
	base, ok := maxGapAt32[ez]
	if !ok {
		return patternLength
	}
	scaled := int(math.Round(float64(base) * float64(patternLength) / 32.0))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// longestZeroRun finds the longest cyclic run of unset bits in the
// low n bits of mask, assuming mask != 0. Returns the run's start step
// and its length.
func longestZeroRun(mask uint64, n int) (start, length int) {
	bestStart, bestLen := 0, 0
	curStart, curLen := -1, 0
	for i := 0; i < 2*n; i++ {
		idx := i % n
		if mask&(uint64(1)<<uint(idx)) == 0 {
			if curStart == -1 {
				curStart = i
			}
			curLen++
			if curLen > bestLen && curLen <= n {
				bestLen = curLen
				bestStart = curStart % n
			}
		} else {
			curStart = -1
			curLen = 0
		}
	}
	return bestStart, bestLen
}

func nearestEligible(mid int, eligibility, mask uint64, n int) (int, bool) {
	bestStep, bestDist := -1, n+1
	for i := 0; i < n; i++ {
		if eligibility&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		if mask&(uint64(1)<<uint(i)) != 0 {
			continue
		}
		if d := cyclicDistance(i, mid, n); d < bestDist {
			bestDist = d
			bestStep = i
		}
	}
	if bestStep == -1 {
		return 0, false
	}
	return bestStep, true
}

func cyclicDistance(a, b, n int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if other := n - d; other < d {
		return other
	}
	return d
}
