// Package selector implements the Gumbel Top-K sampler: seed-
// deterministic weighted sampling without replacement under an
// eligibility mask and a hard minimum-spacing constraint. It is the
// one stochastic-looking decision point most of the engine's voices
// route through (anchor, shimmer, aux all call Select).
package selector

import (
	"math"

	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
	"github.com/duopulse/engine/internal/zone"
)

const epsilon = 1e-6

// MinSpacingForZone returns the minimum cyclic spacing enforced
// between accepted hits for a given EnergyZone.
func MinSpacingForZone(ez zone.EnergyZone) int {
	switch ez {
	case zone.EnergyMinimal:
		return 4
	case zone.EnergyGroove:
		return 2
	default: // BUILD, PEAK
		return 1
	}
}

type ranked struct {
	step  int
	score float32
}

// Select chooses up to k steps from weights[:length], restricted to
// eligibility (bit i set = step i may be chosen) and enforcing at
// least minSpacing cyclic distance between any two accepted steps.
//
// Algorithm: perturb each step's log-weight with an i.i.d. Gumbel(0,1)
// sample derived from (seed, slot, step), rank descending (ties break
// by ascending step index), then walk the ranking greedily accepting
// eligible, sufficiently-spaced steps until k are accepted or the
// ranking is exhausted. If fewer than k steps are accepted, the
// shortfall is returned as-is — repair is the guard rails' job.
func Select(weights []float32, eligibility uint64, length, k, minSpacing int, seed uint32, slot hashing.Slot) uint64 {
	if k <= 0 || length <= 0 {
		return 0
	}

	var orderBuf [patternlen.Max]ranked
	order := orderBuf[:length]
	for i := 0; i < length; i++ {
		order[i] = ranked{step: i, score: gumbelScore(weights[i], seed, slot, i)}
	}
	insertionSortDescending(order)

	var mask uint64
	var acceptedBuf [patternlen.Max]int
	accepted := acceptedBuf[:0]
	for _, r := range order {
		if len(accepted) >= k {
			break
		}
		if eligibility&(uint64(1)<<uint(r.step)) == 0 {
			continue
		}
		if !farEnough(r.step, accepted, length, minSpacing) {
			continue
		}
		accepted = append(accepted, r.step)
		mask |= uint64(1) << uint(r.step)
	}
	return mask
}

// insertionSortDescending ranks order by score descending, ties
// breaking by ascending step index, in place with no allocation —
// the ranking buffer is a fixed-capacity stack array (patternlen.Max
// elements) and length is at most that, so this is fast enough
// without reaching for an allocating sort.
func insertionSortDescending(order []ranked) {
	for i := 1; i < len(order); i++ {
		v := order[i]
		j := i - 1
		for j >= 0 && less(v, order[j]) {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = v
	}
}

// less reports whether a ranks ahead of b (higher score, or equal
// score with a lower step index).
func less(a, b ranked) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.step < b.step
}

func gumbelScore(weight float32, seed uint32, slot hashing.Slot, step int) float32 {
	u := hashing.HashToUnit(seed, hashing.StepKey(slot, step))
	g := -math.Log(-math.Log(float64(u) + epsilon))
	return float32(math.Log(float64(weight)+epsilon)) + float32(g)
}

func farEnough(step int, accepted []int, length, minSpacing int) bool {
	for _, a := range accepted {
		if cyclicDistance(step, a, length) < minSpacing {
			return false
		}
	}
	return true
}

func cyclicDistance(a, b, length int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if other := length - d; other < d {
		return other
	}
	return d
}
