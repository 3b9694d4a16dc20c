// Package euclidean implements Bjorklund's algorithm for even
// rhythm distribution plus a seed-deterministic rotation. It is used
// only as a fallback/blend source for the selector (internal/pattern),
// never as the sole anchor generator.
package euclidean

import (
	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
	"github.com/duopulse/engine/internal/zone"
)

// Generate returns an n-bit mask (bit i = step i, LSB = step 0) with k
// pulses distributed as evenly as possible among n steps. n must be in
// [1, 64]; k is clamped to [0, n].
func Generate(k, n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n > 64 {
		n = 64
	}
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}

	pattern := bjorklundPattern(k, n)

	var mask uint64
	for i := 0; i < n; i++ {
		if pattern[i] == 1 {
			mask |= uint64(1) << uint(i)
		}
	}
	return mask
}

// Rotate cyclically rotates the low n bits of mask right by r
// positions (r may be negative or exceed n; it is normalized first).
func Rotate(mask uint64, r, n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n > 64 {
		n = 64
	}
	full := fullMask(n)
	mask &= full

	r %= n
	if r < 0 {
		r += n
	}
	if r == 0 {
		return mask
	}
	return ((mask >> uint(r)) | (mask << uint(n-r))) & full
}

// RotationAmount derives a deterministic rotation amount in [0, n)
// from seed, via the registered Euclidean-rotation hash slot.
func RotationAmount(seed uint32, n int) int {
	if n <= 0 {
		return 0
	}
	h := hashing.HashSlot(seed, hashing.SlotEuclideanRotation)
	return int(h % uint32(n))
}

// BoostAmount is the fixed additive term the blend applies to anchor
// weights at Euclidean-on positions before selection (§4.6: "boosting
// anchor weights ... by a fixed additive term").
const BoostAmount = float32(0.35)

// baseRatio is each genre's Euclidean blend ratio at axisX = 0.
var baseRatio = map[archetype.Genre]float32{
	archetype.Techno: 0.70,
	archetype.Tribal: 0.40,
	archetype.IDM:    0.00,
}

// Ratio returns the effective Euclidean blend ratio for genre, the
// current EnergyZone, and axisX. It is 0 outside MINIMAL/GROOVE (and
// always 0 for IDM); axisX reduces the base ratio by up to 70%.
func Ratio(genre archetype.Genre, ezone zone.EnergyZone, axisX float32) float32 {
	if ezone != zone.EnergyMinimal && ezone != zone.EnergyGroove {
		return 0
	}
	base := baseRatio[genre]
	if base == 0 {
		return 0
	}
	x := axisX
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return base * (1 - 0.7*x)
}

func fullMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// bjorklundPattern is the classic Bjorklund construction: build nested
// run-length groups from the Euclidean algorithm's remainder sequence,
// then rotate the result so it starts on a pulse. All working state is
// a fixed [patternlen.Max]int stack array — the number of Euclidean
// reduction steps for n <= 64 is always well under that capacity.
func bjorklundPattern(k, n int) patternlen.IntBuffer {
	var pattern patternlen.IntBuffer
	if k <= 0 {
		return pattern
	}
	if k >= n {
		for i := 0; i < n; i++ {
			pattern[i] = 1
		}
		return pattern
	}

	var counts, remainders patternlen.IntBuffer
	remainders[0] = k
	divisor := n - k
	level := 0

	for {
		counts[level] = divisor / remainders[level]
		remainders[level+1] = divisor % remainders[level]
		divisor = remainders[level]
		level++
		if remainders[level] <= 1 {
			break
		}
	}
	counts[level] = divisor

	pos := 0
	var build func(level int)
	build = func(level int) {
		switch {
		case level == -1:
			pattern[pos] = 0
			pos++
		case level == -2:
			pattern[pos] = 1
			pos++
		default:
			for i := 0; i < counts[level]; i++ {
				build(level - 1)
			}
			if remainders[level] != 0 {
				build(level - 2)
			}
		}
	}
	build(level)

	// Rotate so the sequence starts on a pulse, matching the canonical
	// Euclidean-rhythm presentation (e.g. E(3,8) = 10010010).
	firstOne := 0
	for i := 0; i < pos; i++ {
		if pattern[i] == 1 {
			firstOne = i
			break
		}
	}
	var rotated patternlen.IntBuffer
	copy(rotated[:pos-firstOne], pattern[firstOne:pos])
	copy(rotated[pos-firstOne:pos], pattern[:firstOne])
	return rotated
}
