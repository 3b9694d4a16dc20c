// Package field implements the 2-D pattern field: a bilinear blend of
// the four archetype corners (Minimal, Groovy, Shimmery, Chaos) by
// (axisX, axisY), plus the small seed-deterministic per-step noise
// that keeps the blended weights from looking quantized.
package field

import (
	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
)

// Effective holds the per-step blended weight tables for one call's
// (genre, axisX, axisY, shape, seed, patternLength), plus the blended
// swing amount. Fixed capacity, stack-resident — no allocation beyond
// the struct itself.
type Effective struct {
	Anchor      [patternlen.Max]float32
	Shimmer     [patternlen.Max]float32
	SwingAmount float32
	Length      int
}

// Coeffs are the four bilinear blend weights; they always sum to 1.
// This is deliberately bilinear interpolation, not a 4-way softmax —
// softmax is reserved for future temperature control.
type Coeffs struct {
	C00, C10, C01, C11 float32 // Minimal, Groovy, Shimmery, Chaos
}

// BlendCoefficients computes the bilinear weights for the four
// archetype corners: (0,0)=Minimal, (1,0)=Groovy, (0,1)=Shimmery, (1,1)=Chaos.
func BlendCoefficients(axisX, axisY float32) Coeffs {
	x := clamp01(axisX)
	y := clamp01(axisY)
	return Coeffs{
		C00: (1 - x) * (1 - y),
		C10: x * (1 - y),
		C01: (1 - x) * y,
		C11: x * y,
	}
}

// ComputeNoiseScale is a three-segment piecewise linear function of
// shape: 0 at 0, 0.10 at 0.30, 0.25 at 0.70, 0.40 at 1.0. The
// breakpoints are the same 0.30/0.70 used for ShapeZone everywhere
// else in the engine — the historical 0.28/0.68 mismatch is not
// reintroduced here.
func ComputeNoiseScale(shape float32) float32 {
	s := clamp01(shape)
	switch {
	case s <= 0.30:
		return lerp(0.0, 0.10, s/0.30)
	case s <= 0.70:
		return lerp(0.10, 0.25, (s-0.30)/0.40)
	default:
		return lerp(0.25, 0.40, (s-0.70)/0.30)
	}
}

// Build blends the four archetype tables for genre at (axisX, axisY),
// adds per-step deterministic noise scaled by ComputeNoiseScale(shape),
// and clamps the result to [0, 1].
func Build(genre archetype.Genre, axisX, axisY, shape float32, seed uint32, patternLength int) Effective {
	length := patternlen.Coerce(patternLength)
	coeffs := BlendCoefficients(axisX, axisY)

	minimal := archetype.Lookup(genre, archetype.Minimal)
	groovy := archetype.Lookup(genre, archetype.Groovy)
	shimmery := archetype.Lookup(genre, archetype.Shimmery)
	chaos := archetype.Lookup(genre, archetype.Chaos)

	noiseScale := ComputeNoiseScale(shape)

	var eff Effective
	eff.Length = length
	for i := 0; i < length; i++ {
		anchor := coeffs.C00*minimal.Anchor[i] + coeffs.C10*groovy.Anchor[i] +
			coeffs.C01*shimmery.Anchor[i] + coeffs.C11*chaos.Anchor[i]
		shimmer := coeffs.C00*minimal.Shimmer[i] + coeffs.C10*groovy.Shimmer[i] +
			coeffs.C01*shimmery.Shimmer[i] + coeffs.C11*chaos.Shimmer[i]

		anchor += noiseAt(seed, i, 0, noiseScale)
		shimmer += noiseAt(seed, i, 1, noiseScale)

		eff.Anchor[i] = clamp01(anchor)
		eff.Shimmer[i] = clamp01(shimmer)
	}

	eff.SwingAmount = coeffs.C00*minimal.SwingAmount + coeffs.C10*groovy.SwingAmount +
		coeffs.C01*shimmery.SwingAmount + coeffs.C11*chaos.SwingAmount

	return eff
}

// noiseAt produces symmetric noise in [-scale, scale] for step i of a
// given voice (0=anchor, 1=shimmer); voice is folded into the hash key
// so the two voices' noise streams are independent.
func noiseAt(seed uint32, step int, voice uint32, scale float32) float32 {
	key := hashing.StepKey(hashing.SlotFieldNoise, step) ^ (voice << 24)
	u := hashing.HashToUnit(seed, key)
	return (u - 0.5) * 2 * scale
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
