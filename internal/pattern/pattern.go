// Package pattern is the single public entry point: it orchestrates
// every other internal/* component into the two-voice (plus aux)
// per-bar generator described by the rest of this module. Generate is
// pure — same PatternParams (including seed) always yields the same
// PatternResult; no global state is read or written.
package pattern

import (
	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/aux"
	"github.com/duopulse/engine/internal/budget"
	"github.com/duopulse/engine/internal/buildarc"
	"github.com/duopulse/engine/internal/euclidean"
	"github.com/duopulse/engine/internal/field"
	"github.com/duopulse/engine/internal/guardrail"
	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/metricweights"
	"github.com/duopulse/engine/internal/patternlen"
	"github.com/duopulse/engine/internal/selector"
	"github.com/duopulse/engine/internal/velocity"
	"github.com/duopulse/engine/internal/voice"
	"github.com/duopulse/engine/internal/zone"
)

// Params is the immutable input to one Generate call.
type Params struct {
	Energy         float32
	Shape          float32
	AxisX          float32
	AxisY          float32
	Drift          float32
	Accent         float32
	Balance        float32
	Build          float32
	Swing          float32
	PhraseProgress float32
	Genre          archetype.Genre
	PatternLength  int
	Seed           uint32

	// ShadowEnabled exposes voice's optional SHADOW relationship;
	// false keeps the default COMPLEMENT behavior regardless of
	// VoiceCoupling.
	ShadowEnabled bool
	// VoiceCoupling gates SHADOW mode (>= 0.5) when ShadowEnabled.
	VoiceCoupling float32
}

// Result is the single-owner output of one Generate call.
type Result struct {
	AnchorMask  uint64
	ShimmerMask uint64
	AuxMask     uint64

	// Only indices [0, PatternLength) are meaningful; fixed-capacity
	// buffers, no per-bar heap allocation (spec.md's real-time budget).
	AnchorVel  patternlen.FloatBuffer
	ShimmerVel patternlen.FloatBuffer
	AuxVel     patternlen.FloatBuffer

	PatternLength int
	SwingAmount   float32
}

// Generate runs the full pipeline: zone classification, pattern field
// blend, Euclidean/selector-derived anchor mask, voice relationship
// for shimmer, guard rails, aux, build-arc-aware velocity. energy == 0
// forces total silence across all three voices (the one hard
// invariant every other step must respect).
func Generate(p Params) Result {
	length := patternlen.Coerce(p.PatternLength)

	if p.Energy <= 0 {
		return Result{PatternLength: length}
	}

	classification := zone.Classify(p.Energy, p.Shape)
	metricW := metricweights.Table(length)
	eff := field.Build(p.Genre, p.AxisX, p.AxisY, p.Shape, p.Seed, length)

	_, mods := buildarc.Compute(p.Build, p.PhraseProgress)

	buildBoost := mods.DensityMultiplier - 1
	targets := budget.Compute(p.Energy, p.Balance, classification.Energy, length, buildBoost)

	anchorWeightsBuf := blendEuclidean(eff.Anchor[:length], classification.Energy, p.Genre, p.AxisX, p.Seed, length)
	anchorWeights := anchorWeightsBuf[:length]

	allSteps := fullMask(length)
	minSpacing := selector.MinSpacingForZone(classification.Energy)
	anchorMask := selector.Select(anchorWeights, allSteps, length, targets.Anchor, minSpacing, p.Seed, hashing.SlotGumbel)

	anchorMask = guardrail.Apply(anchorMask, allSteps, p.Shape, classification.Energy, length, p.Seed)

	shimmerMask := voice.Resolve(anchorMask, eff.Shimmer[:length], metricW, classification.ShapeBlend, targets.Shimmer, classification.Energy, length, p.Seed, p.VoiceCoupling, p.ShadowEnabled)

	auxMask := aux.Generate(p.AxisY, p.Energy, anchorMask, shimmerMask, metricW, length, p.Seed)

	anchorAccent := p.Accent
	shimmerAccent := p.Accent * 0.7

	anchorVel := velocity.ForMask(anchorMask, metricW, anchorAccent, mods, p.Seed, length, velocity.VoiceAnchor)
	shimmerVel := velocity.ForMask(shimmerMask, metricW, shimmerAccent, mods, p.Seed, length, velocity.VoiceShimmer)
	auxVel := velocity.ForMask(auxMask, metricW, p.Energy, mods, p.Seed, length, velocity.VoiceAux)

	return Result{
		AnchorMask:    anchorMask,
		ShimmerMask:   shimmerMask,
		AuxMask:       auxMask,
		AnchorVel:     anchorVel,
		ShimmerVel:    shimmerVel,
		AuxVel:        auxVel,
		PatternLength: length,
		SwingAmount:   eff.SwingAmount,
	}
}

// blendEuclidean boosts anchorWeights at positions an Euclidean
// fallback mask would strike, by Ratio(genre, zone, axisX) of
// euclidean.BoostAmount (§4.6's additive blend into the selector
// prior). Returns a fixed-capacity buffer (only [0, length) valid) —
// no heap copy of fieldWeights.
func blendEuclidean(fieldWeights []float32, ez zone.EnergyZone, genre archetype.Genre, axisX float32, seed uint32, length int) patternlen.FloatBuffer {
	var weights patternlen.FloatBuffer
	copy(weights[:length], fieldWeights)

	ratio := euclidean.Ratio(genre, ez, axisX)
	if ratio <= 0 {
		return weights
	}

	k := length / 2
	if k < 1 {
		k = 1
	}
	rotation := euclidean.RotationAmount(seed, length)
	mask := euclidean.Rotate(euclidean.Generate(k, length), rotation, length)

	for i := 0; i < length; i++ {
		if mask&(uint64(1)<<uint(i)) != 0 {
			weights[i] += ratio * euclidean.BoostAmount
		}
	}
	return weights
}

func fullMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
