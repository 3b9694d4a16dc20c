// Package velocity computes per-step velocity for each voice: a
// deterministic function of metric weight, the voice's dynamic-range
// parameter, the current build-arc modifiers, and the seed.
package velocity

import (
	"github.com/duopulse/engine/internal/buildarc"
	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/patternlen"
)

// Voice discriminates anchor/shimmer/aux within the shared ghost and
// variation hash slots, so each voice's velocity noise is
// statistically independent at the same seed without needing a
// separate registered slot per voice (same technique as
// internal/field's per-voice noise keying).
type Voice uint32

const (
	VoiceAnchor Voice = iota
	VoiceShimmer
	VoiceAux
)

func voiceKey(slot hashing.Slot, step int, voice Voice) uint32 {
	return hashing.StepKey(slot, step) ^ (uint32(voice) << 24)
}

// At computes the velocity for one step of one voice. dynamicRange is
// `accent` for anchor, `accent * 0.7` for shimmer, and `energy` for
// aux (§4.12). mods come from internal/buildarc for the current
// phrase position.
func At(metricWeight, dynamicRange float32, mods buildarc.Modifiers, seed uint32, step int, voice Voice) float32 {
	floor := clamp(0.85-dynamicRange*0.65, 0.20, 0.85)
	ceiling := float32(0.88 + dynamicRange*0.12)
	base := floor + metricWeight*(ceiling-floor)

	if metricWeight < 0.5 && dynamicRange > 0.5 {
		p := (dynamicRange - 0.5) * 0.4
		if hashing.HashToUnit(seed, voiceKey(hashing.SlotGhost, step, voice)) < p {
			base = 0.15 + hashing.HashToUnit(seed, voiceKey(hashing.SlotGhostVelocity, step, voice))*0.15
		}
	}

	base += mods.VelocityBoost
	if mods.ForceAccents && metricWeight > 0.3 {
		lowerBound := ceiling - 0.1
		if base < lowerBound {
			base = lowerBound
		}
	}

	variationRange := 0.02 + dynamicRange*0.06
	u := hashing.HashToUnit(seed, voiceKey(hashing.SlotVelocityVariation, step, voice))
	base += (u - 0.5) * variationRange

	return clamp(base, 0.10, 1.0)
}

// ForMask fills a fixed-capacity velocity buffer for every step set in
// mask, leaving unset steps at 0 (mask/velocity consistency per the
// data model). Only indices [0, patternLength) are meaningful.
func ForMask(mask uint64, metricWeights []float32, dynamicRange float32, mods buildarc.Modifiers, seed uint32, patternLength int, voice Voice) patternlen.FloatBuffer {
	var vel patternlen.FloatBuffer
	for i := 0; i < patternLength; i++ {
		if mask&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		vel[i] = At(metricWeights[i], dynamicRange, mods, seed, i, voice)
	}
	return vel
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
