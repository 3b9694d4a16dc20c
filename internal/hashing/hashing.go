// Package hashing provides the deterministic scalar hash the pattern
// engine uses in place of a runtime PRNG. Every stochastic-looking
// decision in the engine — Gumbel perturbation, ghost-note injection,
// beat-1 skip, aux substyle choice — is really a pure function of
// (seed, slot) so that the same PatternParams always produce the same
// PatternResult.
package hashing

// Slot identifies a statistically independent hash stream derived
// from a shared seed. Slots are 32-bit magic constants; two effects
// that share a slot would become correlated, which is a bug, so every
// slot in use is registered here rather than inlined at call sites.
type Slot uint32

const (
	SlotGumbel            Slot = 0x9E3779B1
	SlotEuclideanRotation Slot = 0x85EBCA6B
	SlotBeat1             Slot = 0xC2B2AE35
	SlotGhost             Slot = 0x27D4EB2F
	SlotGhostVelocity     Slot = 0x165667B1
	SlotVelocityVariation Slot = 0xD3A2646C
	SlotFieldNoise        Slot = 0xFD7046C5
	SlotAuxSubstyle       Slot = 0xB55A4F09
	SlotShadowOffset      Slot = 0x52DCE729
	SlotDrift             Slot = 0x1B873593
)

// registered tracks every slot handed out via the constants above so
// a debug build can assert against accidental collisions.
var registered = map[Slot]string{
	SlotGumbel:            "gumbel",
	SlotEuclideanRotation: "euclidean-rotation",
	SlotBeat1:             "beat1",
	SlotGhost:             "ghost",
	SlotGhostVelocity:     "ghost-velocity",
	SlotVelocityVariation: "velocity-variation",
	SlotFieldNoise:        "field-noise",
	SlotAuxSubstyle:       "aux-substyle",
	SlotShadowOffset:      "shadow-offset",
	SlotDrift:             "drift",
}

// CheckRegistry reports the first slot collision found among the
// named slots, if any. It is an assertion-class check meant for debug
// builds and tests, never the real-time path: a collision is a
// programmer error, not a runtime condition to recover from.
func CheckRegistry() (collided bool, names []string) {
	seen := make(map[Slot]string, len(registered))
	for slot, name := range registered {
		if other, ok := seen[slot]; ok {
			return true, []string{name, other}
		}
		seen[slot] = name
	}
	return false, nil
}

// mix32 is a 32-bit avalanche finalizer in the style of Murmur3's fmix32:
// every input bit has roughly even odds of flipping every output bit.
func mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash combines a seed and a key (typically a Slot, or a Slot XORed
// with a per-step index) into a 32-bit value. It is pure: Hash(s, k)
// always equals Hash(s, k), and distinct keys under the same seed are
// statistically independent.
func Hash(seed uint32, key uint32) uint32 {
	h := seed*0x9E3779B1 ^ key*0x85EBCA77
	h += 0xC2B2AE3D
	return mix32(h)
}

// HashSlot is a convenience wrapper for Hash keyed by a registered Slot.
func HashSlot(seed uint32, slot Slot) uint32 {
	return Hash(seed, uint32(slot))
}

// HashToUnit maps Hash(seed, key) into [0, 1) as a float32.
func HashToUnit(seed uint32, key uint32) float32 {
	h := Hash(seed, key)
	return float32(float64(h) / 4294967296.0)
}

// HashSlotToUnit is HashToUnit keyed by a registered Slot.
func HashSlotToUnit(seed uint32, slot Slot) float32 {
	return HashToUnit(seed, uint32(slot))
}

// StepKey folds a slot and a step index into a single hash key so
// that per-step hash streams stay independent across slots.
func StepKey(slot Slot, step int) uint32 {
	return uint32(slot) ^ uint32(uint16(step))
}
