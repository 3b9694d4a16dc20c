// Package drift implements the caller-owned phrase-to-phrase
// evolution state described in the design notes: a small opaque
// {phraseCounter, driftSeed} pair, threaded by the caller like any
// other input, never touched by pattern.Generate itself.
package drift

import "github.com/duopulse/engine/internal/hashing"

// State is the evolving seed-state a caller carries across phrases.
// Zero value is a valid starting state.
type State struct {
	PhraseCounter uint32
	DriftSeed     uint32
}

// New returns a fresh State seeded from an initial value.
func New(initialSeed uint32) State {
	return State{PhraseCounter: 0, DriftSeed: initialSeed}
}

// Advance evolves the state by one phrase. When drift == 0 the state
// is left completely unchanged (only the phrase counter increments),
// matching the "drift == 0 ⇒ no evolution" contract at the caller
// level: the seed driving generate() next phrase is identical to this
// phrase's.
func (s State) Advance(drift float32) State {
	next := State{PhraseCounter: s.PhraseCounter + 1}
	if drift <= 0 {
		next.DriftSeed = s.DriftSeed
		return next
	}
	h := hashing.Hash(s.DriftSeed, hashing.HashSlot(s.PhraseCounter, hashing.SlotDrift))
	next.DriftSeed = blend(s.DriftSeed, h, drift)
	return next
}

// Seed returns the value to pass as PatternParams.Seed for the
// current phrase.
func (s State) Seed() uint32 {
	return s.DriftSeed
}

// blend nudges old toward the freshly hashed value proportionally to
// drift, so small drift values evolve the seed gradually across
// phrases rather than jumping discontinuously.
func blend(old, fresh uint32, drift float32) uint32 {
	if drift >= 1.0 {
		return fresh
	}
	span := uint32(float64(fresh-old) * float64(drift))
	return old + span
}
