// Package metricweights holds the canonical per-step "metric
// strength" tables: downbeat > backbeat > offbeat > "e"/"a". These
// weights double as a selection prior (internal/voice, internal/aux) and as the
// basis for syncopation/velocity computations (internal/velocity,
// internal/fitness). They are pre-tabulated once per supported
// pattern length, never recomputed per call.
package metricweights

import "github.com/duopulse/engine/internal/patternlen"

var tables = map[int][]float32{
	16: build16(),
	24: build24(),
	32: build32(),
	64: build64(),
}

// Table returns the canonical weight table for patternLength, coerced
// to the nearest supported length. The returned slice must not be
// mutated by callers — it is the package-owned canonical table.
func Table(patternLength int) []float32 {
	return tables[patternlen.Coerce(patternLength)]
}

func build16() []float32 {
	return []float32{
		1.0, 0.1, 0.4, 0.1, 0.8, 0.1, 0.4, 0.1,
		0.9, 0.1, 0.4, 0.1, 0.8, 0.1, 0.4, 0.1,
	}
}

func build32() []float32 {
	half := build16()
	out := make([]float32, 0, 32)
	out = append(out, half...)
	second := append([]float32(nil), half...)
	second[0] = 0.95 // second half's beat-1 slightly reduced
	out = append(out, second...)
	return out
}

func build64() []float32 {
	bar := build32()
	out := make([]float32, 0, 64)
	out = append(out, bar...)
	out = append(out, bar...)
	return out
}

// build24 is the triple-meter (6/8) variant: four groups of six steps,
// each shaped strong-weak-weak-medium-weak-weak, with a per-group
// multiplier mirroring the 16-step table's downbeat/half-bar accents.
func build24() []float32 {
	groupTemplate := [6]float32{1.0, 0.1, 0.3, 0.6, 0.1, 0.3}
	groupMultiplier := [4]float32{1.0, 0.85, 0.95, 0.85}

	out := make([]float32, 24)
	for g := 0; g < 4; g++ {
		for i := 0; i < 6; i++ {
			out[g*6+i] = groupTemplate[i] * groupMultiplier[g]
		}
	}
	return out
}
