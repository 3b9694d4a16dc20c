// Package fitness is the host-side (non-real-time) evaluator: given a
// PatternResult, it computes the five Pentagon metrics and scores
// them against zone-dependent target ranges.
package fitness

import (
	"github.com/duopulse/engine/internal/metricweights"
	"github.com/duopulse/engine/internal/pattern"
	"github.com/duopulse/engine/internal/zone"
)

// Range is an inclusive [Lo, Hi] target window for one metric.
type Range struct {
	Lo, Hi float32
}

func (r Range) center() float32 { return (r.Lo + r.Hi) / 2 }
func (r Range) width() float32  { return (r.Hi - r.Lo) / 2 }

// TargetTable holds target ranges indexed by ShapeZone (and, for
// density, by EnergyZone). Defaults match spec.md §6.
type TargetTable struct {
	Syncopation     map[zone.ShapeZone]Range
	VelocityRange   map[zone.ShapeZone]Range
	VoiceSeparation map[zone.ShapeZone]Range
	Regularity      map[zone.ShapeZone]Range
	Density         map[zone.EnergyZone]Range
}

// DefaultTargets is the table used for testing per spec.md §6.
func DefaultTargets() TargetTable {
	return TargetTable{
		Syncopation: map[zone.ShapeZone]Range{
			zone.ShapeStable:     {0.00, 0.20},
			zone.ShapeSyncopated: {0.55, 0.85},
			zone.ShapeWild:       {0.60, 1.00},
		},
		VelocityRange: map[zone.ShapeZone]Range{
			zone.ShapeStable:     {0.12, 0.38},
			zone.ShapeSyncopated: {0.32, 0.58},
			zone.ShapeWild:       {0.25, 0.72},
		},
		VoiceSeparation: map[zone.ShapeZone]Range{
			zone.ShapeStable:     {0.75, 0.95},
			zone.ShapeSyncopated: {0.70, 0.95},
			zone.ShapeWild:       {0.65, 0.95},
		},
		Regularity: map[zone.ShapeZone]Range{
			zone.ShapeStable:     {0.72, 1.00},
			zone.ShapeSyncopated: {0.42, 0.68},
			zone.ShapeWild:       {0.55, 0.85},
		},
		Density: map[zone.EnergyZone]Range{
			zone.EnergyMinimal: {0.05, 0.20},
			zone.EnergyGroove:  {0.20, 0.40},
			zone.EnergyBuild:   {0.40, 0.60},
			zone.EnergyPeak:    {0.55, 0.85},
		},
	}
}

// Metrics holds the five raw Pentagon measurements.
type Metrics struct {
	Syncopation     float32
	Density         float32
	VelocityRange   float32
	VoiceSeparation float32
	Regularity      float32
}

// Report is the full evaluator output.
type Report struct {
	Raw       Metrics
	Scores    Metrics
	Composite float32
	Zone      zone.ShapeZone
}

// weights are the composite's fixed per-metric weights; density is
// excluded from the SHAPE-zone composite (evaluated separately by
// EnergyZone) per §4.14.
const (
	weightSyncopation     = 0.30
	weightVelocityRange   = 0.25
	weightVoiceSeparation = 0.25
	weightRegularity      = 0.20
)

// Evaluate computes raw metrics from result, scores each against
// targets for the current ShapeZone/EnergyZone, and combines them
// into a weighted composite.
func Evaluate(result pattern.Result, params pattern.Params, targets TargetTable) Report {
	raw := computeMetrics(result)

	cls := zone.Classify(params.Energy, params.Shape)
	sz := cls.Shape

	scores := Metrics{
		Syncopation:     score(raw.Syncopation, targets.Syncopation[sz]),
		Density:         score(raw.Density, targets.Density[cls.Energy]),
		VelocityRange:   score(raw.VelocityRange, targets.VelocityRange[sz]),
		VoiceSeparation: score(raw.VoiceSeparation, targets.VoiceSeparation[sz]),
		Regularity:      score(raw.Regularity, targets.Regularity[sz]),
	}

	composite := weightSyncopation*scores.Syncopation +
		weightVelocityRange*scores.VelocityRange +
		weightVoiceSeparation*scores.VoiceSeparation +
		weightRegularity*scores.Regularity

	return Report{Raw: raw, Scores: scores, Composite: composite, Zone: sz}
}

func computeMetrics(r pattern.Result) Metrics {
	n := r.PatternLength
	w := metricweights.Table(n)
	return Metrics{
		Syncopation:     syncopation(r.AnchorMask, w, n),
		Density:         density(r.AnchorMask, r.ShimmerMask, r.AuxMask, n),
		VelocityRange:   velocityRange(r),
		VoiceSeparation: voiceSeparation(r.AnchorMask, r.ShimmerMask, r.AuxMask, n),
		Regularity:      regularity(r.AnchorMask, n),
	}
}

func syncopation(anchorMask uint64, w []float32, n int) float32 {
	if n <= 0 {
		return 0
	}
	// For every hit with no hit immediately after, the positive jump
	// in metric weight from this step to the next is tension: a hit
	// falling away from a stronger upcoming beat reads as syncopated.
	// Normalizing by the (non-negative) weight at the gap step keeps
	// the ratio in [0, 1].
	var num, den float32
	for i := 0; i < n; i++ {
		if anchorMask&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		next := (i + 1) % n
		if anchorMask&(uint64(1)<<uint(next)) != 0 {
			continue
		}
		diff := w[next] - w[i]
		if diff > 0 {
			num += diff
		}
		den += w[next]
	}
	if den <= 0 {
		return 0
	}
	return clamp01(num / den)
}

func density(anchor, shimmer, aux uint64, n int) float32 {
	if n <= 0 {
		return 0
	}
	active := 0
	any := anchor | shimmer | aux
	for i := 0; i < n; i++ {
		if any&(uint64(1)<<uint(i)) != 0 {
			active++
		}
	}
	return float32(active) / float32(n)
}

func velocityRange(r pattern.Result) float32 {
	var min, max float32 = -1, -1
	consider := func(vel []float32) {
		for _, v := range vel {
			if v <= 0 {
				continue
			}
			if min < 0 || v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	n := r.PatternLength
	consider(r.AnchorVel[:n])
	consider(r.ShimmerVel[:n])
	consider(r.AuxVel[:n])
	if min < 0 {
		return 0
	}
	return max - min
}

func voiceSeparation(anchor, shimmer, aux uint64, n int) float32 {
	if n <= 0 {
		return 1
	}
	active, overlap := 0, 0
	for i := 0; i < n; i++ {
		bit := uint64(1) << uint(i)
		count := 0
		if anchor&bit != 0 {
			count++
		}
		if shimmer&bit != 0 {
			count++
		}
		if aux&bit != 0 {
			count++
		}
		if count > 0 {
			active++
		}
		if count >= 2 {
			overlap++
		}
	}
	if active == 0 {
		return 1
	}
	return 1 - float32(overlap)/float32(active)
}

func regularity(anchorMask uint64, n int) float32 {
	if n <= 0 {
		return 0.5
	}
	gaps := interOnsetGaps(anchorMask, n)
	if len(gaps) <= 1 {
		return 0.5
	}
	cv := coefficientOfVariation(gaps)
	if cv > 1 {
		cv = 1
	}
	return 1 - cv
}

func interOnsetGaps(mask uint64, n int) []int {
	var onsets []int
	for i := 0; i < n; i++ {
		if mask&(uint64(1)<<uint(i)) != 0 {
			onsets = append(onsets, i)
		}
	}
	if len(onsets) <= 1 {
		return nil
	}
	gaps := make([]int, len(onsets))
	for i := range onsets {
		next := onsets[(i+1)%len(onsets)]
		gap := next - onsets[i]
		if gap <= 0 {
			gap += n
		}
		gaps[i] = gap
	}
	return gaps
}

func coefficientOfVariation(gaps []int) float32 {
	var sum float32
	for _, g := range gaps {
		sum += float32(g)
	}
	mean := sum / float32(len(gaps))
	if mean == 0 {
		return 0
	}
	var variance float32
	for _, g := range gaps {
		d := float32(g) - mean
		variance += d * d
	}
	variance /= float32(len(gaps))
	stddev := sqrt32(variance)
	return stddev / mean
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// score applies the parabolic falloff: 1 at the target range's
// center, decaying to 0 at its edges and beyond.
func score(raw float32, target Range) float32 {
	width := target.width()
	if width <= 0 {
		if raw == target.center() {
			return 1
		}
		return 0
	}
	distance := raw - target.center()
	if distance < 0 {
		distance = -distance
	}
	ratio := distance / width
	s := 1 - ratio*ratio
	if s < 0 {
		s = 0
	}
	return s
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
