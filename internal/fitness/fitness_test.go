package fitness

import (
	"testing"

	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/pattern"
	"github.com/duopulse/engine/internal/zone"
)

func baseParams() pattern.Params {
	return pattern.Params{
		Energy:         0.6,
		Shape:          0.4,
		AxisX:          0.5,
		AxisY:          0.5,
		Accent:         0.5,
		Balance:        0.5,
		Build:          0.3,
		PhraseProgress: 0.2,
		Genre:          archetype.Techno,
		PatternLength:  32,
		Seed:           0xDEADBEEF,
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	p := baseParams()
	r := pattern.Generate(p)
	a := Evaluate(r, p, DefaultTargets())
	b := Evaluate(r, p, DefaultTargets())
	if a.Composite != b.Composite {
		t.Fatal("Evaluate not deterministic")
	}
}

func TestEvaluateCompositeInRange(t *testing.T) {
	p := baseParams()
	r := pattern.Generate(p)
	report := Evaluate(r, p, DefaultTargets())
	if report.Composite < 0 || report.Composite > 1 {
		t.Errorf("composite = %v, out of [0,1]", report.Composite)
	}
}

func TestEvaluateSilenceYieldsZeroSyncopationAndHalfRegularity(t *testing.T) {
	p := baseParams()
	p.Energy = 0
	r := pattern.Generate(p)
	report := Evaluate(r, p, DefaultTargets())
	if report.Raw.Syncopation != 0 {
		t.Errorf("silent pattern syncopation = %v, want 0", report.Raw.Syncopation)
	}
	if report.Raw.Regularity != 0.5 {
		t.Errorf("silent pattern regularity = %v, want 0.5 default", report.Raw.Regularity)
	}
	if report.Raw.Density != 0 {
		t.Errorf("silent pattern density = %v, want 0", report.Raw.Density)
	}
}

func TestEvaluateRoundTripDensityConsistency(t *testing.T) {
	p := baseParams()
	r := pattern.Generate(p)
	report := Evaluate(r, p, DefaultTargets())

	n := r.PatternLength
	active := 0
	any := r.AnchorMask | r.ShimmerMask | r.AuxMask
	for i := 0; i < n; i++ {
		if any&(uint64(1)<<uint(i)) != 0 {
			active++
		}
	}
	recomputed := float32(active) / float32(n)
	if report.Raw.Density != recomputed {
		t.Errorf("density round-trip mismatch: report=%v recomputed=%v", report.Raw.Density, recomputed)
	}
}

func TestScoreParabolicFalloff(t *testing.T) {
	r := Range{0.2, 0.4}
	if s := score(0.3, r); s != 1.0 {
		t.Errorf("score at center = %v, want 1.0", s)
	}
	if s := score(0.0, r); s != 0 {
		t.Errorf("score far outside range should clamp to 0, got %v", s)
	}
}

func TestScoreAtRangeEdgeIsZero(t *testing.T) {
	r := Range{0.2, 0.4}
	if s := score(0.4, r); s > 0.01 {
		t.Errorf("score at Hi edge should be ~0, got %v", s)
	}
	if s := score(0.2, r); s > 0.01 {
		t.Errorf("score at Lo edge should be ~0, got %v", s)
	}
}

func TestVoiceSeparationFullWhenDisjoint(t *testing.T) {
	sep := voiceSeparation(0b0001, 0b0010, 0b0100, 4)
	if sep != 1 {
		t.Errorf("fully disjoint voices should score separation=1, got %v", sep)
	}
}

func TestVoiceSeparationPenalizesOverlap(t *testing.T) {
	sep := voiceSeparation(0b0001, 0b0001, 0, 4)
	if sep >= 1 {
		t.Errorf("overlapping voices should score separation < 1, got %v", sep)
	}
}

func TestRegularityHighForEvenSpacing(t *testing.T) {
	// four evenly spaced hits in a 16-step pattern
	mask := uint64(0b0001000100010001)
	reg := regularity(mask, 16)
	if reg < 0.9 {
		t.Errorf("evenly spaced hits should score high regularity, got %v", reg)
	}
}

func TestRegularityDefaultForSingletonMask(t *testing.T) {
	if reg := regularity(1, 16); reg != 0.5 {
		t.Errorf("singleton mask should default to 0.5, got %v", reg)
	}
	if reg := regularity(0, 16); reg != 0.5 {
		t.Errorf("empty mask should default to 0.5, got %v", reg)
	}
}

// Scenario: four-on-floor structural bounds (spec §8 concrete scenario 2).
func TestScenarioFourOnFloorStructuralBounds(t *testing.T) {
	p := pattern.Params{
		Energy:         0.23,
		Shape:          0.0,
		AxisX:          0.0,
		AxisY:          0.3,
		Accent:         0.5,
		Balance:        0.5,
		Build:          0.5,
		PhraseProgress: 0,
		Genre:          archetype.Techno,
		PatternLength:  32,
		Seed:           0xDEADBEEF,
	}
	r := pattern.Generate(p)
	report := Evaluate(r, p, DefaultTargets())

	n := 0
	for mask := r.AnchorMask; mask != 0; mask >>= 1 {
		n += int(mask & 1)
	}
	if n > 10 {
		t.Errorf("anchor popcount = %d, want <= 10", n)
	}
	if report.Raw.Regularity < 0.85 {
		t.Errorf("regularity = %v, want >= 0.85", report.Raw.Regularity)
	}
	if report.Raw.Syncopation > 0.15 {
		t.Errorf("syncopation = %v, want <= 0.15", report.Raw.Syncopation)
	}
}

func TestEvaluateZoneMatchesClassification(t *testing.T) {
	p := baseParams()
	r := pattern.Generate(p)
	report := Evaluate(r, p, DefaultTargets())
	cls := zone.Classify(p.Energy, p.Shape)
	if report.Zone != cls.Shape {
		t.Errorf("report.Zone = %v, want %v", report.Zone, cls.Shape)
	}
}
