package buildarc

import "testing"

func TestComputeGroovePhase(t *testing.T) {
	phase, mods := Compute(0.8, 0.3)
	if phase != Groove {
		t.Errorf("phase = %v, want Groove", phase)
	}
	if mods.DensityMultiplier != 1.0 || mods.VelocityBoost != 0 || mods.ForceAccents {
		t.Errorf("Groove should be a no-op: %+v", mods)
	}
}

func TestComputeBuildPhaseAtStart(t *testing.T) {
	phase, mods := Compute(1.0, 0.600)
	if phase != Build {
		t.Errorf("phase = %v, want Build", phase)
	}
	if mods.DensityMultiplier != 1.0 {
		t.Errorf("at p=0, density multiplier should be 1.0, got %v", mods.DensityMultiplier)
	}
}

func TestComputeBuildPhaseRamps(t *testing.T) {
	_, early := Compute(1.0, 0.65)
	_, late := Compute(1.0, 0.85)
	if late.DensityMultiplier <= early.DensityMultiplier {
		t.Errorf("density multiplier should ramp up through Build: early=%v late=%v", early.DensityMultiplier, late.DensityMultiplier)
	}
	if late.VelocityBoost <= early.VelocityBoost {
		t.Errorf("velocity boost should ramp up through Build: early=%v late=%v", early.VelocityBoost, late.VelocityBoost)
	}
}

func TestComputeFillPhase(t *testing.T) {
	phase, mods := Compute(0.8, 0.9)
	if phase != Fill {
		t.Errorf("phase = %v, want Fill", phase)
	}
	wantDensity := float32(1 + 0.8*0.50)
	if mods.DensityMultiplier != wantDensity {
		t.Errorf("Fill density multiplier = %v, want %v", mods.DensityMultiplier, wantDensity)
	}
	if !mods.ForceAccents {
		t.Error("build=0.8 > 0.6 should force accents in Fill")
	}
}

func TestComputeFillForceAccentsThreshold(t *testing.T) {
	_, low := Compute(0.5, 1.0)
	_, high := Compute(0.7, 1.0)
	if low.ForceAccents {
		t.Error("build=0.5 should not force accents")
	}
	if !high.ForceAccents {
		t.Error("build=0.7 should force accents")
	}
}

func TestComputeZeroBuildIsInert(t *testing.T) {
	for _, pp := range []float32{0.3, 0.7, 0.9, 1.0} {
		_, mods := Compute(0, pp)
		if mods.DensityMultiplier < 1.0-1e-6 {
			t.Errorf("phraseProgress=%v: density multiplier should never drop below 1.0 with build=0, got %v", pp, mods.DensityMultiplier)
		}
		if mods.VelocityBoost != 0 {
			t.Errorf("phraseProgress=%v: build=0 should yield zero velocity boost, got %v", pp, mods.VelocityBoost)
		}
	}
}

func TestPhaseBoundariesExact(t *testing.T) {
	if phase, _ := Compute(1.0, 0.599); phase != Groove {
		t.Errorf("0.599 should be Groove, got %v", phase)
	}
	if phase, _ := Compute(1.0, 0.874); phase != Build {
		t.Errorf("0.874 should be Build, got %v", phase)
	}
	if phase, _ := Compute(1.0, 0.875); phase != Fill {
		t.Errorf("0.875 should be Fill, got %v", phase)
	}
}
