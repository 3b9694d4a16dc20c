package aux

import (
	"testing"
)

func popcount(mask uint64) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}

func TestSelectStyleBoundaries(t *testing.T) {
	tests := []struct {
		axisY float32
		want  Style
	}{
		{0.0, Offbeat8ths},
		{0.32, Offbeat8ths},
		{0.33, Syncopated16ths},
		{0.65, Syncopated16ths},
		{0.66, SeedVaried},
		{1.0, SeedVaried},
	}
	for _, tt := range tests {
		if got := SelectStyle(tt.axisY); got != tt.want {
			t.Errorf("SelectStyle(%v) = %v, want %v", tt.axisY, got, tt.want)
		}
	}
}

func TestWeightsOffbeat8ths(t *testing.T) {
	buf := Weights(Offbeat8ths, 1, nil, 16)
	for i, v := range buf[:16] {
		if i%2 == 1 && v != 0.8 {
			t.Errorf("step %d: want 0.8, got %v", i, v)
		}
		if i%2 == 0 && v != 0.2 {
			t.Errorf("step %d: want 0.2, got %v", i, v)
		}
	}
}

func TestWeightsSyncopated16ths(t *testing.T) {
	buf := Weights(Syncopated16ths, 1, nil, 16)
	for i, v := range buf[:16] {
		if i%4 == 1 || i%4 == 3 {
			if v != 0.7 {
				t.Errorf("step %d: want 0.7, got %v", i, v)
			}
		} else if v != 0.35 {
			t.Errorf("step %d: want 0.35, got %v", i, v)
		}
	}
}

func TestWeightsSeedVariedDeterministic(t *testing.T) {
	a := Weights(SeedVaried, 77, make([]float32, 16), 16)
	b := Weights(SeedVaried, 77, make([]float32, 16), 16)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("SeedVaried weights not deterministic at step %d", i)
		}
	}
}

func TestAttenuateCollisionsScalesDown(t *testing.T) {
	w := []float32{1.0, 1.0, 1.0, 1.0}
	AttenuateCollisions(w, 0b0001, 0b0010)
	if w[0] != 0.3 || w[1] != 0.3 {
		t.Errorf("occupied steps should be scaled to 0.3, got %v", w)
	}
	if w[2] != 1.0 || w[3] != 1.0 {
		t.Errorf("unoccupied steps should be unchanged, got %v", w)
	}
}

func TestTargetZeroEnergyIsZero(t *testing.T) {
	if k := Target(0, 32); k != 0 {
		t.Errorf("Target(0,...) = %d, want 0", k)
	}
}

func TestTargetScalesWithEnergy(t *testing.T) {
	low := Target(0.2, 32)
	high := Target(0.8, 32)
	if high <= low {
		t.Errorf("Target should increase with energy: low=%d high=%d", low, high)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	metricWeights := make([]float32, 16)
	a := Generate(0.8, 0.6, 0, 0, metricWeights, 16, 5)
	b := Generate(0.8, 0.6, 0, 0, metricWeights, 16, 5)
	if a != b {
		t.Fatal("Generate not deterministic")
	}
}

func TestGenerateZeroEnergyIsEmpty(t *testing.T) {
	metricWeights := make([]float32, 16)
	mask := Generate(0.5, 0, 0, 0, metricWeights, 16, 5)
	if mask != 0 {
		t.Errorf("energy=0 should produce empty aux mask, got %016b", mask)
	}
}

func TestGenerateRespectsTarget(t *testing.T) {
	metricWeights := make([]float32, 32)
	for energy := float32(0.1); energy <= 1.0; energy += 0.1 {
		mask := Generate(0.8, energy, 0, 0, metricWeights, 32, 9)
		want := Target(energy, 32)
		if got := popcount(mask); got > want {
			t.Errorf("energy=%v: got %d hits, want at most %d", energy, got, want)
		}
	}
}
