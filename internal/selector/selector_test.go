package selector

import (
	"testing"

	"github.com/duopulse/engine/internal/hashing"
	"github.com/duopulse/engine/internal/zone"
)

func allOnes(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

func popcount(mask uint64) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}

func uniformWeights(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = 1.0
	}
	return w
}

func TestSelectDeterministic(t *testing.T) {
	w := uniformWeights(16)
	a := Select(w, allOnes(16), 16, 5, 1, 42, hashing.SlotGumbel)
	b := Select(w, allOnes(16), 16, 5, 1, 42, hashing.SlotGumbel)
	if a != b {
		t.Fatalf("Select not deterministic: %016b vs %016b", a, b)
	}
}

func TestSelectRespectsEligibility(t *testing.T) {
	w := uniformWeights(16)
	eligibility := uint64(0b0000000011111111) // only steps 0-7
	mask := Select(w, eligibility, 16, 6, 1, 7, hashing.SlotGumbel)
	if mask&^eligibility != 0 {
		t.Errorf("Select chose ineligible step(s): mask=%016b eligibility=%016b", mask, eligibility)
	}
}

func TestSelectRespectsMinSpacing(t *testing.T) {
	w := uniformWeights(16)
	minSpacing := 4
	for seed := uint32(0); seed < 100; seed++ {
		mask := Select(w, allOnes(16), 16, 16, minSpacing, seed, hashing.SlotGumbel)
		steps := []int{}
		for i := 0; i < 16; i++ {
			if mask&(1<<uint(i)) != 0 {
				steps = append(steps, i)
			}
		}
		for i := range steps {
			for j := range steps {
				if i == j {
					continue
				}
				if cyclicDistance(steps[i], steps[j], 16) < minSpacing {
					t.Fatalf("seed=%d: steps %d and %d are closer than minSpacing=%d", seed, steps[i], steps[j], minSpacing)
				}
			}
		}
	}
}

func TestSelectNeverExceedsK(t *testing.T) {
	w := uniformWeights(32)
	for k := 0; k <= 10; k++ {
		mask := Select(w, allOnes(32), 32, k, 1, 99, hashing.SlotGumbel)
		if n := popcount(mask); n > k {
			t.Errorf("k=%d: Select returned %d bits set", k, n)
		}
	}
}

func TestSelectZeroKReturnsEmpty(t *testing.T) {
	w := uniformWeights(16)
	if mask := Select(w, allOnes(16), 16, 0, 1, 1, hashing.SlotGumbel); mask != 0 {
		t.Errorf("k=0 should select nothing, got %016b", mask)
	}
}

func TestSelectHigherWeightFavored(t *testing.T) {
	w := uniformWeights(16)
	w[3] = 100.0 // overwhelmingly preferred step

	hits := 0
	trials := 200
	for seed := uint32(0); seed < uint32(trials); seed++ {
		mask := Select(w, allOnes(16), 16, 1, 1, seed, hashing.SlotGumbel)
		if mask&(1<<3) != 0 {
			hits++
		}
	}
	if hits < trials*8/10 {
		t.Errorf("step with dominant weight chosen only %d/%d times", hits, trials)
	}
}

func TestSelectDifferentSlotsDecorrelate(t *testing.T) {
	w := uniformWeights(16)
	same := 0
	trials := 200
	for seed := uint32(0); seed < uint32(trials); seed++ {
		a := Select(w, allOnes(16), 16, 3, 1, seed, hashing.SlotGumbel)
		b := Select(w, allOnes(16), 16, 3, 1, seed, hashing.SlotAuxSubstyle)
		if a == b {
			same++
		}
	}
	if same > trials/2 {
		t.Errorf("distinct slots produced identical selections too often: %d/%d", same, trials)
	}
}

func TestMinSpacingForZone(t *testing.T) {
	tests := []struct {
		ez   zone.EnergyZone
		want int
	}{
		{zone.EnergyMinimal, 4},
		{zone.EnergyGroove, 2},
		{zone.EnergyBuild, 1},
		{zone.EnergyPeak, 1},
	}
	for _, tt := range tests {
		if got := MinSpacingForZone(tt.ez); got != tt.want {
			t.Errorf("MinSpacingForZone(%v) = %d, want %d", tt.ez, got, tt.want)
		}
	}
}

func TestCyclicDistance(t *testing.T) {
	tests := []struct{ a, b, length, want int }{
		{0, 0, 16, 0},
		{0, 8, 16, 8},
		{0, 15, 16, 1},
		{1, 14, 16, 3},
	}
	for _, tt := range tests {
		if got := cyclicDistance(tt.a, tt.b, tt.length); got != tt.want {
			t.Errorf("cyclicDistance(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.length, got, tt.want)
		}
	}
}
