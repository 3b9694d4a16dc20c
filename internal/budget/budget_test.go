package budget

import (
	"testing"

	"github.com/duopulse/engine/internal/zone"
)

func TestComputeZeroEnergyIsSilence(t *testing.T) {
	targets := Compute(0, 0.8, zone.EnergyPeak, 32, 0.2)
	if targets.Anchor != 0 || targets.Shimmer != 0 {
		t.Errorf("energy=0 should yield zero targets, got %+v", targets)
	}
}

func TestComputeZeroBalanceIsEmptyShimmer(t *testing.T) {
	targets := Compute(0.6, 0, zone.EnergyPeak, 32, 0)
	if targets.Shimmer != 0 {
		t.Errorf("balance=0 should yield zero shimmer, got %d", targets.Shimmer)
	}
}

func TestComputeRespectsMaxHitsCap(t *testing.T) {
	for _, pl := range []int{16, 24, 32, 64} {
		targets := Compute(1.0, 1.0, zone.EnergyPeak, pl, 0.5)
		max := pl / 3
		if targets.Anchor > max {
			t.Errorf("patternLength=%d anchor=%d exceeds cap %d", pl, targets.Anchor, max)
		}
	}
}

func TestComputeRespectsZoneMinimums(t *testing.T) {
	tests := []struct {
		ez  zone.EnergyZone
		min int
	}{
		{zone.EnergyMinimal, 1},
		{zone.EnergyGroove, 3},
		{zone.EnergyBuild, 4},
		{zone.EnergyPeak, 6},
	}
	for _, tt := range tests {
		targets := Compute(0.01, 0, tt.ez, 64, 0)
		if targets.Anchor < tt.min {
			t.Errorf("zone %v anchor=%d below minimum %d", tt.ez, targets.Anchor, tt.min)
		}
	}
}

func TestShimmerCapByZone(t *testing.T) {
	peak := Compute(1.0, 1.0, zone.EnergyPeak, 64, 0)
	grooveMax := Compute(1.0, 1.0, zone.EnergyGroove, 64, 0)

	if float64(peak.Shimmer) > float64(peak.Anchor)*1.5+0.5 {
		t.Errorf("PEAK shimmer %d exceeds 1.5x anchor %d", peak.Shimmer, peak.Anchor)
	}
	if float64(grooveMax.Shimmer) > float64(grooveMax.Anchor)*1.0+0.5 {
		t.Errorf("GROOVE shimmer %d exceeds 1.0x anchor %d", grooveMax.Shimmer, grooveMax.Anchor)
	}
}
