// Package buildarc computes the phrase-level intensity modifiers
// (density, velocity, forced accents) from the build knob and the
// caller's position within the phrase. It is a pure function of
// phraseProgress; there is no task or timer involved (§9 design
// notes: "the phrase arc is not a task").
package buildarc

// Phase is the phrase-arc state derived from phraseProgress.
type Phase int

const (
	Groove Phase = iota
	Build
	Fill
)

func (p Phase) String() string {
	switch p {
	case Groove:
		return "Groove"
	case Build:
		return "Build"
	case Fill:
		return "Fill"
	default:
		return "Unknown"
	}
}

const (
	buildPhaseEnd = 0.600
	fillPhaseEnd  = 0.875
)

// Modifiers is what the rest of the pipeline consumes: DensityMultiplier
// scales the hit budget (1.0 = no change), VelocityBoost is an additive
// term fed into the velocity engine, ForceAccents raises the velocity
// floor for metrically strong steps during Fill.
type Modifiers struct {
	DensityMultiplier float32
	VelocityBoost     float32
	ForceAccents      bool
}

// Compute returns the current phase and its modifiers for the given
// build depth and phrase position.
func Compute(build, phraseProgress float32) (Phase, Modifiers) {
	switch {
	case phraseProgress < buildPhaseEnd:
		return Groove, Modifiers{DensityMultiplier: 1.0}
	case phraseProgress < fillPhaseEnd:
		p := (phraseProgress - buildPhaseEnd) / 0.275
		return Build, Modifiers{
			DensityMultiplier: 1 + build*0.35*p,
			VelocityBoost:     build * 0.08 * p,
		}
	default:
		return Fill, Modifiers{
			DensityMultiplier: 1 + build*0.50,
			VelocityBoost:     build * 0.12,
			ForceAccents:      build > 0.6,
		}
	}
}
