// Package midiaudition drives a MIDI output port from a generated
// pattern.Result, for quick by-ear auditioning from host tooling. It
// has no bearing on the real-time core: the generator never imports
// this package.
package midiaudition

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/duopulse/engine/internal/pattern"
	"github.com/duopulse/engine/internal/patternlen"
)

// NoteMap assigns a MIDI note number to each voice.
type NoteMap struct {
	Anchor  uint8
	Shimmer uint8
	Aux     uint8
}

// DefaultNoteMap follows the General MIDI drum-channel convention:
// kick, closed hat, hand clap.
var DefaultNoteMap = NoteMap{Anchor: 36, Shimmer: 42, Aux: 39}

// Channel is the MIDI channel audition notes are sent on (GM drums).
const Channel uint8 = 9

// GateDuration is how long a note stays on before its matching
// note-off is sent.
const GateDuration = 30 * time.Millisecond

// ListOutputPorts returns the system's available MIDI output ports.
func ListOutputPorts() []drivers.Out {
	return midi.GetOutPorts()
}

// Player sends one pattern.Result's hits to a MIDI output port in
// real time, one step at a time.
type Player struct {
	out   drivers.Out
	notes NoteMap
}

// NewPlayer opens outPort for writing.
func NewPlayer(outPort drivers.Out, notes NoteMap) (*Player, error) {
	if err := outPort.Open(); err != nil {
		return nil, fmt.Errorf("failed to open MIDI output: %w", err)
	}
	return &Player{out: outPort, notes: notes}, nil
}

// Close closes the underlying output port.
func (p *Player) Close() error {
	return p.out.Close()
}

// Play steps through result at the given tempo and subdivision,
// blocking until the bar completes.
func (p *Player) Play(result pattern.Result, bpm float64, stepsPerBeat int) error {
	interval := stepDuration(bpm, stepsPerBeat)

	for i := 0; i < result.PatternLength; i++ {
		if err := p.strike(result.AnchorMask, result.AnchorVel, i, p.notes.Anchor); err != nil {
			return err
		}
		if err := p.strike(result.ShimmerMask, result.ShimmerVel, i, p.notes.Shimmer); err != nil {
			return err
		}
		if err := p.strike(result.AuxMask, result.AuxVel, i, p.notes.Aux); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	return nil
}

func (p *Player) strike(mask uint64, vel patternlen.FloatBuffer, step int, note uint8) error {
	if mask&(uint64(1)<<uint(step)) == 0 {
		return nil
	}
	velocity := velocityToMIDI(vel[step])
	if err := p.out.Send(midi.NoteOn(Channel, note, velocity)); err != nil {
		return fmt.Errorf("failed to send note on: %w", err)
	}
	go func() {
		time.Sleep(GateDuration)
		p.out.Send(midi.NoteOff(Channel, note))
	}()
	return nil
}

// velocityToMIDI maps the engine's [0,1] velocity to the MIDI 1-127
// range (0 is reserved for note-off semantics in some receivers).
func velocityToMIDI(v float32) uint8 {
	scaled := int(v*127 + 0.5)
	if scaled < 1 {
		scaled = 1
	}
	if scaled > 127 {
		scaled = 127
	}
	return uint8(scaled)
}

// stepDuration computes the wall-clock time one step occupies at the
// given tempo and subdivision. stepsPerBeat <= 0 defaults to 4 (16th
// notes at a 4/4 beat).
func stepDuration(bpm float64, stepsPerBeat int) time.Duration {
	if stepsPerBeat <= 0 {
		stepsPerBeat = 4
	}
	if bpm <= 0 {
		bpm = 120
	}
	seconds := 60.0 / bpm / float64(stepsPerBeat)
	return time.Duration(seconds * float64(time.Second))
}
