// Command patternpreview is a terminal UI for live-tweaking pattern
// parameters and previewing the resulting step grid, optionally
// auditioning it over a MIDI output port.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/duopulse/engine/internal/config"
	"github.com/duopulse/engine/internal/midiaudition"
	"github.com/duopulse/engine/internal/previewtui"
)

func main() {
	cfg := config.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	var player *midiaudition.Player
	if cfg.MIDIPort != "" {
		out, err := findPort(cfg.MIDIPort)
		if err != nil {
			logger.Warn("MIDI audition disabled", "error", err)
		} else {
			player, err = midiaudition.NewPlayer(out, midiaudition.DefaultNoteMap)
			if err != nil {
				logger.Warn("MIDI audition disabled", "error", err)
				player = nil
			}
		}
	}

	m := previewtui.New(player)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "patternpreview:", err)
		os.Exit(1)
	}
}

func findPort(name string) (drivers.Out, error) {
	for _, out := range midiaudition.ListOutputPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("MIDI output port %q not found", name)
}
