// Package config parses host-process configuration for the pattern
// engine's command-line tools. The generation core itself takes no
// configuration beyond PatternParams; this package only serves
// cmd/patternctl and cmd/patternpreview.
package config

import (
	"flag"
	"os"
)

// Config holds settings for the host tooling (preset store location,
// MIDI output port, logging verbosity). None of it reaches the
// real-time generator.
type Config struct {
	DataDir    string
	LogLevel   string
	MIDIPort   string
	DefaultSeed uint
}

// Parse reads flags (and environment overrides) into a Config.
func Parse() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.DataDir, "data-dir", defaultDataDir(), "data directory for the SQLite preset/history store")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.MIDIPort, "midi-port", "", "MIDI output port name for audition (empty disables audition)")
	flag.UintVar(&cfg.DefaultSeed, "seed", 0xDEADBEEF, "default seed used when none is supplied")

	flag.Parse()
	return cfg
}

func defaultDataDir() string {
	if dir := os.Getenv("DUOPULSE_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duopulse"
	}
	return home + "/.duopulse"
}
