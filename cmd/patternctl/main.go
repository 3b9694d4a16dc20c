// Command patternctl is the host CLI around the pattern generation
// core: generate a pattern and print it, evaluate it against the
// default fitness targets, run a quick statistical bench across
// seeds, or manage saved presets.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/config"
	"github.com/duopulse/engine/internal/fitness"
	"github.com/duopulse/engine/internal/pattern"
	"github.com/duopulse/engine/internal/presets"
)

func main() {
	cfg := config.Parse()

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error("failed to create data directory", "path", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	switch args[0] {
	case "generate":
		runGenerate(args[1:], cfg)
	case "evaluate":
		runEvaluate(args[1:], cfg)
	case "bench":
		runBench(args[1:], cfg)
	case "preset":
		runPreset(args[1:], cfg, logger)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: patternctl <generate|evaluate|bench|preset> [flags]")
}

func paramsFromFlags(fs *flag.FlagSet, args []string, defaultSeed uint) pattern.Params {
	p := pattern.Params{}
	var genre string

	var energy, shape, axisX, axisY, drift, accent, balance, build, swing, phraseProgress float64
	fs.Float64Var(&energy, "energy", 0.6, "")
	fs.Float64Var(&shape, "shape", 0.4, "")
	fs.Float64Var(&axisX, "axis-x", 0.5, "")
	fs.Float64Var(&axisY, "axis-y", 0.5, "")
	fs.Float64Var(&drift, "drift", 0, "")
	fs.Float64Var(&accent, "accent", 0.5, "")
	fs.Float64Var(&balance, "balance", 0.5, "")
	fs.Float64Var(&build, "build", 0, "")
	fs.Float64Var(&swing, "swing", 0.5, "")
	fs.Float64Var(&phraseProgress, "phrase-progress", 0, "")
	fs.StringVar(&genre, "genre", "techno", "techno|tribal|idm")
	fs.IntVar(&p.PatternLength, "length", 32, "16|24|32|64")
	var seed uint
	fs.UintVar(&seed, "seed", defaultSeed, "")
	fs.Parse(args)

	p.Energy, p.Shape, p.AxisX, p.AxisY = float32(energy), float32(shape), float32(axisX), float32(axisY)
	p.Drift, p.Accent, p.Balance, p.Build = float32(drift), float32(accent), float32(balance), float32(build)
	p.Swing, p.PhraseProgress = float32(swing), float32(phraseProgress)
	p.Seed = uint32(seed)
	p.Genre = parseGenre(genre)
	return p
}

func parseGenre(s string) archetype.Genre {
	switch s {
	case "tribal":
		return archetype.Tribal
	case "idm":
		return archetype.IDM
	default:
		return archetype.Techno
	}
}

func runGenerate(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	p := paramsFromFlags(fs, args, cfg.DefaultSeed)
	result := pattern.Generate(p)
	printJSON(result)
}

func runEvaluate(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	p := paramsFromFlags(fs, args, cfg.DefaultSeed)
	result := pattern.Generate(p)
	report := fitness.Evaluate(result, p, fitness.DefaultTargets())
	printJSON(report)
}

func runBench(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var trials int
	fs.IntVar(&trials, "trials", 200, "number of distinct seeds to sample")
	p := paramsFromFlags(fs, args, cfg.DefaultSeed)

	var sum float32
	for i := 0; i < trials; i++ {
		p.Seed = p.Seed + uint32(i)
		result := pattern.Generate(p)
		report := fitness.Evaluate(result, p, fitness.DefaultTargets())
		sum += report.Composite
	}
	fmt.Printf("mean composite over %d trials: %.4f\n", trials, sum/float32(trials))
}

func runPreset(args []string, cfg *config.Config, logger *slog.Logger) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: patternctl preset <save|list|delete|load> [args]")
		os.Exit(2)
	}

	store, err := presets.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to open preset store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	switch args[0] {
	case "save":
		fs := flag.NewFlagSet("preset save", flag.ExitOnError)
		var name string
		fs.StringVar(&name, "name", "untitled", "preset name")
		rest := args[1:]
		fs.Parse(rest)
		p := paramsFromFlags(flag.NewFlagSet("preset save params", flag.ExitOnError), fs.Args(), cfg.DefaultSeed)
		id, err := store.Save(name, p)
		if err != nil {
			logger.Error("save failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(id)
	case "list":
		list, err := store.List()
		if err != nil {
			logger.Error("list failed", "error", err)
			os.Exit(1)
		}
		printJSON(list)
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: patternctl preset delete <id>")
			os.Exit(2)
		}
		if err := store.Delete(args[1]); err != nil {
			logger.Error("delete failed", "error", err)
			os.Exit(1)
		}
	case "load":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: patternctl preset load <id>")
			os.Exit(2)
		}
		preset, err := store.Get(args[1])
		if err != nil {
			logger.Error("load failed", "error", err)
			os.Exit(1)
		}
		result := pattern.Generate(preset.Params)
		printJSON(result)
	default:
		fmt.Fprintln(os.Stderr, "usage: patternctl preset <save|list|delete|load> [args]")
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode output:", err)
		os.Exit(1)
	}
}
