package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog"
)

var (
	flagConfig     string
	flagDifficulty string
	flagCatalog    string
)

// addGameFlags registers the flags that shape a run.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom danmaku config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagCatalog, "catalog", "", "Directory of extra stage files (.csv, .yaml)")
}

// exitf prints an error and exits.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadGameConfig loads the config file and applies the difficulty preset.
func loadGameConfig() (*config.DanmakuConfig, error) {
	cfg, err := config.LoadDanmaku(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return nil, err
		}
		config.ApplyDanmakuPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadStages returns the builtin stages followed by the --catalog ones.
// A catalog stage replaces a builtin stage with the same ID.
func loadStages() ([]catalog.Stage, error) {
	stages, err := catalog.Builtin()
	if err != nil {
		return nil, err
	}
	if flagCatalog == "" {
		return stages, nil
	}

	extra, err := catalog.NewLoader(flagCatalog, log.Default()).LoadAll()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(stages))
	for i, s := range stages {
		index[s.ID] = i
	}
	for _, s := range extra {
		if i, ok := index[s.ID]; ok {
			stages[i] = s
			continue
		}
		index[s.ID] = len(stages)
		stages = append(stages, s)
	}
	return stages, nil
}

// findStage resolves a stage reference: a file path, a --catalog stage ID,
// or a builtin stage ID. Empty means the default stage.
func findStage(ref string) (catalog.Stage, error) {
	if ref == "" {
		ref = catalog.DefaultStageID
	}
	if _, err := os.Stat(ref); err == nil {
		return catalog.Resolve(ref, log.Default())
	}
	stages, err := loadStages()
	if err != nil {
		return catalog.Stage{}, err
	}
	for _, s := range stages {
		if s.ID == ref {
			return s, nil
		}
	}
	return catalog.Stage{}, fmt.Errorf("unknown stage %q", ref)
}

// runtimeConfig builds the runtime config from the terminal and global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
