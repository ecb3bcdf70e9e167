package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a stage picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a stage and Tab for the
run board. After a run ends, Esc returns to the menu.

Examples:
  danmaku menu
  danmaku menu --catalog ./stages
  danmaku menu --fps 30 --db ./runs.db`,
	Run: runMenu,
}

func init() {
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	stages, err := loadStages()
	if err != nil {
		exitf("%v", err)
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	runErr := tui.RunSession(tui.SessionOptions{
		Stages: stages,
		Game:   gameCfg,
		Store:  store,
		Logger: tuiLogger(),
	}, runtimeConfig())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("%v", runErr)
	}
}
