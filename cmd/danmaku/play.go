package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku"
	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [stage]",
	Short: "Play a stage",
	Long: `Start playing the given stage. The stage is a builtin ID, an ID from
--catalog, or a path to a stage file. Without a stage the menu opens.

Controls:
  Arrows/WASD  - Move (hold)
  Z/Space      - Fire (hold)
  X            - Toggle autofire
  P            - Pause
  R            - Restart (after the run ends)
  Esc/B        - Leave (paused or after the run ends)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More life and longer invulnerability, gentle escalation
  normal - Stock settings, escalates with kills
  hard   - Less life, extra random bursts, starts escalated
  fixed  - No escalation

Examples:
  danmaku play
  danmaku play stage2 --difficulty hard
  danmaku play ./stages/boss.yaml
  danmaku play stage1 --config ./my-danmaku.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		runMenu(cmd, args)
		return
	}

	stage, err := findStage(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'danmaku list' to see available stages.")
		os.Exit(1)
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}

	game := danmaku.NewWithOptions(danmaku.Options{Config: gameCfg, Stage: &stage})

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, runtimeConfig(), tuiLogger())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("running game: %v", runErr)
	}
}
