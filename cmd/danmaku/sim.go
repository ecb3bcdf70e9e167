package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/registry"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var (
	flagTicks  int
	flagPilot  string
	flagHold   int
	flagRecord string
	flagSave   bool
)

var simCmd = &cobra.Command{
	Use:   "sim [stage]",
	Short: "Run a stage headless with a scripted pilot",
	Long: `Run the simulation without a terminal UI. A scripted pilot flies the
player; the run stops at --ticks, when the player dies, or when the stage is
cleared. The final state and its fingerprint are printed.

Run 'danmaku list' to see the available pilots.

Examples:
  danmaku sim
  danmaku sim stage2 --ticks 7200 --seed 42
  danmaku sim stage1 --pilot wander --record run.replay --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	addGameFlags(simCmd)
	simCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Maximum ticks to simulate (0 = until the run ends)")
	simCmd.Flags().StringVar(&flagPilot, "pilot", "strafe", "Scripted pilot (see 'danmaku list')")
	simCmd.Flags().IntVar(&flagHold, "hold", 60, "Ticks the strafe pilot holds each direction")
	simCmd.Flags().StringVar(&flagRecord, "record", "", "Write the recording to this file")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Store the run in the runs database")
}

func runSim(cmd *cobra.Command, args []string) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	stage, err := findStage(ref)
	if err != nil {
		exitf("%v", err)
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		exitf("%v", err)
	}
	if cmd.Flags().Changed("fps") {
		gameCfg.World.TickRate = flagFPS
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	src, err := registry.Create(flagPilot, registry.Options{Hold: flagHold, Seed: seed})
	if err != nil {
		exitf("%v", err)
	}

	setup, err := replay.NewSetup(*gameCfg, stage.ID, stage.Descriptors, seed)
	if err != nil {
		exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("simulating", "stage", stage.ID, "seed", seed, "pilot", flagPilot, "ticks", flagTicks)
	started := time.Now()
	rec, err := replay.Record(ctx, setup, src, flagTicks)
	if err != nil {
		exitf("%v", err)
	}
	log.Info("simulation finished", "ticks", rec.Final.Ticks, "took", time.Since(started).Round(time.Millisecond))

	final := rec.Final
	elapsed := float64(final.Ticks) / float64(setup.Tuning.TickRate)
	score := danmaku.Score(final.Kills, elapsed)

	fmt.Printf("Stage:       %s (%s)\n", stage.Name, stage.ID)
	fmt.Printf("Seed:        %d\n", seed)
	fmt.Printf("Ticks:       %d (%.1fs)\n", final.Ticks, elapsed)
	fmt.Printf("Kills:       %d (%d left)\n", final.Kills, final.Enemies)
	fmt.Printf("Player life: %d\n", final.PlayerLife)
	fmt.Printf("Result:      %s\n", result(final))
	fmt.Printf("Score:       %d\n", score)
	fmt.Printf("Fingerprint: %016x\n", final.Fingerprint)

	if flagRecord != "" {
		if err := replay.Save(flagRecord, rec); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Recording:   %s\n", flagRecord)
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			exitf("opening runs database: %v", err)
		}
		defer store.Close()
		run, err := store.SaveRecording(rec, score)
		if err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Run ID:      %s\n", run.ID)
	}
}

func result(s sim.Summary) string {
	switch {
	case s.Cleared:
		return "cleared"
	case s.GameOver:
		return "shot down"
	default:
		return "time up"
	}
}
