package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Verify or export recorded runs",
	Long: `Work with recorded runs. A recording holds the seed, the configuration,
the stage roster and every tick of input, so it can be re-simulated and
checked against the final state it claims.

Examples:
  danmaku replay verify run.replay
  danmaku replay verify 3f0c9a4e-...          # run ID from the database
  danmaku replay export 3f0c9a4e-... run.replay`,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file|run-id>",
	Short: "Re-simulate a recording and compare the final state",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayVerify,
}

var replayExportCmd = &cobra.Command{
	Use:   "export <run-id> <file>",
	Short: "Write a stored run's recording to a file",
	Args:  cobra.ExactArgs(2),
	Run:   runReplayExport,
}

func init() {
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayExportCmd)
}

// loadRecording reads ref as a file first and falls back to a run ID.
func loadRecording(ref string) (*replay.Recording, error) {
	if _, err := os.Stat(ref); err == nil {
		return replay.Load(ref)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	run, err := store.RunByID(ref)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("no recording file or run %q", ref)
	}
	return run.Recording()
}

func runReplayVerify(_ *cobra.Command, args []string) {
	rec, err := loadRecording(args[0])
	if err != nil {
		exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Run:    %s\n", rec.RunID)
	fmt.Printf("Stage:  %s, seed %d, %d ticks of input\n", rec.Setup.Stage, rec.Setup.Seed, len(rec.Inputs))

	got, err := replay.Verify(ctx, rec)
	switch {
	case errors.Is(err, replay.ErrDiverged):
		fmt.Printf("Result: DIVERGED\n")
		fmt.Printf("  recorded    ticks=%d kills=%d life=%d fingerprint=%016x\n",
			rec.Final.Ticks, rec.Final.Kills, rec.Final.PlayerLife, rec.Final.Fingerprint)
		fmt.Printf("  resimulated ticks=%d kills=%d life=%d fingerprint=%016x\n",
			got.Ticks, got.Kills, got.PlayerLife, got.Fingerprint)
		os.Exit(2)
	case err != nil:
		exitf("%v", err)
	}

	fmt.Printf("Result: OK (%s, fingerprint %016x)\n", result(got), got.Fingerprint)
}

func runReplayExport(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening runs database: %v", err)
	}
	defer store.Close()

	run, err := store.RunByID(args[0])
	if err != nil {
		exitf("%v", err)
	}
	if run == nil {
		exitf("unknown run %q", args[0])
	}
	rec, err := run.Recording()
	if err != nil {
		exitf("%v", err)
	}
	if err := replay.Save(args[1], rec); err != nil {
		exitf("%v", err)
	}
	fmt.Printf("Wrote %s (%d ticks)\n", args[1], len(rec.Inputs))
}
