package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/platform/tui"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

var (
	flagRecent      bool
	flagLimit       int
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [stage]",
	Short: "Show the best runs for a stage",
	Long: `Display the best runs for a stage, or the recent ones with --recent.
Run IDs can be passed to 'danmaku replay verify'.

Examples:
  danmaku scores
  danmaku scores stage2 --recent
  danmaku scores --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagCatalog, "catalog", "", "Directory of extra stage files (.csv, .yaml)")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Order by date instead of score")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the run board")
}

func runScores(_ *cobra.Command, args []string) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	stage, err := findStage(ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'danmaku list' to see available stages.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening runs database: %v", err)
	}
	defer store.Close()

	if flagInteractive {
		stages, err := loadStages()
		if err != nil {
			exitf("%v", err)
		}
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(stages, store, cfg.ScreenW, cfg.ScreenH); err != nil {
			exitf("%v", err)
		}
		return
	}

	var runs []storage.Run
	if flagRecent {
		runs, err = store.RecentRuns(stage.ID, flagLimit)
	} else {
		runs, err = store.TopRuns(stage.ID, flagLimit)
	}
	if err != nil {
		exitf("retrieving runs: %v", err)
	}

	fmt.Printf("Runs - %s\n", stage.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'danmaku play %s' to set the first score!\n", stage.ID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-9s  %-16s  %s\n", "Rank", "Score", "Kills", "Result", "Date", "Run")
	fmt.Printf("  %-4s  %-8s  %-5s  %-9s  %-16s  %s\n", "----", "-----", "-----", "------", "----", "---")
	for i, run := range runs {
		res := "time up"
		switch {
		case run.Cleared:
			res = "cleared"
		case run.GameOver:
			res = "shot down"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-9s  %-16s  %s\n",
			i+1, run.Score, run.Kills, res, run.CreatedAt.Format("2006-01-02 15:04"), run.ID)
	}

	stats, err := store.GetStageStats(stage.ID)
	if err == nil && stats.RunsCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Clears: %d  Avg: %.0f\n",
			stats.HighScore, stats.RunsCount, stats.Clears, stats.AvgScore)
	}
}
