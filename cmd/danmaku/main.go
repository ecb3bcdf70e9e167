// danmaku is a deterministic bullet-hell simulation you can play in the
// terminal, run headless, record and replay.
//
// Usage:
//
//	danmaku list              - List stages
//	danmaku play [stage]      - Play a stage (no stage opens the menu)
//	danmaku menu              - Stage picker menu
//	danmaku sim [stage]       - Run headless with a scripted pilot
//	danmaku replay verify     - Re-simulate a recording
//	danmaku catalog check     - Validate stage files
//	danmaku scores [stage]    - Show the best runs
//	danmaku serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.danmaku/runs.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/config"

	// Import pilots to register them
	_ "github.com/vovakirdan/tui-danmaku/internal/pilot"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

// logFile is the open --log-file, closed on exit.
var logFile *os.File

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "danmaku",
	Short: "Danmaku - a deterministic bullet-hell in your terminal",
	Long: `Danmaku is a fixed-step bullet-hell simulation. Dodge rings of bullets,
shoot down the enemy roster and keep every run reproducible from its seed.

Available commands:
  list     - Show builtin and catalog stages
  play     - Play a stage directly
  menu     - Interactive stage picker
  sim      - Run headless with a scripted pilot
  replay   - Verify or export recorded runs
  catalog  - Validate stage files
  scores   - View the best runs
  serve    - Start SSH server for remote play

Examples:
  danmaku list
  danmaku play stage1
  danmaku sim stage2 --ticks 3600 --record run.replay
  danmaku replay verify run.replay
  danmaku serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/"+config.AppDir+"/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogging installs the default logger from the global flags.
func setupLogging() error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "danmaku",
		Level:           level,
	})
	log.SetDefault(logger)
	return nil
}

// tuiLogger returns the logger to use while a full-screen program owns the
// terminal. Without --log-file, output to stderr would corrupt the display.
func tuiLogger() *log.Logger {
	if logFile != nil {
		return log.Default()
	}
	return log.New(io.Discard)
}
