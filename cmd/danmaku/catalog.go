package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate stage files",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Parse stage files or directories and report errors",
	Long: `Parse each stage file (.csv, .yaml, .yml) or every stage file under a
directory. A file is accepted or rejected as a whole; the first bad record is
reported with its row and field.

Examples:
  danmaku catalog check stages/
  danmaku catalog check boss.yaml wave.csv`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCatalogCheck,
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
}

func runCatalogCheck(_ *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
			continue
		}

		if !info.IsDir() {
			stage, err := catalog.NewLoader("", log.Default()).LoadFile(path)
			if err != nil {
				reportParse(path, err)
				failed++
				continue
			}
			fmt.Printf("ok    %s: %s (%d foes)\n", path, stage.ID, stage.Enemies())
			continue
		}

		stages, err := catalog.NewLoader(path, log.Default()).LoadAll()
		if err != nil {
			reportParse(path, err)
			failed++
			continue
		}
		for _, s := range stages {
			fmt.Printf("ok    %s: %s (%d foes)\n", s.FilePath, s.ID, s.Enemies())
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d paths failed\n", failed, len(args))
		os.Exit(1)
	}
}

func reportParse(path string, err error) {
	var pe *catalog.ParseError
	if errors.As(err, &pe) {
		fmt.Printf("FAIL  %s: row %d", pe.Source, pe.Row)
		if pe.Field != "" {
			fmt.Printf(" field %s", pe.Field)
		}
		fmt.Printf(": %v\n", pe.Err)
		return
	}
	fmt.Printf("FAIL  %s: %v\n", path, err)
}
