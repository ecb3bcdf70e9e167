package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-danmaku/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available stages",
	Long: `Shows the builtin stages and, with --catalog, the stages found in a
catalog directory, followed by the scripted pilots for 'danmaku sim'.`,
	Run: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagCatalog, "catalog", "", "Directory of extra stage files (.csv, .yaml)")
}

func runList(cmd *cobra.Command, args []string) {
	stages, err := loadStages()
	if err != nil {
		exitf("%v", err)
	}

	if len(stages) == 0 {
		fmt.Println("No stages available.")
		return
	}

	fmt.Println("Available stages:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range stages {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Foes", "Name")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "----", "----")

	for _, s := range stages {
		fmt.Printf("  %-*s  %-5d  %s\n", maxIDLen, s.ID, s.Enemies(), s.Name)
	}

	fmt.Println()
	fmt.Println("Pilots:")
	fmt.Println()
	for _, p := range registry.List() {
		fmt.Printf("  %-8s  %s\n", p.Name, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'danmaku play <id>' to play a stage.")
}
