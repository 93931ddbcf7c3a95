package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available maps",
	Long:  `Shows the built-in maps and any maps found in the --maps directory.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	all := loadMaps()
	if len(all) == 0 {
		fmt.Println("No maps available.")
		return
	}

	best := map[string]int{}
	if store := openStore(); store != nil {
		if stats, err := store.AllMapStats(); err == nil {
			for id, st := range stats {
				best[id] = st.BestMoves
			}
		}
		store.Close()
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range all {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Println("Available maps:")
	fmt.Println()
	fmt.Printf("  %-*s  %-7s  %-4s  %s\n", maxIDLen, "ID", "Size", "Best", "Name")
	fmt.Printf("  %-*s  %-7s  %-4s  %s\n", maxIDLen, "--", "----", "----", "----")

	for _, m := range all {
		size := fmt.Sprintf("%dx%d", m.Grid.Width(), m.Grid.Height())
		b := "-"
		if n := best[m.ID]; n > 0 {
			b = fmt.Sprintf("%d", n)
		}
		fmt.Printf("  %-*s  %-7s  %-4s  %s\n", maxIDLen, m.ID, size, b, m.Title())
	}

	fmt.Println()
	fmt.Println("Run 'maze play <id>' to play a map.")
}
