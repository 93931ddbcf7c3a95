package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/storage"
)

var (
	flagScoresLimit int
	flagRecent      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show the best runs on a map",
	Long: `Display the best completed runs for the specified map: fewest moves
first, then fastest.

With --recent the latest runs across all maps are shown instead, finished
or not. --clear deletes the history of the map.

Examples:
  maze scores classic
  maze scores spiral --limit 25
  maze scores --recent
  maze scores courtyard --clear`,
	Args:              cobra.MaximumNArgs(1),
	Run:               runScores,
	ValidArgsFunction: completeMapIDs,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest runs on all maps")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all runs of the map")
}

func runScores(_ *cobra.Command, args []string) {
	if !flagRecent && len(args) == 0 {
		fatalf("a map ID is required unless --recent is set")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening runs database: %v", err)
	}
	defer store.Close()

	if flagRecent {
		runs, err := store.RecentRuns(flagScoresLimit)
		if err != nil {
			fatalf("retrieving runs: %v", err)
		}
		fmt.Println("Recent runs")
		fmt.Println()
		printRuns(runs, true)
		return
	}

	m := findMap(args[0])

	if flagClear {
		if err := store.ClearRuns(m.ID); err != nil {
			fatalf("clearing runs: %v", err)
		}
		fmt.Printf("Cleared the run history of %s.\n", m.Title())
		return
	}

	runs, err := store.BestRuns(m.ID, flagScoresLimit)
	if err != nil {
		fatalf("retrieving runs: %v", err)
	}

	fmt.Printf("Best Runs - %s\n", m.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("Nobody has found the exit yet.")
		fmt.Println()
		fmt.Printf("Play 'maze play %s' to set the first record!\n", m.ID)
		return
	}
	printRuns(runs, false)

	if st, err := store.MapStats(m.ID); err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Finished: %d  Best: %d moves  Average: %.1f moves\n",
			st.Runs, st.Completed, st.BestMoves, st.AvgMoves)
	}
}

func printRuns(runs []storage.Run, withMap bool) {
	if withMap {
		fmt.Printf("  %-4s  %-12s  %-12s  %5s  %5s  %8s  %s\n", "Rank", "Map", "Player", "Moves", "Bumps", "Time", "Date")
	} else {
		fmt.Printf("  %-4s  %-12s  %5s  %5s  %8s  %s\n", "Rank", "Player", "Moves", "Bumps", "Time", "Date")
	}

	for i, r := range runs {
		dur := r.Duration.Round(time.Second).String()
		date := r.CreatedAt.Local().Format("2006-01-02 15:04")
		if !r.Completed {
			dur += "*"
		}
		if withMap {
			fmt.Printf("  %-4d  %-12s  %-12s  %5d  %5d  %8s  %s\n", i+1, r.MapID, r.Player, r.Moves, r.Bumps, dur, date)
		} else {
			fmt.Printf("  %-4d  %-12s  %5d  %5d  %8s  %s\n", i+1, r.Player, r.Moves, r.Bumps, dur, date)
		}
	}

	if withMap {
		fmt.Println()
		fmt.Println("* not finished")
	}
}
