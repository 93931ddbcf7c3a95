package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/platform/tui"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the maze with a map picker menu",
	Long: `Start the maze in interactive menu mode.

Use arrow keys or j/k to pick a map, left/right to change the pace and
Enter to start. Tab shows the best runs. After a game ends, you return to
the menu to play again.

Examples:
  maze menu
  maze menu --maps ~/my-mazes`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	all := loadMaps()
	if len(all) == 0 {
		fatalf("no maps available")
	}
	engine := loadEngine()
	rc := runtimeConfig(engine)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := rc.ScreenW, rc.ScreenH
	for {
		var stats map[string]*storage.MapStats
		if store != nil {
			stats, _ = store.AllMapStats()
		}

		result, err := tui.RunMenu(all, stats, width, height)
		if err != nil {
			fatalf("%v", err)
		}
		width, height = result.Width, result.Height

		switch {
		case result.Quit:
			return

		case result.WantsScoreboard:
			ids := make([]string, len(all))
			for i, m := range all {
				ids[i] = m.ID
			}
			var lister tui.RunLister
			if store != nil {
				lister = store
			}
			goBack, err := tui.RunScoreboard(lister, ids, width, height)
			if err != nil {
				fatalf("%v", err)
			}
			if !goBack {
				return
			}

		default:
			playFromMenu(byID(all, result.MapID), engine, result.Pace, store, rc.Player)
		}
	}
}

func playFromMenu(m *maps.Map, engine config.Engine, pace config.PacePreset, store *storage.Store, player string) {
	if m == nil {
		return
	}
	config.ApplyPace(&engine, pace)

	opts := tui.Options{Player: player}
	if store != nil {
		opts.Store = store
	}
	if _, err := tui.Run(game.New(m, engine), opts); err != nil {
		fatalf("%v", err)
	}
}

func byID(all []*maps.Map, id string) *maps.Map {
	for _, m := range all {
		if m.ID == id {
			return m
		}
	}
	return nil
}
