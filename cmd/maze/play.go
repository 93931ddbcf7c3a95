package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/platform/console"
	"github.com/vovakirdan/tui-maze/internal/platform/tui"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

// lineChromeRows is what line mode prints below the frame:
// a blank line, the notice line and the prompt.
const lineChromeRows = 3

var (
	flagLine   bool
	flagWidth  int
	flagHeight int
	flagPace   string
)

var playCmd = &cobra.Command{
	Use:   "play <map>",
	Short: "Play a map",
	Long: `Start walking through the specified map.

Controls:
  W/Up     - Step forward
  S/Down   - Step back
  A/Left   - Turn left
  D/Right  - Turn right
  R        - Restart
  Ctrl+S   - Save a screenshot
  Q/Esc    - Quit

With --line the maze is played one typed command per line (w, s, a, d, q),
which also works over pipes and dumb terminals.

Pace options:
  careful - half speed
  normal  - configured speed
  brisk   - three times the speed

Examples:
  maze play classic
  maze play spiral --pace brisk
  maze play courtyard --line
  maze play classic --width 120 --height 40`,
	Args:              cobra.ExactArgs(1),
	Run:               runPlay,
	ValidArgsFunction: completeMapIDs,
}

func init() {
	playCmd.Flags().BoolVar(&flagLine, "line", false, "Line mode: read one command per line from stdin")
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "View width (default: terminal width)")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "View height (default: terminal height)")
	playCmd.Flags().StringVar(&flagPace, "pace", "", "Pace preset: careful, normal, brisk")
}

func runPlay(cmd *cobra.Command, args []string) {
	m := findMap(args[0])

	engine := loadEngine()
	pace, err := config.ParsePace(flagPace)
	if err != nil {
		fatalf("%v", err)
	}
	config.ApplyPace(&engine, pace)

	rc := runtimeConfig(engine)
	if flagLine {
		rc.ScreenH -= lineChromeRows
	}
	if flagWidth > 0 {
		rc.ScreenW = flagWidth
	}
	if flagHeight > 0 {
		rc.ScreenH = flagHeight
	}
	engine.Screen.Width, engine.Screen.Height = rc.ScreenW, rc.ScreenH
	if err := engine.Validate(); err != nil {
		fatalf("%v", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	s := game.New(m, engine)
	logger.Debug("session started", "map", m.ID, "pace", pace, "player", rc.Player)

	if flagLine {
		playLine(cmd.Context(), s, store, rc.Player)
		return
	}

	opts := tui.Options{Player: rc.Player}
	if store != nil {
		opts.Store = store
	}
	result, err := tui.Run(s, opts)
	if err != nil {
		fatalf("%v", err)
	}
	printSummary(m.Title(), result.Stats)
}

// playLine runs the line-mode loop on stdin. Every attempt is recorded in store.
func playLine(ctx context.Context, s *game.Session, store *storage.Store, player string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := console.Options{Player: player}
	if store != nil {
		opts.Store = warnSaver{store}
	}
	if err := console.Run(ctx, os.Stdin, os.Stdout, s, opts); err != nil && ctx.Err() == nil {
		fatalf("%v", err)
	}
}

// warnSaver logs failed saves instead of interrupting play.
type warnSaver struct {
	store *storage.Store
}

func (w warnSaver) SaveRun(r storage.Run) (string, error) {
	id, err := w.store.SaveRun(r)
	if err != nil {
		logger.Warn("could not save run", "error", err)
	}
	return id, err
}

func printSummary(title string, st game.Stats) {
	if st.Won {
		fmt.Printf("%s: exit found in %d moves, %d bumps, %s.\n",
			title, st.Moves, st.Bumps, st.Elapsed.Round(time.Second))
		return
	}
	fmt.Printf("%s: left after %d moves.\n", title, st.Moves)
}
