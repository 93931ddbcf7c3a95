// Package console runs a session in line mode: the frame is printed to a
// plain writer and one command is read per input line. It works over pipes
// and dumb terminals where the full-screen frontend cannot.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/metrics"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

// Reset is written before every frame. ESC c resets the terminal, which
// also clears it.
const Reset = "\x1bc"

// Prompt is written before reading a command.
const Prompt = "> "

// RunSaver records attempts. *storage.Store implements it.
type RunSaver interface {
	SaveRun(r storage.Run) (string, error)
}

// Options configures Run. The zero value plays without history or metrics.
type Options struct {
	Store   RunSaver
	Metrics *metrics.Collector
	Player  string // name recorded with runs
}

// Run plays s until the player quits, reaches an exit, input ends or ctx is
// cancelled. Each turn prints the frame, an optional notice and the prompt,
// then applies the first character of the next line.
//
// Every attempt with at least one move is recorded in opts.Store once:
// when it is won, restarted or left.
func Run(ctx context.Context, in io.Reader, out io.Writer, s *game.Session, opts Options) error {
	mc := opts.Metrics
	rec := recorder{store: opts.Store, player: opts.Player}
	defer rec.save(s)

	lines := readLines(ctx, in)
	w := bufio.NewWriter(out)

	for {
		if err := writeFrame(w, s); err != nil {
			return err
		}
		mc.FrameRendered()

		if s.Won() {
			st := s.Stats()
			fmt.Fprintf(w, "You found the exit in %d moves (%d bumps).\n", st.Moves, st.Bumps)
			return w.Flush()
		}

		w.WriteString(Prompt)
		if err := w.Flush(); err != nil {
			return fmt.Errorf("console: write: %w", err)
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		action := core.ParseCommand(line)
		if action == core.ActionRestart {
			rec.save(s)
		}

		outcome := s.Apply(action)
		mc.Command(outcome.String())
		switch outcome {
		case game.OutcomeQuit:
			return nil
		case game.OutcomeExited:
			mc.ExitReached(s.Map().ID)
			rec.save(s)
		case game.OutcomeRestarted:
			rec.saved = false
		}
	}
}

// recorder saves the current attempt of a session at most once.
type recorder struct {
	store  RunSaver
	player string
	saved  bool
}

// save records the attempt unless it was already recorded or has no moves.
func (r *recorder) save(s *game.Session) {
	st := s.Stats()
	if r.saved || r.store == nil || (!st.Won && st.Moves == 0) {
		return
	}

	//nolint:errcheck // Best-effort save, play continues regardless
	r.store.SaveRun(storage.Run{
		MapID:     s.Map().ID,
		Player:    r.player,
		Moves:     st.Moves,
		Bumps:     st.Bumps,
		Completed: st.Won,
		Duration:  st.Elapsed,
	})
	r.saved = true
}

func writeFrame(w *bufio.Writer, s *game.Session) error {
	screen := s.Render()

	var sb strings.Builder
	sb.WriteString(Reset)
	for y := range screen.Height() {
		sb.WriteString(screen.Row(y))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	if n := s.Notice(); n != "" {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}

	if _, err := w.WriteString(sb.String()); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	return nil
}

// readLines feeds lines from r into a channel until EOF or ctx ends.
// The reader goroutine may outlive Run when r blocks; it exits on the next
// line or EOF.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
