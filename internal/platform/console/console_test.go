package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/metrics"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

func newSession(t *testing.T, speed float64, rows ...string) *game.Session {
	t.Helper()
	m, err := maps.Parse(rows)
	require.NoError(t, err)
	m.ID = "test"

	cfg := config.Default()
	cfg.Screen.Width, cfg.Screen.Height = 12, 6
	cfg.Movement.Speed = speed
	return game.New(m, cfg)
}

func TestRunQuit(t *testing.T) {
	s := newSession(t, 0.1, "######", "#S..E#", "######")
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("w\nq\nw\n"), &out, s, Options{})
	require.NoError(t, err)

	got := out.String()
	assert.Equal(t, 2, strings.Count(got, Reset))
	assert.Equal(t, 2, strings.Count(got, Prompt))
	assert.Equal(t, 1, s.Stats().Moves)

	// Each frame: reset, six rows of twelve glyphs, one blank line.
	frame := strings.TrimPrefix(strings.Split(got, Prompt)[0], Reset)
	lines := strings.Split(frame, "\n")
	require.Len(t, lines, 8)
	for i, line := range lines[:6] {
		assert.Len(t, []rune(line), 12, "row %d", i)
	}
	assert.Empty(t, lines[6])
}

func TestRunWallNotice(t *testing.T) {
	s := newSession(t, 0.6, "######", "#S..E#", "######")
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("s\nd\n"), &out, s, Options{})
	require.NoError(t, err)

	frames := strings.Split(out.String(), Reset)
	require.Len(t, frames, 4) // leading empty split + three frames
	assert.NotContains(t, frames[1], game.WallNotice)
	assert.Contains(t, frames[2], game.WallNotice+"\n"+Prompt)
	assert.NotContains(t, frames[3], game.WallNotice)
}

func TestRunReachesExit(t *testing.T) {
	s := newSession(t, 1, "####", "#SE#", "####")
	mc := metrics.New()
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("W\nw\n"), &out, s, Options{Metrics: mc})
	require.NoError(t, err)

	assert.True(t, s.Won())
	assert.Contains(t, out.String(), "You found the exit in 1 moves")
	assert.Equal(t, 1, strings.Count(out.String(), Prompt))
}

func TestRunIgnoresUnknownInput(t *testing.T) {
	s := newSession(t, 0.1, "######", "#S..E#", "######")
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("\nxyz\n  w\n"), &out, s, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Stats().Moves)
	assert.Equal(t, 4, strings.Count(out.String(), Reset))
}

func TestRunEOF(t *testing.T) {
	s := newSession(t, 0.1, "######", "#S..E#", "######")
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader(""), &out, s, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), Reset))
}

func TestRunContextCancel(t *testing.T) {
	s := newSession(t, 0.1, "######", "#S..E#", "######")
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, pr, io.Discard, s, Options{})
	}()

	cancel()
	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled), "Run() = %v, expected context.Canceled", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRunWriteError(t *testing.T) {
	s := newSession(t, 0.1, "######", "#S..E#", "######")

	err := Run(context.Background(), strings.NewReader("w\n"), failingWriter{}, s, Options{})
	assert.Error(t, err)
}

// memStore keeps saved runs in memory.
type memStore struct {
	runs []storage.Run
}

func (m *memStore) SaveRun(r storage.Run) (string, error) {
	m.runs = append(m.runs, r)
	return "", nil
}

func TestRunRecordsEveryAttempt(t *testing.T) {
	s := newSession(t, 1, "#####", "#S.E#", "#####")
	store := &memStore{}
	var out bytes.Buffer

	// A step, restart, a turn, restart, then walk to the exit
	input := "w\nr\nd\nr\nw\nw\n"
	err := Run(context.Background(), strings.NewReader(input), &out, s, Options{Store: store, Player: "eve"})
	require.NoError(t, err)

	require.Len(t, store.runs, 2, "an attempt without moves is not recorded")
	assert.False(t, store.runs[0].Completed)
	assert.Equal(t, 1, store.runs[0].Moves)
	assert.Equal(t, "eve", store.runs[0].Player)
	assert.Equal(t, "test", store.runs[0].MapID)

	assert.True(t, store.runs[1].Completed)
	assert.Equal(t, 2, store.runs[1].Moves)
}

func TestRunRecordsAbandonedAttempt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"quit", "w\nq\n"},
		{"end of input", "w\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, 0.1, "######", "#S..E#", "######")
			store := &memStore{}

			err := Run(context.Background(), strings.NewReader(tt.input), io.Discard, s, Options{Store: store})
			require.NoError(t, err)

			require.Len(t, store.runs, 1)
			assert.False(t, store.runs[0].Completed)
			assert.Equal(t, 1, store.runs[0].Moves)
		})
	}
}
