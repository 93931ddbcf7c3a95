// Package tui provides the Bubble Tea frontends for the maze: the key-mode
// game view, the map picker, the scoreboard and the SSH server that serves
// them to remote terminals.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/metrics"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

// RunSaver persists finished runs. *storage.Store implements it.
type RunSaver interface {
	SaveRun(r storage.Run) (string, error)
}

// Options configures a game model.
type Options struct {
	Store   RunSaver           // nil disables run history
	Metrics *metrics.Collector // nil disables metrics
	Player  string             // name recorded with runs

	// ScreenshotDir is where ctrl+s writes frames.
	// Empty means ~/.maze/screenshots.
	ScreenshotDir string

	// Embedded models report quitting through Done instead of ending the
	// Bubble Tea program, so a parent model can take over.
	Embedded bool
}

// Model is the Bubble Tea model for playing one session.
type Model struct {
	session *game.Session
	opts    Options
	keys    KeyMap
	help    help.Model
	flash   flash
	width   int
	height  int

	life     *lifecycle
	quitting bool
}

// lifecycle is shared by every copy of a Model. It records each attempt and
// releases the session gauge once, whether the player quits or the
// connection drops.
type lifecycle struct {
	mu         sync.Mutex
	endSession func()
	closed     bool
	runSaved   bool // Whether the current attempt has been recorded
}

// NewModel creates a game model around s.
func NewModel(s *game.Session, opts Options) Model {
	w, h := s.Size()
	m := Model{
		session: s,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		width:   w,
		height:  h,
		life:    &lifecycle{endSession: opts.Metrics.SessionStarted()},
	}
	m.help.Width = w
	return m
}

// Init implements tea.Model. The maze is turn-based, so nothing ticks.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.fitSession()
		return m, nil

	case flashExpiredMsg:
		m.flash.expire(msg)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fitSession()
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		path, err := m.saveScreenshot()
		if err != nil {
			return m, m.flash.show("screenshot failed: " + err.Error())
		}
		return m, m.flash.show("saved " + path)
	}

	action := m.keys.Action(msg)
	if action == core.ActionNone {
		return m, nil
	}
	if action == core.ActionRestart && !m.session.Won() {
		m.saveRun()
	}

	outcome := m.session.Apply(action)
	m.opts.Metrics.Command(outcome.String())

	switch outcome {
	case game.OutcomeQuit:
		m.quitting = true
		m.Close()
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit

	case game.OutcomeExited:
		m.opts.Metrics.ExitReached(m.session.Map().ID)
		m.saveRun()

	case game.OutcomeRestarted:
		m.life.mu.Lock()
		m.life.runSaved = false
		m.life.mu.Unlock()
	}

	return m, nil
}

// chromeRows is the number of rows used by the HUD and the help footer.
func (m Model) chromeRows() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

// fitSession sizes the 3D view to the space left by the chrome.
func (m Model) fitSession() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.session.Resize(m.width, max(m.height-m.chromeRows(), 1))
}

// Close records the unfinished attempt and ends the session in metrics.
// It is safe to call more than once and from any copy of the model.
func (m Model) Close() {
	m.life.mu.Lock()
	defer m.life.mu.Unlock()
	if m.life.closed {
		return
	}
	m.saveRunLocked()
	m.life.closed = true
	m.life.endSession()
}

// saveRun records the current attempt once.
func (m Model) saveRun() {
	m.life.mu.Lock()
	defer m.life.mu.Unlock()
	m.saveRunLocked()
}

// saveRunLocked is saveRun with life.mu held. Attempts without a single
// step are not worth a row.
func (m Model) saveRunLocked() {
	if m.life.runSaved || m.life.closed || m.opts.Store == nil {
		return
	}
	st := m.session.Stats()
	if !st.Won && st.Moves == 0 {
		return
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	m.opts.Store.SaveRun(storage.Run{
		MapID:     m.session.Map().ID,
		Player:    m.opts.Player,
		Moves:     st.Moves,
		Bumps:     st.Bumps,
		Completed: st.Won,
		Duration:  st.Elapsed,
	})
	m.life.runSaved = true
}

// saveScreenshot writes the current frame and HUD line to a text file.
func (m Model) saveScreenshot() (string, error) {
	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".maze", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	screen := m.session.Render()
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.session.Map().ID, timestamp))

	content := m.session.Status() + "\n" + screen.String() + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	screen := m.session.Render()
	m.opts.Metrics.FrameRendered()

	if m.session.Won() {
		st := m.session.Stats()
		drawOverlay(screen,
			"You found the exit!",
			fmt.Sprintf("%d moves  %d bumps  %s", st.Moves, st.Bumps, st.Elapsed.Round(time.Second)),
			"r: play again   q: leave",
		)
	}

	var b strings.Builder
	b.WriteString(m.hud())
	b.WriteString("\n")
	b.WriteString(RenderScreen(screen))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// hud renders the status line with the wall notice and flash highlighted.
func (m Model) hud() string {
	status := m.session.Status()
	notice := m.session.Notice()

	var line string
	if notice != "" {
		line = hudStyle.Render(strings.TrimSuffix(status, "  "+notice)) + "  " + noticeStyle.Render(notice)
	} else {
		line = hudStyle.Render(status)
	}
	if m.flash.text != "" {
		line += "  " + helpStyle.Render(m.flash.text)
	}
	return line
}

// Done reports whether the player left the game.
func (m Model) Done() bool {
	return m.quitting
}

// Session returns the session being played.
func (m Model) Session() *game.Session {
	return m.session
}

// Result is how a game ended.
type Result struct {
	Won   bool
	Stats game.Stats
}

// Run plays s full-screen until the player quits.
func Run(s *game.Session, opts Options) (Result, error) {
	opts.Embedded = false
	m := NewModel(s, opts)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		return Result{}, err
	}
	return Result{Won: s.Won(), Stats: s.Stats()}, nil
}
