package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/game"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/metrics"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

// RunStore is the run history used by a full session.
// *storage.Store implements it.
type RunStore interface {
	RunSaver
	RunLister
	AllMapStats() (map[string]*storage.MapStats, error)
}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.maze/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	Engine  config.Engine
	Maps    []*maps.Map
	Store   RunStore           // nil disables run history
	Metrics *metrics.Collector // nil disables metrics
	Logger  *log.Logger        // nil means a stderr logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Engine:      config.Default(),
	}
}

// SSHServer wraps a Wish SSH server for the maze.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if len(cfg.Maps) == 0 {
		return nil, errors.New("no maps to serve")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "maze-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".maze", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(), // Bubble Tea apps need a PTY
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	id := uuid.NewString()
	model := NewSessionModel(SessionDeps{
		Engine:  s.config.Engine,
		Maps:    s.config.Maps,
		Store:   s.config.Store,
		Metrics: s.config.Metrics,
		Logger:  s.logger.With("session", id[:8], "user", sess.User()),
	}, sess.User(), pty.Window.Width, pty.Window.Height)

	// Dropped connections and idle timeouts never deliver a quit key
	go func() {
		<-sess.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled
// or the process receives SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "maps", len(s.config.Maps))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps is what a full session needs besides the player.
type SessionDeps struct {
	Engine  config.Engine
	Maps    []*maps.Map
	Store   RunStore
	Metrics *metrics.Collector
	Logger  *log.Logger
}

// sessionMode is the screen a SessionModel shows.
type sessionMode int

const (
	modeMenu sessionMode = iota
	modeGame
	modeScores
)

// SessionModel manages the full maze session flow:
// menu -> game -> menu, with the scoreboard reachable from the menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	deps     SessionDeps
	username string
	width    int
	height   int
	mode     sessionMode
	menu     MenuModel
	game     Model
	scores   ScoreboardModel
	quitting bool
	active   *activeGame
}

// activeGame holds the closer of the game in progress. It is shared by
// every copy of a SessionModel.
type activeGame struct {
	mu    sync.Mutex
	close func()
}

func (a *activeGame) set(fn func()) {
	a.mu.Lock()
	a.close = fn
	a.mu.Unlock()
}

func (a *activeGame) closeNow() {
	a.mu.Lock()
	fn := a.close
	a.close = nil
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, username string, width, height int) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.New(os.Stderr)
	}
	m := SessionModel{
		deps:     deps,
		username: username,
		width:    width,
		height:   height,
		active:   &activeGame{},
	}
	m.menu = m.newMenu()
	return m
}

// Close ends the game in progress, if any, recording the attempt.
// It is safe to call from another goroutine and more than once.
func (m SessionModel) Close() {
	m.active.closeNow()
}

// newMenu builds the map picker with fresh best-run figures.
func (m SessionModel) newMenu() MenuModel {
	var stats map[string]*storage.MapStats
	if m.deps.Store != nil {
		var err error
		if stats, err = m.deps.Store.AllMapStats(); err != nil {
			m.deps.Logger.Warn("could not load map stats", "error", err)
		}
	}
	return NewMenuModel(m.deps.Maps, stats, m.width, m.height)
}

// startGame creates an embedded game on the selected map.
func (m SessionModel) startGame(item MenuItem, pace config.PacePreset) (SessionModel, tea.Cmd) {
	var selected *maps.Map
	for _, mp := range m.deps.Maps {
		if mp.ID == item.MapID {
			selected = mp
		}
	}
	if selected == nil {
		// Shouldn't happen since menu only shows served maps
		m.menu = m.newMenu()
		return m, nil
	}

	cfg := m.deps.Engine
	config.ApplyPace(&cfg, pace)

	opts := Options{
		Metrics:  m.deps.Metrics,
		Player:   m.username,
		Embedded: true,
	}
	if m.deps.Store != nil {
		opts.Store = m.deps.Store
	}

	m.deps.Logger.Info("game started", "map", selected.ID, "pace", pace)
	m.game = NewModel(game.New(selected, cfg), opts)
	m.active.set(m.game.Close)
	m.mode = modeGame

	// Fit the view to the terminal right away
	gm, cmd := m.game.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.game = gm.(Model)
	return m, cmd
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		ids := make([]string, len(m.deps.Maps))
		for i, mp := range m.deps.Maps {
			ids[i] = mp.ID
		}
		var lister RunLister
		if m.deps.Store != nil {
			lister = m.deps.Store
		}
		m.scores = NewScoreboardModel(lister, ids, m.width, m.height)
		m.mode = modeScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		return m.startGame(*m.menu.Selected(), m.menu.Pace())
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.Done() {
		m.active.set(nil)
		st := m.game.Session().Stats()
		m.deps.Logger.Info("game ended",
			"map", m.game.Session().Map().ID,
			"won", st.Won,
			"moves", st.Moves,
			"bumps", st.Bumps,
		)
		m.mode = modeMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.scores.IsGoingBack():
		m.mode = modeMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeScores:
		return m.scores.View()
	}
	return m.menu.View()
}
