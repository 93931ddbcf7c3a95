// Package game ties the engine pieces into a playable session: one map,
// one player, and the caster and projector that draw what the player sees.
//
// A Session is not safe for concurrent use. Each frontend connection owns
// its own session; the map grid is shared read-only.
package game

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/player"
	"github.com/vovakirdan/tui-maze/internal/raycast"
	"github.com/vovakirdan/tui-maze/internal/render"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// WallNotice is shown after a move bumps into a wall.
const WallNotice = "Wall!"

// Outcome is what a single command did to the session.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeMoved
	OutcomeBlocked
	OutcomeRotated
	OutcomeExited // the move reached an exit cell
	OutcomeRestarted
	OutcomeQuit
)

// String returns a lower-case name, used as a metrics label.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMoved:
		return "moved"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeRotated:
		return "rotated"
	case OutcomeExited:
		return "exited"
	case OutcomeRestarted:
		return "restarted"
	case OutcomeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Stats are the counters of one attempt at a map.
type Stats struct {
	Moves     int
	Bumps     int
	Rotations int
	Frames    int
	Elapsed   time.Duration
	Won       bool
}

// Session is one player walking one map.
type Session struct {
	m      *maps.Map
	grid   *world.Grid
	player *player.Player
	mover  player.Mover

	caster  raycast.Caster
	proj    *render.Projector
	palette render.Palette
	frame   *render.Frame
	screen  *core.Screen
	dists   []float64

	stats    Stats
	notice   string
	started  time.Time
	finished time.Time
	now      func() time.Time
}

// New creates a session on m using the engine settings in cfg.
// cfg is expected to be valid; see config.Engine.Validate.
func New(m *maps.Map, cfg config.Engine) *Session {
	sky, wall, floor := cfg.Glyphs.Runes()
	glyphs := render.Glyphs{Sky: sky, Wall: wall, Floor: floor}

	s := &Session{
		m:    m,
		grid: m.Grid,
		mover: player.Mover{
			Speed:    cfg.Movement.Speed,
			RotSpeed: cfg.Movement.RotSpeed,
		},
		caster: raycast.Caster{
			FOV:      cfg.Camera.FOV,
			MaxDepth: cfg.Camera.MaxDepth,
			Step:     cfg.Camera.Step,
		},
		proj:    render.NewProjector(glyphs),
		palette: render.PaletteFor(glyphs),
		frame:   render.NewFrame(cfg.Screen.Width, cfg.Screen.Height),
		screen:  core.NewScreen(cfg.Screen.Width, cfg.Screen.Height),
		now:     time.Now,
	}
	s.Restart()
	return s
}

// Restart puts the player back on the start cell and zeroes the counters.
// The screen size is kept.
func (s *Session) Restart() {
	s.player = s.m.Spawn()
	s.stats = Stats{}
	s.notice = ""
	s.started = s.now()
	s.finished = time.Time{}
}

// Apply executes one command.
func (s *Session) Apply(a core.Action) Outcome {
	switch a {
	case core.ActionQuit:
		return OutcomeQuit
	case core.ActionRestart:
		s.Restart()
		return OutcomeRestarted
	}

	if s.stats.Won {
		return OutcomeIgnored
	}

	s.notice = ""
	switch s.mover.Apply(s.player, a, s.grid) {
	case player.Moved:
		s.stats.Moves++
		if s.grid.At(s.player.Cell()) == world.Exit {
			s.stats.Won = true
			s.finished = s.now()
			return OutcomeExited
		}
		return OutcomeMoved
	case player.Blocked:
		s.stats.Bumps++
		s.notice = WallNotice
		return OutcomeBlocked
	case player.Rotated:
		s.stats.Rotations++
		return OutcomeRotated
	}
	return OutcomeIgnored
}

// Render draws the player's view and returns the session screen.
// The screen is reused by the next call.
func (s *Session) Render() *core.Screen {
	w := s.frame.Width()
	s.dists = s.caster.Cast(s.dists, s.grid, s.player.Pos, s.player.Angle, w)
	s.proj.Compose(s.frame, s.dists)
	s.frame.Transpose(s.screen, s.palette)
	s.stats.Frames++
	return s.screen
}

// Resize changes the view size. The pose and counters are kept.
func (s *Session) Resize(width, height int) {
	s.frame.Resize(width, height)
	s.screen.Resize(width, height)
}

// Size returns the view size.
func (s *Session) Size() (int, int) {
	return s.frame.Width(), s.frame.Height()
}

// Map returns the map being played.
func (s *Session) Map() *maps.Map {
	return s.m
}

// Player returns a copy of the current pose.
func (s *Session) Player() player.Player {
	return *s.player
}

// Won reports whether the player has reached an exit.
func (s *Session) Won() bool {
	return s.stats.Won
}

// Notice returns the message left by the last command, if any.
func (s *Session) Notice() string {
	return s.notice
}

// Stats returns the counters. Elapsed stops when the exit is reached.
func (s *Session) Stats() Stats {
	st := s.stats
	end := s.finished
	if end.IsZero() {
		end = s.now()
	}
	st.Elapsed = end.Sub(s.started)
	return st
}

// Status returns a one-line summary for the HUD.
func (s *Session) Status() string {
	x, y := s.player.Cell()
	line := fmt.Sprintf("%s  cell %d,%d  facing %s  moves %d",
		s.m.Title(), x, y, Compass(s.player.Angle), s.stats.Moves)
	if s.notice != "" {
		line += "  " + s.notice
	}
	return line
}

// Compass names the closest of eight directions for angle.
// Angle 0 is east and angles grow clockwise on screen.
func Compass(angle float64) string {
	names := [...]string{"E", "SE", "S", "SW", "W", "NW", "N", "NE"}
	turn := math.Mod(angle, 2*math.Pi)
	if turn < 0 {
		turn += 2 * math.Pi
	}
	i := int(math.Round(turn/(math.Pi/4))) % len(names)
	return names[i]
}
