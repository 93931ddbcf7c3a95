// Package player models the camera pose and the command-stepped movement
// that changes it.
package player

import (
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// Player is the camera pose: a continuous position and a heading in radians.
// The heading is never normalized; every consumer goes through sin/cos.
type Player struct {
	Pos   core.Vec2
	Angle float64
}

// New creates a player at (x, y) facing angle.
func New(x, y, angle float64) *Player {
	return &Player{Pos: core.V(x, y), Angle: angle}
}

// Cell returns the grid cell the player stands in.
func (p *Player) Cell() (int, int) {
	return p.Pos.Cell()
}

// Result describes what a command did to the pose.
type Result int

const (
	Ignored Result = iota // not a movement command
	Moved
	Blocked // candidate cell was blocking, pose unchanged
	Rotated
)

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case Rotated:
		return "rotated"
	default:
		return "unknown"
	}
}

// Mover applies discrete movement commands with fixed step sizes.
// Movement is command-stepped; there is no notion of elapsed time.
type Mover struct {
	Speed    float64 // distance per forward/backward command
	RotSpeed float64 // radians per rotate command
}

// Apply validates a command against the grid and commits it to p when allowed.
// Rotations always succeed. A step whose target cell is blocking, or lies
// outside the grid, leaves p untouched.
func (m Mover) Apply(p *Player, a core.Action, g *world.Grid) Result {
	switch a {
	case core.ActionRotateLeft:
		p.Angle -= m.RotSpeed
		return Rotated
	case core.ActionRotateRight:
		p.Angle += m.RotSpeed
		return Rotated
	case core.ActionForward:
		return m.step(p, core.FromAngle(p.Angle).Scale(m.Speed), g)
	case core.ActionBackward:
		return m.step(p, core.FromAngle(p.Angle).Scale(-m.Speed), g)
	}
	return Ignored
}

// step moves p by delta unless the destination cell blocks.
func (m Mover) step(p *Player, delta core.Vec2, g *world.Grid) Result {
	candidate := p.Pos.Add(delta)
	if g.Blocking(candidate.Cell()) {
		return Blocked
	}
	p.Pos = candidate
	return Moved
}
