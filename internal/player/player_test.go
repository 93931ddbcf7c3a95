package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// corridor builds a 7x3 grid: a wall ring around a 5-cell corridor.
func corridor() *world.Grid {
	W, F := world.Wall, world.Floor
	return world.NewGrid([][]world.Cell{
		{W, W, W, W, W, W, W},
		{W, F, F, F, F, F, W},
		{W, W, W, W, W, W, W},
	})
}

var defaultMover = Mover{Speed: 0.1, RotSpeed: 0.1}

func TestForwardMovesAlongHeading(t *testing.T) {
	g := corridor()
	p := New(2, 1, 0)

	result := defaultMover.Apply(p, core.ActionForward, g)

	if result != Moved {
		t.Fatalf("Apply(Forward) = %v, expected moved", result)
	}
	assert.InDelta(t, 2.1, p.Pos.X, 1e-9)
	assert.InDelta(t, 1.0, p.Pos.Y, 1e-9)
}

func TestBackwardNegatesStep(t *testing.T) {
	g := corridor()
	p := New(3, 1, math.Pi/4)

	defaultMover.Apply(p, core.ActionBackward, g)

	assert.InDelta(t, 3-0.1*math.Cos(math.Pi/4), p.Pos.X, 1e-9)
	assert.InDelta(t, 1-0.1*math.Sin(math.Pi/4), p.Pos.Y, 1e-9)
}

func TestBlockedMoveLeavesPoseUnchanged(t *testing.T) {
	g := corridor()

	tests := []struct {
		name   string
		start  Player
		action core.Action
	}{
		{"forward into east wall", Player{Pos: core.V(5.45, 1), Angle: 0}, core.ActionForward},
		{"backward into west wall", Player{Pos: core.V(1.05, 1), Angle: 0}, core.ActionBackward},
		{"forward into north wall", Player{Pos: core.V(3, 1), Angle: -math.Pi / 2}, core.ActionForward},
		{"unnormalized heading", Player{Pos: core.V(5.45, 1), Angle: 4 * math.Pi}, core.ActionForward},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.start
			mover := Mover{Speed: 0.6, RotSpeed: 0.1}

			result := mover.Apply(&p, tc.action, g)

			if result != Blocked {
				t.Errorf("Apply() = %v, expected blocked", result)
			}
			if p != tc.start {
				t.Errorf("pose changed on rejection: %+v -> %+v", tc.start, p)
			}
		})
	}
}

func TestMoveOutsideGridIsBlocked(t *testing.T) {
	// A single open cell with no surrounding walls: every step leaves the grid.
	g := world.NewGrid([][]world.Cell{{world.Floor}})
	p := New(0, 0, math.Pi)
	start := *p

	result := Mover{Speed: 1, RotSpeed: 0.1}.Apply(p, core.ActionForward, g)

	if result != Blocked {
		t.Errorf("Apply() = %v, expected blocked", result)
	}
	if *p != start {
		t.Errorf("pose changed: %+v", *p)
	}
}

func TestRotationIsExactAndNeverMoves(t *testing.T) {
	g := corridor()
	p := New(2.3, 1.2, 1.0)
	pos := p.Pos

	before := p.Angle
	if r := defaultMover.Apply(p, core.ActionRotateRight, g); r != Rotated {
		t.Fatalf("Apply(RotateRight) = %v, expected rotated", r)
	}
	if want := before + defaultMover.RotSpeed; p.Angle != want {
		t.Errorf("Angle = %v, expected %v", p.Angle, want)
	}

	before = p.Angle
	defaultMover.Apply(p, core.ActionRotateLeft, g)
	if want := before - defaultMover.RotSpeed; p.Angle != want {
		t.Errorf("Angle = %v, expected %v", p.Angle, want)
	}

	if p.Pos != pos {
		t.Errorf("rotation moved the player: %v -> %v", pos, p.Pos)
	}
}

func TestRotationIsNeverNormalized(t *testing.T) {
	g := corridor()
	p := New(2, 1, 0)
	mover := Mover{Speed: 0.1, RotSpeed: math.Pi}

	for range 5 {
		mover.Apply(p, core.ActionRotateRight, g)
	}

	assert.InDelta(t, 5*math.Pi, p.Angle, 1e-9)
}

func TestNonMovementActionsAreIgnored(t *testing.T) {
	g := corridor()
	p := New(2, 1, 0)
	start := *p

	for _, a := range []core.Action{core.ActionNone, core.ActionQuit, core.ActionRestart} {
		if r := defaultMover.Apply(p, a, g); r != Ignored {
			t.Errorf("Apply(%v) = %v, expected ignored", a, r)
		}
	}
	if *p != start {
		t.Errorf("pose changed: %+v", *p)
	}
}

func TestWalkCorridorUntilWall(t *testing.T) {
	g := corridor()
	p := New(1, 1, 0)

	steps := 0
	for defaultMover.Apply(p, core.ActionForward, g) == Moved {
		steps++
		if steps > 1000 {
			t.Fatal("walked through the wall")
		}
	}

	// The east wall occupies x in [5.5, 6.5); the last legal position is below 5.5.
	x, _ := p.Cell()
	if x != 5 {
		t.Errorf("stopped in column %d, expected 5", x)
	}
	if p.Pos.X >= 5.5 {
		t.Errorf("Pos.X = %v, expected < 5.5", p.Pos.X)
	}
}
