// Package maps loads maze layouts from text grids and YAML map files.
//
// A layout is a list of equally wide rows using the glyphs
//
//	#  wall
//	.  floor (a space is floor too)
//	E  exit
//	S  start, a floor cell holding the player
//
// Exactly one start marker and at least one exit are required.
package maps

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-maze/internal/player"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// Layout glyphs.
const (
	GlyphWall  = '#'
	GlyphFloor = '.'
	GlyphSpace = ' '
	GlyphExit  = 'E'
	GlyphStart = 'S'
)

var (
	ErrEmpty          = errors.New("maps: empty layout")
	ErrRagged         = errors.New("maps: rows differ in width")
	ErrUnknownGlyph   = errors.New("maps: unknown glyph")
	ErrNoStart        = errors.New("maps: no start marker")
	ErrMultipleStarts = errors.New("maps: more than one start marker")
	ErrNoExit         = errors.New("maps: no exit cell")
	ErrNotFound       = errors.New("maps: map not found")
)

// Map is a parsed maze ready to play.
type Map struct {
	ID      string
	Name    string
	Grid    *world.Grid
	StartX  int
	StartY  int
	Heading float64 // radians
	Source  string  // file the map was read from, empty for generated maps
}

// Parse builds a map from layout rows. ID, Name and Heading are left zero.
func Parse(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, ErrEmpty
	}

	m := &Map{StartX: -1, StartY: -1}
	cells := make([][]world.Cell, len(rows))

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRagged, y, len(runes), width)
		}

		cells[y] = make([]world.Cell, width)
		for x, r := range runes {
			switch r {
			case GlyphWall:
				cells[y][x] = world.Wall
			case GlyphFloor, GlyphSpace:
				cells[y][x] = world.Floor
			case GlyphExit:
				cells[y][x] = world.Exit
			case GlyphStart:
				if m.StartX >= 0 {
					return nil, fmt.Errorf("%w: (%d,%d) and (%d,%d)", ErrMultipleStarts, m.StartX, m.StartY, x, y)
				}
				m.StartX, m.StartY = x, y
				cells[y][x] = world.Floor
			default:
				return nil, fmt.Errorf("%w %q at (%d,%d)", ErrUnknownGlyph, r, x, y)
			}
		}
	}

	if m.StartX < 0 {
		return nil, ErrNoStart
	}

	m.Grid = world.NewGrid(cells)
	if m.Grid.Count(world.Exit) == 0 {
		return nil, ErrNoExit
	}
	return m, nil
}

// Spawn returns a player standing on the centre of the start cell,
// facing the map heading.
func (m *Map) Spawn() *player.Player {
	return player.New(float64(m.StartX), float64(m.StartY), m.Heading)
}

// Rows renders the map back to layout rows.
func (m *Map) Rows() []string {
	rows := make([]string, m.Grid.Height())
	line := make([]rune, m.Grid.Width())
	for y := range rows {
		for x := range line {
			switch {
			case x == m.StartX && y == m.StartY:
				line[x] = GlyphStart
			case m.Grid.At(x, y) == world.Wall:
				line[x] = GlyphWall
			case m.Grid.At(x, y) == world.Exit:
				line[x] = GlyphExit
			default:
				line[x] = GlyphFloor
			}
		}
		rows[y] = string(line)
	}
	return rows
}

// HeadingDegrees returns the heading in degrees, rounded to 1e-6.
func (m *Map) HeadingDegrees() float64 {
	return math.Round(m.Heading*180/math.Pi*1e6) / 1e6
}

// Title returns the name, or the ID when the map has no name.
func (m *Map) Title() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}
