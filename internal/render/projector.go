// Package render turns per-column ray distances into a text frame.
//
// Every column is split into three bands: sky above the ceiling line, wall
// between ceiling and floor, and floor below. Closer walls produce taller
// slabs. The frame is stored column-major because it is filled one ray at
// a time, and transposed to a row-major core.Screen for display.
package render

import "github.com/vovakirdan/tui-maze/internal/core"

// MinDistance is the smallest distance the projector divides by.
const MinDistance = 1e-3

// Band identifies which part of a column a row belongs to.
type Band uint8

const (
	BandSky Band = iota
	BandWall
	BandFloor
)

// Glyphs are the runes drawn for each band.
type Glyphs struct {
	Sky   rune
	Wall  rune
	Floor rune
}

// DefaultGlyphs returns the stock glyph set.
func DefaultGlyphs() Glyphs {
	return Glyphs{Sky: ' ', Wall: '#', Floor: '.'}
}

// For returns the glyph drawn for band b.
func (g Glyphs) For(b Band) rune {
	switch b {
	case BandWall:
		return g.Wall
	case BandFloor:
		return g.Floor
	default:
		return g.Sky
	}
}

// Slab is the vertical extent of a wall on one column.
// Rows y <= Ceiling are sky, rows y > Floor are floor.
type Slab struct {
	Ceiling float64
	Floor   float64
}

// SlabFor projects a wall at distance d onto a screen height rows tall.
// Ceiling + Floor always equals height.
func SlabFor(d float64, height int) Slab {
	h := float64(height)
	ceiling := h/2 - h/max(d, MinDistance)
	return Slab{Ceiling: ceiling, Floor: h - ceiling}
}

// Height returns the number of rows covered by the wall band.
func (s Slab) Height() float64 {
	return s.Floor - s.Ceiling
}

// BandAt classifies row y.
func (s Slab) BandAt(y int) Band {
	fy := float64(y)
	switch {
	case fy <= s.Ceiling:
		return BandSky
	case fy <= s.Floor:
		return BandWall
	default:
		return BandFloor
	}
}

// Projector writes slabs into a frame.
type Projector struct {
	Glyphs Glyphs
}

// NewProjector creates a projector drawing with glyphs.
func NewProjector(glyphs Glyphs) *Projector {
	return &Projector{Glyphs: glyphs}
}

// Compose clears f and draws one column per distance. Distances beyond the
// frame width are ignored; columns without a distance stay cleared.
func (p *Projector) Compose(f *Frame, dists []float64) {
	f.Fill(p.Glyphs.Sky)

	n := min(len(dists), f.Width())
	for x := range n {
		slab := SlabFor(dists[x], f.Height())
		col := f.Column(x)
		for y := range col {
			col[y] = p.Glyphs.For(slab.BandAt(y))
		}
	}
}

// Palette maps glyphs to screen colours when transposing a frame.
type Palette map[rune]core.Color

// PaletteFor colours the bands of g: blue sky, white walls, gray floor.
// When two bands share a glyph the earlier band's colour wins.
func PaletteFor(g Glyphs) Palette {
	p := Palette{}
	for _, e := range []struct {
		r rune
		c core.Color
	}{
		{g.Sky, core.ColorBlue},
		{g.Wall, core.ColorWhite},
		{g.Floor, core.ColorGray},
	} {
		if _, ok := p[e.r]; !ok {
			p[e.r] = e.c
		}
	}
	return p
}
