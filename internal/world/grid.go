// Package world holds the occupancy grid the maze is built on.
package world

// Cell is the kind of a single grid square.
type Cell uint8

const (
	Floor Cell = iota
	Wall
	Exit
)

// String returns the cell name.
func (c Cell) String() string {
	switch c {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Blocking reports whether rays and moves stop at this cell.
func (c Cell) Blocking() bool {
	return c == Wall
}

// Grid is a fixed-size rectangular map.
// Cells are stored in row-major order: index = y*W + x.
// A Grid is never modified after construction.
type Grid struct {
	w, h  int
	cells []Cell
}

// NewGrid creates a grid from rows of cells. Rows shorter than the widest
// row are padded with walls.
func NewGrid(rows [][]Cell) *Grid {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}

	g := &Grid{
		w:     w,
		h:     len(rows),
		cells: make([]Cell, w*len(rows)),
	}
	for y, row := range rows {
		for x := range w {
			c := Wall
			if x < len(row) {
				c = row[x]
			}
			g.cells[y*w+x] = c
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// InBounds returns true if (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// At returns the cell at (x, y).
// Coordinates outside the grid read as Wall.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.w+x]
}

// Blocking reports whether (x, y) stops rays and moves.
// Coordinates outside the grid are blocking.
func (g *Grid) Blocking(x, y int) bool {
	return g.At(x, y).Blocking()
}

// Count returns how many cells of kind c the grid holds.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}
