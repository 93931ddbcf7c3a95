package render

import "github.com/vovakirdan/tui-maze/internal/core"

// Frame is a fixed-size glyph buffer in column-major order:
// index = x*height + y.
type Frame struct {
	width  int
	height int
	runes  []rune
}

// NewFrame allocates a frame of the given size filled with spaces.
func NewFrame(width, height int) *Frame {
	f := &Frame{width: max(width, 0), height: max(height, 0)}
	f.runes = make([]rune, f.width*f.height)
	f.Fill(' ')
	return f
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.height
}

// Resize reallocates the frame when the size changes. Content is dropped.
func (f *Frame) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	if cap(f.runes) >= width*height {
		f.runes = f.runes[:width*height]
	} else {
		f.runes = make([]rune, width*height)
	}
	f.Fill(' ')
}

// Fill sets every cell to r.
func (f *Frame) Fill(r rune) {
	for i := range f.runes {
		f.runes[i] = r
	}
}

// Column returns column x as a slice into the frame. Writes through the
// slice modify the frame. Out-of-range columns return nil.
func (f *Frame) Column(x int) []rune {
	if x < 0 || x >= f.width {
		return nil
	}
	return f.runes[x*f.height : (x+1)*f.height]
}

// Transpose copies the frame into dst row by row, resizing dst to match.
// Colours come from pal; glyphs missing from pal keep the default colour.
func (f *Frame) Transpose(dst *core.Screen, pal Palette) {
	dst.Resize(f.width, f.height)
	for x := range f.width {
		col := f.Column(x)
		for y, r := range col {
			dst.SetCell(x, y, core.Cell{Rune: r, Color: pal[r]})
		}
	}
}
