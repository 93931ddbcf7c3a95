package core

// Color represents a foreground color for a screen cell.
// The platform layer decides how each colour is drawn.
type Color uint8

// Colours of the three view bands.
const (
	ColorDefault Color = iota
	ColorBlue
	ColorWhite
	ColorGray
)
