// Package core provides fundamental types and utilities shared by the maze
// engine and its frontends. It has no external dependencies (especially no
// Bubble Tea) to keep the engine pure and testable.
package core

import "math"

// Vec2 is a point or direction in continuous map space.
// One unit equals one grid cell.
type Vec2 struct {
	X, Y float64
}

// V creates a vector from its components.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing along angle (radians).
// Angle 0 points along +X; positive angles turn towards +Y.
func FromAngle(angle float64) Vec2 {
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Cell maps a continuous position to the grid cell whose centre is nearest.
// Cell (i, j) covers [i-0.5, i+0.5) x [j-0.5, j+0.5).
func (v Vec2) Cell() (int, int) {
	return int(math.Round(v.X)), int(math.Round(v.Y))
}
