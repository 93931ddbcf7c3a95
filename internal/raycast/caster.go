// Package raycast marches one ray per screen column through the occupancy
// grid and reports how far each ray travelled before it was stopped.
package raycast

import (
	"iter"
	"math"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// Caster holds the camera constants shared by every ray of a frame.
type Caster struct {
	FOV      float64 // horizontal field of view in radians
	MaxDepth float64 // distance reported when nothing is hit
	Step     float64 // march increment in cells, 0 < Step <= 1
}

// Sample is one point visited by a ray march.
type Sample struct {
	Dist  float64
	Point core.Vec2
}

// Hit is the result of marching a single ray.
type Hit struct {
	Distance float64
	X, Y     int        // last sampled cell
	Cell     world.Cell // cell that stopped the ray (Floor when nothing did)
	Blocked  bool       // stopped by a blocking cell
	Outside  bool       // left the grid before hitting anything
}

// RayAngle returns the angle of the ray for column col of a screen width
// columns wide. Column 0 is the left edge of the field of view.
func (c Caster) RayAngle(heading float64, col, width int) float64 {
	if width <= 0 {
		return heading
	}
	return heading - c.FOV/2 + float64(col)/float64(width)*c.FOV
}

// steps is the number of samples a ray takes before reaching MaxDepth.
func (c Caster) steps() int {
	if c.Step <= 0 || c.MaxDepth <= 0 {
		return 0
	}
	// The epsilon keeps 16/0.1 from flooring to 159.
	return int(math.Floor(c.MaxDepth/c.Step + 1e-9))
}

// Samples returns the points a ray from origin along angle visits, nearest
// first. Distances are whole multiples of Step starting at one Step; the
// sequence is finite and never goes past MaxDepth.
func (c Caster) Samples(origin core.Vec2, angle float64) iter.Seq[Sample] {
	dir := core.FromAngle(angle)
	n := c.steps()

	return func(yield func(Sample) bool) {
		for i := 1; i <= n; i++ {
			d := min(float64(i)*c.Step, c.MaxDepth)
			if !yield(Sample{Dist: d, Point: origin.Add(dir.Scale(d))}) {
				return
			}
		}
	}
}

// March walks a ray until it leaves the grid, enters a blocking cell or runs
// out of depth. Sampled points are rounded to the nearest cell.
func (c Caster) March(g *world.Grid, origin core.Vec2, angle float64) Hit {
	hit := Hit{Distance: c.MaxDepth}

	for s := range c.Samples(origin, angle) {
		x, y := s.Point.Cell()
		hit.X, hit.Y = x, y

		if !g.InBounds(x, y) {
			hit.Outside = true
			hit.Cell = world.Wall
			return hit
		}
		if cell := g.At(x, y); cell.Blocking() {
			hit.Distance = s.Dist
			hit.Cell = cell
			hit.Blocked = true
			return hit
		}
	}
	return hit
}

// Distance is March reduced to the travelled distance.
func (c Caster) Distance(g *world.Grid, origin core.Vec2, angle float64) float64 {
	return c.March(g, origin, angle).Distance
}

// Cast fills dst with one distance per screen column and returns it.
// dst is grown when it has fewer than width elements.
func (c Caster) Cast(dst []float64, g *world.Grid, origin core.Vec2, heading float64, width int) []float64 {
	if cap(dst) < width {
		dst = make([]float64, width)
	}
	dst = dst[:width]

	for col := range width {
		dst[col] = c.Distance(g, origin, c.RayAngle(heading, col, width))
	}
	return dst
}
