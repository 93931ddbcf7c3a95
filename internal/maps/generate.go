package maps

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-maze/internal/world"
)

// GenerateConfig controls random maze generation.
type GenerateConfig struct {
	// Width and Height are rounded down to odd numbers, minimum 5.
	Width, Height int

	// Braid is the chance (0..1) that a dead end gets opened into a loop.
	// 0 yields a perfect maze.
	Braid float64

	Seed int64 // 0 = random

	ID   string // default "generated"
	Name string
}

// point is an integer grid position.
type point struct{ x, y int }

var (
	steps2 = []point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	steps1 = []point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

// Generate carves a maze with a recursive backtracker, starting in the top
// left room. The exit goes in the room farthest from the start, and the
// player faces the first open corridor.
func Generate(cfg GenerateConfig) (*Map, error) {
	if cfg.Width < 5 || cfg.Height < 5 {
		return nil, fmt.Errorf("maps: maze must be at least 5x5, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Braid < 0 || cfg.Braid > 1 {
		return nil, errors.New("maps: braid must be within [0, 1]")
	}

	w, h := roundOdd(cfg.Width), roundOdd(cfg.Height)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	open := make([][]bool, h)
	for y := range open {
		open[y] = make([]bool, w)
	}

	start := point{1, 1}
	carve(open, start, rng)
	if cfg.Braid > 0 {
		braid(open, cfg.Braid, rng)
	}

	exit, _ := farthest(open, start)

	cells := make([][]world.Cell, h)
	for y := range cells {
		cells[y] = make([]world.Cell, w)
		for x := range cells[y] {
			if !open[y][x] {
				cells[y][x] = world.Wall
			}
		}
	}
	cells[exit.y][exit.x] = world.Exit

	id := cfg.ID
	if id == "" {
		id = "generated"
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Maze %dx%d #%d", w, h, seed)
	}

	return &Map{
		ID:      id,
		Name:    name,
		Grid:    world.NewGrid(cells),
		StartX:  start.x,
		StartY:  start.y,
		Heading: openHeading(open, start),
	}, nil
}

func roundOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func inside(open [][]bool, p point) bool {
	return p.y > 0 && p.y < len(open)-1 && p.x > 0 && p.x < len(open[0])-1
}

// carve opens a spanning tree over the odd-coordinate rooms.
func carve(open [][]bool, start point, rng *rand.Rand) {
	stack := []point{start}
	open[start.y][start.x] = true

	for len(stack) > 0 {
		curr := stack[len(stack)-1]

		candidates := make([]point, 0, 4)
		for _, d := range steps2 {
			n := point{curr.x + d.x, curr.y + d.y}
			if inside(open, n) && !open[n.y][n.x] {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		open[curr.y+d.y/2][curr.x+d.x/2] = true
		next := point{curr.x + d.x, curr.y + d.y}
		open[next.y][next.x] = true
		stack = append(stack, next)
	}
}

// braid knocks through the wall behind some dead ends, adding loops.
func braid(open [][]bool, chance float64, rng *rand.Rand) {
	for y := 1; y < len(open)-1; y += 2 {
		for x := 1; x < len(open[0])-1; x += 2 {
			exits := 0
			for _, d := range steps1 {
				if open[y+d.y][x+d.x] {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= chance {
				continue
			}

			walls := make([]point, 0, 3)
			for _, d := range steps2 {
				n := point{x + d.x, y + d.y}
				wall := point{x + d.x/2, y + d.y/2}
				if inside(open, n) && !open[wall.y][wall.x] {
					walls = append(walls, wall)
				}
			}
			if len(walls) > 0 {
				c := walls[rng.Intn(len(walls))]
				open[c.y][c.x] = true
			}
		}
	}
}

// farthest returns the open cell with the longest shortest path from start
// and that distance. Ties go to the first cell found.
func farthest(open [][]bool, start point) (point, int) {
	dist := map[point]int{start: 0}
	queue := []point{start}
	best, bestDist := start, 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, d := range steps1 {
			n := point{curr.x + d.x, curr.y + d.y}
			if !inside(open, n) || !open[n.y][n.x] {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[curr] + 1
			if dist[n] > bestDist {
				best, bestDist = n, dist[n]
			}
			queue = append(queue, n)
		}
	}
	return best, bestDist
}

// openHeading faces the first open neighbour of p.
func openHeading(open [][]bool, p point) float64 {
	for _, d := range []point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}} {
		if open[p.y+d.y][p.x+d.x] {
			return math.Atan2(float64(d.y), float64(d.x))
		}
	}
	return 0
}
