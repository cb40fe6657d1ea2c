// Package core provides fundamental types and utilities shared by the game
// and the platform layer. It contains no external dependencies (especially no
// Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is a hit-box described by four margins measured from an entity's
// logical centre. Margins are never negative.
type Box struct {
	Up    int `yaml:"up"`
	Left  int `yaml:"left"`
	Down  int `yaml:"down"`
	Right int `yaml:"right"`
}

// UniformBox returns a square box with the same margin on every side.
func UniformBox(m int) Box {
	return Box{Up: m, Left: m, Down: m, Right: m}
}

// North returns the top edge for a centre at y.
func (b Box) North(y float64) int { return int(y - float64(b.Up)) }

// West returns the left edge for a centre at x.
func (b Box) West(x float64) int { return int(x - float64(b.Left)) }

// South returns the bottom edge for a centre at y.
func (b Box) South(y float64) int { return int(y + float64(b.Down)) }

// East returns the right edge for a centre at x.
func (b Box) East(x float64) int { return int(x + float64(b.Right)) }

// YFromNorth is the inverse of North.
func (b Box) YFromNorth(edge int) float64 { return float64(edge + b.Up) }

// XFromWest is the inverse of West.
func (b Box) XFromWest(edge int) float64 { return float64(edge + b.Left) }

// YFromSouth is the inverse of South.
func (b Box) YFromSouth(edge int) float64 { return float64(edge - b.Down) }

// XFromEast is the inverse of East.
func (b Box) XFromEast(edge int) float64 { return float64(edge - b.Right) }

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.Left + b.Right }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Up + b.Down }

// Body is the position, velocity and hit-box of a simulated entity.
// Velocity is in pixels per simulated second.
type Body struct {
	X, Y       float64
	VelX, VelY float64
	Box        Box
}

// Edges returns the north, west, south and east edges at the current position.
func (b *Body) Edges() (n, w, s, e int) {
	return b.Box.North(b.Y), b.Box.West(b.X), b.Box.South(b.Y), b.Box.East(b.X)
}

// Width returns the width of the body's hit-box.
func (b *Body) Width() int { return b.Box.Width() }

// Height returns the height of the body's hit-box.
func (b *Body) Height() int { return b.Box.Height() }

// Overlaps reports whether two bodies collide. Touching edges count as a
// collision; the test fails only when one box strictly clears the other.
func (b *Body) Overlaps(other *Body) bool {
	n1, w1, s1, e1 := b.Edges()
	n2, w2, s2, e2 := other.Edges()

	if w1 > e2 || n1 > s2 || w2 > e1 || n2 > s1 {
		return false
	}
	return true
}

// Contains reports whether the point lies strictly inside the body's box.
func (b *Body) Contains(x, y int) bool {
	n, w, s, e := b.Edges()
	return x > w && x < e && y > n && y < s
}

// Distance returns the integer distance between the centres of two bodies.
func Distance(a, b *Body) int {
	dx := Abs(int(b.X) - int(a.X))
	dy := Abs(int(b.Y) - int(a.Y))
	return int(math.Sqrt(float64(dx*dx + dy*dy)))
}

// Direction is one of the four cardinal unit steps.
type Direction int

const (
	North Direction = iota
	West
	South
	East
)

var (
	directionDX = [4]int{0, -1, 0, 1}
	directionDY = [4]int{-1, 0, 1, 0}

	// Velocity multipliers applied when a move in the direction is blocked.
	reverseVelX = [4]float64{1, -1, 1, -1}
	reverseVelY = [4]float64{-1, 1, -1, 1}
)

// DX returns the x delta of a unit step.
func (d Direction) DX() int { return directionDX[d] }

// DY returns the y delta of a unit step.
func (d Direction) DY() int { return directionDY[d] }

// String returns the compass name of the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	case East:
		return "east"
	default:
		return "unknown"
	}
}

// Reverse flips the velocity component along the direction's axis.
func (b *Body) Reverse(d Direction) {
	b.VelX *= reverseVelX[d]
	b.VelY *= reverseVelY[d]
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
