package beeball

import (
	"math"

	"github.com/vovakirdan/beeball/internal/core"
)

// stepFunc attempts a one-pixel move and reports whether it happened.
// A false result aborts the rest of the frame's movement.
type stepFunc func(dir core.Direction) bool

// stepRatio returns how many unit steps to take on each axis per
// alternation so the path approximates the straight line to the target.
func stepRatio(dx, dy float64) (stepX, stepY int) {
	stepX, stepY = 1, 1
	switch {
	case dy != 0 && dx > dy:
		stepX = max(1, int(math.Round(dx/dy)))
	case dx != 0:
		stepY = int(math.Round(dy / dx))
		if dy != 0 {
			stepY = max(1, stepY)
		}
	}
	return stepX, stepY
}

// resolve moves a body toward position + velocity/fps in unit steps so a
// fast body can never pass through a one-pixel obstacle. On arrival the
// body snaps to the exact fractional target.
func resolve(b *core.Body, fps int, step stepFunc) {
	if fps <= 0 {
		return
	}
	tx := b.X + b.VelX/float64(fps)
	ty := b.Y + b.VelY/float64(fps)
	stepX, stepY := stepRatio(math.Abs(tx-b.X), math.Abs(ty-b.Y))

	arrived := func() bool {
		if int(b.X) == int(tx) && int(b.Y) == int(ty) {
			b.X, b.Y = tx, ty
			return true
		}
		return false
	}

	for {
		for range stepX {
			cx, goal := int(b.X), int(tx)
			if cx == goal {
				break
			}
			dir := core.East
			if cx > goal {
				dir = core.West
			}
			if !step(dir) {
				return
			}
		}
		if arrived() {
			return
		}

		for range stepY {
			cy, goal := int(b.Y), int(ty)
			if cy == goal {
				break
			}
			dir := core.South
			if cy > goal {
				dir = core.North
			}
			if !step(dir) {
				return
			}
		}
		if arrived() {
			return
		}
	}
}
