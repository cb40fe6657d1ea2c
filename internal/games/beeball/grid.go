package beeball

import "github.com/vovakirdan/beeball/internal/core"

// Block is one grid cell. Hits above zero means solid.
type Block struct {
	Sprite *core.Sprite
	Type   byte // Legend character from the level file
	Hits   int
}

// Grid is the dense, row-major map of destructible blocks.
// Out-of-range reads report no block and writes are ignored.
type Grid struct {
	width     int
	height    int
	blockSize int
	blocks    []Block
	live      int
	onDestroy func(x, y int)
}

// NewGrid creates an empty grid of width x height cells.
func NewGrid(width, height, blockSize int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{
		width:     width,
		height:    height,
		blockSize: blockSize,
		blocks:    make([]Block, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// BlockSize returns the pixel size of a cell.
func (g *Grid) BlockSize() int { return g.blockSize }

// PixelWidth returns the field width in pixels.
func (g *Grid) PixelWidth() int { return g.width * g.blockSize }

// PixelHeight returns the field height in pixels.
func (g *Grid) PixelHeight() int { return g.height * g.blockSize }

// Live returns the number of solid blocks.
func (g *Grid) Live() int { return g.live }

// ToBlock converts a pixel coordinate to a cell index.
func (g *Grid) ToBlock(px int) int {
	return px / g.blockSize
}

// OnDestroy registers a hook that runs whenever a block is destroyed.
func (g *Grid) OnDestroy(fn func(x, y int)) {
	g.onDestroy = fn
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Block returns the cell at (x, y), or nil when out of range.
func (g *Grid) Block(x, y int) *Block {
	if !g.inBounds(x, y) {
		return nil
	}
	return &g.blocks[y*g.width+x]
}

// Hits returns the hit points at (x, y), 0 when out of range.
func (g *Grid) Hits(x, y int) int {
	if b := g.Block(x, y); b != nil {
		return b.Hits
	}
	return 0
}

// SetHits sets the hit points at (x, y). A non-positive count empties the
// cell.
func (g *Grid) SetHits(x, y, n int) {
	b := g.Block(x, y)
	if b == nil {
		return
	}
	if b.Hits > 0 {
		g.live--
	}
	if n <= 0 {
		b.Hits = 0
		b.Sprite = nil
		return
	}
	b.Hits = n
	g.live++
}

// SetSprite sets the image drawn for (x, y).
func (g *Grid) SetSprite(x, y int, s *core.Sprite) {
	if b := g.Block(x, y); b != nil {
		b.Sprite = s
	}
}

// SetType records the legend character of (x, y).
func (g *Grid) SetType(x, y int, t byte) {
	if b := g.Block(x, y); b != nil {
		b.Type = t
	}
}

// Hit takes one hit point from the block at (x, y). With adjacent set, each
// orthogonal neighbour also takes one hit, without spreading further.
// Hitting an empty cell does nothing.
func (g *Grid) Hit(x, y int, adjacent bool) {
	b := g.Block(x, y)
	if b == nil || b.Hits <= 0 {
		return
	}

	b.Hits--

	if adjacent {
		g.Hit(x-1, y, false)
		g.Hit(x+1, y, false)
		g.Hit(x, y-1, false)
		g.Hit(x, y+1, false)
	}

	if b.Hits <= 0 {
		b.Hits = 0
		b.Sprite = nil
		g.live--
		if g.onDestroy != nil {
			g.onDestroy(x, y)
		}
	}
}
