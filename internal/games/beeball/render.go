package beeball

import (
	"fmt"
	"math"

	"github.com/vovakirdan/beeball/internal/core"
)

// Visual characters for rendering
const (
	BallChar       = '●'
	BallAltChar    = '◉'
	HolePitChar    = '◯'
	PaddleHChar    = '═'
	PaddleVChar    = '║'
	BlockWeakChar  = '▒'
	BlockHardChar  = '▓'
	BlockSolidChar = '█'
)

// Chomp track glyphs, by frame index
var holeChompChars = []rune{'◉', '●', '◯'}

// Colors cycled through by block legend character when a block has no
// sprite color.
var blockColors = []core.Color{
	core.ColorRed, core.ColorOrange, core.ColorYellow, core.ColorGreen,
	core.ColorCyan, core.ColorBlue, core.ColorMagenta, core.ColorBrightRed,
}

var powerUpColors = map[PowerUpType]core.Color{
	PowerUpDrill:   core.ColorBrightCyan,
	PowerUpScatter: core.ColorBrightGreen,
	PowerUpHyper:   core.ColorBrightRed,
	PowerUpBlast:   core.ColorOrange,
}

// Minimum playfield size in cells
const (
	minFieldCols = 20
	minFieldRows = 8
)

// Layout maps field pixels onto terminal cells. A column covers at least
// half a block and a row at least a whole block, so a block is roughly
// square on screen; larger fields are scaled down to fit.
type Layout struct {
	OX, OY     int     // Screen cell of the field's top-left pixel
	Cols, Rows int     // Playfield size in cells
	ColPx      float64 // Pixels per column
	RowPx      float64 // Pixels per row
	TooSmall   bool
}

// NewLayout fits a field of fieldW x fieldH pixels into a screen, leaving
// the top row for the HUD and one cell for the border on every side.
func NewLayout(fieldW, fieldH, blockSize, screenW, screenH int) Layout {
	availW := screenW - 2
	availH := screenH - 3
	if availW < minFieldCols || availH < minFieldRows || fieldW <= 0 || fieldH <= 0 {
		return Layout{TooSmall: true}
	}

	colPx := math.Max(float64(blockSize)/2, float64(fieldW)/float64(availW))
	rowPx := math.Max(float64(blockSize), float64(fieldH)/float64(availH))
	cols := min(availW, int(math.Ceil(float64(fieldW)/colPx)))
	rows := min(availH, int(math.Ceil(float64(fieldH)/rowPx)))

	return Layout{
		OX:    (screenW-(cols+2))/2 + 1,
		OY:    2,
		Cols:  cols,
		Rows:  rows,
		ColPx: colPx,
		RowPx: rowPx,
	}
}

// ToCell converts a field pixel position to a screen cell.
func (l Layout) ToCell(px, py float64) (int, int) {
	return l.OX + int(math.Floor(px/l.ColPx)), l.OY + int(math.Floor(py/l.RowPx))
}

// ToField converts a screen cell to the field pixel at its centre.
func (l Layout) ToField(cx, cy int) (float64, float64) {
	return (float64(cx-l.OX) + 0.5) * l.ColPx, (float64(cy-l.OY) + 0.5) * l.RowPx
}

// inside reports whether a cell lies within the playfield.
func (l Layout) inside(cx, cy int) bool {
	return cx >= l.OX && cx < l.OX+l.Cols && cy >= l.OY && cy < l.OY+l.Rows
}

// Layout returns the field-to-screen mapping for a screen size.
func (g *Game) Layout(screenW, screenH int) Layout {
	if g.field == nil {
		return Layout{TooSmall: true}
	}
	return NewLayout(g.field.Width(), g.field.Height(), g.cfg.Simulation.BlockSize, screenW, screenH)
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.field == nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Level failed to load")
		if g.err != nil {
			dst.DrawTextCentered(dst.Height()/2+1, g.err.Error())
		}
		return
	}

	l := g.Layout(dst.Width(), dst.Height())
	if l.TooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minFieldCols+2, minFieldRows+3))
		return
	}

	g.renderHUD(dst)
	dst.DrawBox(core.NewRect(l.OX-1, l.OY-1, l.Cols+2, l.Rows+2), core.ColorGray)
	g.renderBlocks(dst, l)
	g.renderHoles(dst, l)
	g.renderPowerUps(dst, l)
	g.renderPaddles(dst, l)
	g.renderBalls(dst, l)
	g.renderOverlay(dst)
}

// renderHUD draws lives, blocks, title and the active effect.
func (g *Game) renderHUD(dst *core.Screen) {
	st := g.State()
	dst.DrawTextColor(1, 0, fmt.Sprintf("Lives: %d", st.Lives), core.ColorBrightRed)
	dst.DrawTextCentered(0, g.Title())

	right := fmt.Sprintf("Blocks: %d", st.Blocks)
	if effect := g.effectString(); effect != "" {
		right = effect + "  " + right
	}
	dst.DrawText(dst.Width()-len([]rune(right))-1, 0, right)
}

// effectString describes the longest-running effect among live balls.
func (g *Game) effectString() string {
	var best *Ball
	for b := range g.field.Balls() {
		if b.Dead || b.PowerUp == PowerUpNone {
			continue
		}
		if best == nil || b.PowerUpTimer > best.PowerUpTimer {
			best = b
		}
	}
	if best == nil {
		return ""
	}
	return fmt.Sprintf("%s %.1fs", best.PowerUp, best.PowerUpTimer/1000)
}

// renderBlocks samples the grid at the centre of every playfield cell.
func (g *Game) renderBlocks(dst *core.Screen, l Layout) {
	grid := g.field.Grid()
	bs := grid.BlockSize()
	for cy := l.OY; cy < l.OY+l.Rows; cy++ {
		for cx := l.OX; cx < l.OX+l.Cols; cx++ {
			px, py := l.ToField(cx, cy)
			b := grid.Block(int(px)/bs, int(py)/bs)
			if b == nil || b.Hits <= 0 {
				continue
			}
			dst.SetColor(cx, cy, blockGlyph(b.Hits), blockColor(b))
		}
	}
}

func blockGlyph(hits int) rune {
	switch {
	case hits >= 3:
		return BlockSolidChar
	case hits == 2:
		return BlockHardChar
	default:
		return BlockWeakChar
	}
}

func blockColor(b *Block) core.Color {
	if b.Sprite != nil && b.Sprite.Color != core.ColorDefault {
		return b.Sprite.Color
	}
	return blockColors[int(b.Type)%len(blockColors)]
}

// fillBody draws a glyph over every cell the body's box covers.
func fillBody(dst *core.Screen, l Layout, body *core.Body, r rune, c core.Color) {
	n, w, s, e := body.Edges()
	x0, y0 := l.ToCell(float64(w), float64(n))
	x1, y1 := l.ToCell(float64(e), float64(s))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if l.inside(cx, cy) {
				dst.SetColor(cx, cy, r, c)
			}
		}
	}
}

func (g *Game) renderHoles(dst *core.Screen, l Layout) {
	for h := range g.field.Holes() {
		r := HolePitChar
		if h.Chomping() {
			r = holeChompChars[h.active.Index()%len(holeChompChars)]
		}
		cx, cy := l.ToCell(h.body.X, h.body.Y)
		if l.inside(cx, cy) {
			dst.SetColor(cx, cy, r, core.ColorGray)
		}
	}
}

func (g *Game) renderPowerUps(dst *core.Screen, l Layout) {
	for p := range g.field.PowerUps() {
		cx, cy := l.ToCell(p.body.X, p.body.Y)
		if l.inside(cx, cy) {
			dst.SetColor(cx, cy, p.Type.Glyph(), powerUpColors[p.Type])
		}
	}
}

func (g *Game) renderPaddles(dst *core.Screen, l Layout) {
	for p := range g.field.Paddles() {
		r := PaddleHChar
		if p.Orientation == Vertical {
			r = PaddleVChar
		}
		fillBody(dst, l, &p.body, r, core.ColorBrightWhite)
	}
}

func (g *Game) renderBalls(dst *core.Screen, l Layout) {
	for b := range g.field.Balls() {
		if b.Dead {
			continue
		}
		r := BallChar
		if b.anim.Index()%2 == 1 {
			r = BallAltChar
		}
		c := core.ColorBrightYellow
		if b.PowerUp != PowerUpNone {
			c = powerUpColors[b.PowerUp]
		}
		cx, cy := l.ToCell(b.body.X, b.body.Y)
		if l.inside(cx, cy) {
			dst.SetColor(cx, cy, r, c)
		}
	}
}

// renderOverlay draws pause and end-of-level messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	case StateGameOver:
		drawCenteredBox(dst, "GAME OVER", "Press R to restart")
	case StateCleared:
		drawCenteredBox(dst, "LEVEL CLEARED", fmt.Sprintf("%d lives left  |  Press R to replay", g.player.Lives))
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorYellow)

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
