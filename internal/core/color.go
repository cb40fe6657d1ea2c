package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Approximate RGB values of the palette in a typical xterm theme.
var paletteRGB = []struct {
	c       Color
	r, g, b int
}{
	{ColorRed, 205, 0, 0},
	{ColorGreen, 0, 205, 0},
	{ColorYellow, 205, 205, 0},
	{ColorBlue, 0, 0, 238},
	{ColorMagenta, 205, 0, 205},
	{ColorCyan, 0, 205, 205},
	{ColorWhite, 229, 229, 229},
	{ColorBrightRed, 255, 0, 0},
	{ColorBrightGreen, 0, 255, 0},
	{ColorBrightYellow, 255, 255, 0},
	{ColorBrightBlue, 92, 92, 255},
	{ColorBrightMagenta, 255, 0, 255},
	{ColorBrightCyan, 0, 255, 255},
	{ColorBrightWhite, 255, 255, 255},
	{ColorOrange, 255, 135, 0},
	{ColorGray, 138, 138, 138},
}

// NearestColor maps an RGB triple to the closest palette color.
func NearestColor(r, g, b uint8) Color {
	best := ColorDefault
	bestDist := -1
	for _, p := range paletteRGB {
		dr := int(r) - p.r
		dg := int(g) - p.g
		db := int(b) - p.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = p.c
			bestDist = d
		}
	}
	return best
}
