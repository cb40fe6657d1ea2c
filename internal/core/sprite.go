package core

// Sprite is a decoded bitmap reduced to what a terminal renderer needs:
// its pixel size and a representative color.
type Sprite struct {
	Name   string
	Width  int
	Height int
	Color  Color
}
