package beeball

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vovakirdan/beeball/internal/anim"
	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
)

// recordingImages hands out a sprite per name and remembers every request.
type recordingImages struct {
	requested []string
}

func (r *recordingImages) Image(name string) *core.Sprite {
	r.requested = append(r.requested, name)
	return &core.Sprite{Name: name, Color: core.ColorBlue}
}

// mapRecord builds a MAP record of w x h cells; cells not listed are empty.
func mapRecord(w, h int, cells map[[2]int]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MAP %d %d\n", w, h)
	for y := range h {
		for x := range w {
			if c, ok := cells[[2]int{x, y}]; ok {
				sb.WriteString(c)
			} else {
				sb.WriteString("0 0")
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func loadString(t *testing.T, level string, opts ...Option) (*Field, error) {
	t.Helper()
	base := []Option{WithRand(fixedRand(0)), WithLogger(quietLogger())}
	return LoadField(strings.NewReader(level), config.DefaultConfig(), append(base, opts...)...)
}

func TestLoadFieldComplete(t *testing.T) {
	images := &recordingImages{}
	level := "# meadow\nTITLE  Honey Meadow \n" +
		"BLOCK a red block.bmp\n" +
		"BLOCK b blue.bmp\n" +
		"BALL 100 150 45\n" +
		"BALL 60 60 -90\n" +
		"PADDLE 100 190 H\n" +
		"PADDLE 10 100 v\n" +
		"HOLE 20 20\n" +
		mapRecord(10, 10, map[[2]int]string{
			{1, 1}: "a 1",
			{2, 1}: "b 3",
			{3, 1}: "a 0",
		})

	f, err := loadString(t, level, WithImages(images))
	if err != nil {
		t.Fatalf("LoadField() error: %v", err)
	}

	if f.Title() != "Honey Meadow" {
		t.Errorf("title = %q", f.Title())
	}
	if f.NumBalls() != 2 || f.NumPaddles() != 2 || f.NumHoles() != 1 {
		t.Errorf("balls=%d paddles=%d holes=%d", f.NumBalls(), f.NumPaddles(), f.NumHoles())
	}
	if f.Width() != 200 || f.Height() != 200 {
		t.Errorf("field size = %dx%d", f.Width(), f.Height())
	}

	grid := f.Grid()
	if grid.Live() != 2 {
		t.Errorf("live blocks = %d, expected 2", grid.Live())
	}
	if grid.Hits(2, 1) != 3 || grid.Block(2, 1).Sprite.Name != "blue.bmp" {
		t.Errorf("block (2,1) = %+v", grid.Block(2, 1))
	}
	if grid.Block(1, 1).Sprite.Name != "red block.bmp" {
		t.Errorf("block image name should keep inner spaces, got %q", grid.Block(1, 1).Sprite.Name)
	}
	if grid.Hits(3, 1) != 0 || grid.Block(3, 1).Sprite != nil {
		t.Error("a block with zero hits should be empty")
	}

	var orientations []Orientation
	for p := range f.Paddles() {
		orientations = append(orientations, p.Orientation)
	}
	if len(orientations) != 2 || orientations[0] != Horizontal || orientations[1] != Vertical {
		t.Errorf("orientations = %v", orientations)
	}

	for b := range f.Balls() {
		if b.body.X == 60 {
			// -90 normalises to 270, due west.
			if b.body.VelX > -149.9 || b.body.VelY > 1e-9 || b.body.VelY < -1e-9 {
				t.Errorf("west ball velocity = (%v, %v)", b.body.VelX, b.body.VelY)
			}
		}
	}

	found := false
	for _, name := range images.requested {
		if name == "bee1.bmp" {
			found = true
		}
	}
	if !found {
		t.Errorf("ball frames were not requested, got %v", images.requested)
	}
}

func TestLoadFieldUndefinedBlockType(t *testing.T) {
	f, err := loadString(t, mapRecord(2, 1, map[[2]int]string{{0, 0}: "z 2"}))
	if err != nil {
		t.Fatalf("LoadField() error: %v", err)
	}
	b := f.Grid().Block(0, 0)
	if b.Hits != 2 || b.Sprite != nil {
		t.Errorf("undefined type should load without a sprite, got %+v", b)
	}
}

func TestLoadFieldBlockTypeCapacity(t *testing.T) {
	var sb strings.Builder
	for i := range 30 {
		fmt.Fprintf(&sb, "BLOCK %c img%d.bmp\n", 'A'+i, i)
	}
	sb.WriteString(mapRecord(1, 1, map[[2]int]string{{0, 0}: "^ 1"}))

	images := &recordingImages{}
	f, err := loadString(t, sb.String(), WithImages(images))
	if err != nil {
		t.Fatalf("LoadField() error: %v", err)
	}
	// '^' is the 30th type and was dropped, so no sprite is looked up.
	if f.Grid().Block(0, 0).Sprite != nil {
		t.Error("types beyond capacity should be ignored")
	}
}

func TestLoadFieldMalformed(t *testing.T) {
	validMap := mapRecord(2, 2, nil)

	tests := []struct {
		name  string
		level string
	}{
		{"ball missing angle", "BALL 10 20\n"},
		{"ball missing angle before map", "BALL 10 20\n" + validMap},
		{"ball non-numeric", "BALL x 20 30\n" + validMap},
		{"unknown keyword", "BEE 1 2\n" + validMap},
		{"bad orientation", "PADDLE 10 10 D\n" + validMap},
		{"paddle truncated", validMap + "PADDLE 10"},
		{"hole truncated", validMap + "HOLE 5"},
		{"block without image", validMap + "BLOCK a"},
		{"map truncated", "MAP 2 2\n0 0 0 0 0"},
		{"map bad size", "MAP 0 3\n"},
		{"map too large", "MAP 4000000000 4000000000\n"},
		{"map too many cells", "MAP 200000 200000\n"},
		{"map size overflows", "MAP 9223372036854775807 2\n0 0"},
		{"map bad hits", "MAP 1 1\na x\n"},
		{"missing map", "BALL 10 20 30\n"},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := loadString(t, tc.level)
			if f != nil {
				t.Error("expected nil field")
			}
			if !errors.Is(err, ErrMalformedLevel) {
				t.Errorf("error = %v, expected ErrMalformedLevel", err)
			}
		})
	}
}

func TestLoadFieldMalformedReleasesEntities(t *testing.T) {
	f := NewField(config.DefaultConfig(), WithRand(fixedRand(0)), WithLogger(quietLogger()), WithImages(&recordingImages{}))
	level := mapRecord(10, 10, nil) + "BALL 40 40 90\nPADDLE 100 190 H\nHOLE 20 20\n"
	if err := f.load(strings.NewReader(level)); err != nil {
		t.Fatalf("load() error: %v", err)
	}
	f.AddPowerUp(f.NewPowerUp(100, 100, PowerUpBlast))

	var (
		built []Entity
		anims []*anim.Anim
	)
	for e := range f.Entities() {
		built = append(built, e)
		anims = append(anims, e.Anim())
		if e.Anim().Len() == 0 {
			t.Fatalf("%v built without frames", e.Kind())
		}
	}
	if len(built) != 4 {
		t.Fatalf("built %d entities, expected 4", len(built))
	}

	err := f.load(strings.NewReader("BALL 10 20\n"))
	if !errors.Is(err, ErrMalformedLevel) {
		t.Fatalf("error = %v, expected ErrMalformedLevel", err)
	}

	if n := f.NumBalls() + f.NumPaddles() + f.NumHoles() + f.NumPowerUps(); n != 0 {
		t.Errorf("%d entities left in their slots", n)
	}
	for i, e := range built {
		if e.Anim() != nil {
			t.Errorf("%v still holds its animation", e.Kind())
		}
		if anims[i].Len() != 0 {
			t.Errorf("%v animation kept %d frames", e.Kind(), anims[i].Len())
		}
	}
}

func TestLoadFieldErrorReportsLine(t *testing.T) {
	_, err := loadString(t, "TITLE x\n\nHOLE 1 2\nBOGUS\n")
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error = %v, expected it to mention line 4", err)
	}
}

func TestLoadFieldRespawnTemplateIsFirstBall(t *testing.T) {
	level := "BALL 40 40 90\nBALL 150 150 0\n" + mapRecord(10, 10, nil)
	f, err := loadString(t, level)
	if err != nil {
		t.Fatalf("LoadField() error: %v", err)
	}
	if !f.template.set || f.template.x != 40 || f.template.y != 40 {
		t.Errorf("template = %+v, expected first ball at (40, 40)", f.template)
	}
}
