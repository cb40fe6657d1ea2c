package beeball

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/beeball/internal/config"
)

// ErrMalformedLevel is returned for any level file that cannot be parsed.
var ErrMalformedLevel = errors.New("malformed level")

// emptyBlockType marks an empty cell in a MAP record.
const emptyBlockType = '0'

// levelReader tokenizes the whitespace-separated level format.
type levelReader struct {
	r    *bufio.Reader
	line int
}

func newLevelReader(r io.Reader) *levelReader {
	return &levelReader{r: bufio.NewReader(r), line: 1}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func (lr *levelReader) readByte() (byte, error) {
	c, err := lr.r.ReadByte()
	if err == nil && c == '\n' {
		lr.line++
	}
	return c, err
}

func (lr *levelReader) unreadByte(c byte) {
	_ = lr.r.UnreadByte()
	if c == '\n' {
		lr.line--
	}
}

// skipSpace consumes whitespace.
func (lr *levelReader) skipSpace() error {
	for {
		c, err := lr.readByte()
		if err != nil {
			return err
		}
		if !isSpace(c) {
			lr.unreadByte(c)
			return nil
		}
	}
}

// keyword returns the next record keyword, skipping '#' comment lines.
func (lr *levelReader) keyword() (string, error) {
	for {
		tok, err := lr.token()
		if err != nil || !strings.HasPrefix(tok, "#") {
			return tok, err
		}
		if _, err := lr.r.ReadString('\n'); err != nil {
			return "", err
		}
		lr.line++
	}
}

// token returns the next whitespace-delimited word, or io.EOF.
func (lr *levelReader) token() (string, error) {
	if err := lr.skipSpace(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		c, err := lr.readByte()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(c) {
			lr.unreadByte(c)
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
}

func (lr *levelReader) integer(what string) (int, error) {
	tok, err := lr.token()
	if err != nil {
		return 0, fmt.Errorf("expected %s: %w", what, unexpected(err))
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected %s, got %q", what, tok)
	}
	return n, nil
}

// char returns the next non-space byte.
func (lr *levelReader) char(what string) (byte, error) {
	if err := lr.skipSpace(); err != nil {
		return 0, fmt.Errorf("expected %s: %w", what, unexpected(err))
	}
	c, err := lr.readByte()
	if err != nil {
		return 0, fmt.Errorf("expected %s: %w", what, unexpected(err))
	}
	return c, nil
}

// restOfLine returns the remainder of the current line after leading
// whitespace, trimmed.
func (lr *levelReader) restOfLine(what string) (string, error) {
	if err := lr.skipSpace(); err != nil {
		return "", fmt.Errorf("expected %s: %w", what, unexpected(err))
	}
	s, err := lr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if strings.HasSuffix(s, "\n") {
		lr.line++
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("expected %s", what)
	}
	return s, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// LoadField parses a level and builds a populated field. On any error the
// partially built field is destroyed and nil is returned with an error
// wrapping ErrMalformedLevel.
func LoadField(r io.Reader, cfg config.BeeballConfig, opts ...Option) (*Field, error) {
	f := NewField(cfg, opts...)
	if err := f.load(r); err != nil {
		return nil, err
	}
	return f, nil
}

// load reads level records into f. On error every entity built so far is
// destroyed and f is left empty.
func (f *Field) load(r io.Reader) error {
	cfg := f.cfg
	lr := newLevelReader(r)
	legend := make(map[byte]string)

	fail := func(line int, record string, err error) error {
		f.Destroy()
		return fmt.Errorf("%w: line %d: %s: %v", ErrMalformedLevel, line, record, err)
	}

	for {
		kw, err := lr.keyword()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(lr.line, "read", err)
		}
		line := lr.line

		switch kw {
		case "BALL":
			x, y, angle, err := lr.ints3("x", "y", "angle")
			if err != nil {
				return fail(line, kw, err)
			}
			f.AddBall(f.NewBall(float64(x), float64(y), float64(normalizeAngle(angle))))

		case "HOLE":
			x, err := lr.integer("x")
			if err != nil {
				return fail(line, kw, err)
			}
			y, err := lr.integer("y")
			if err != nil {
				return fail(line, kw, err)
			}
			f.AddHole(f.NewHole(float64(x), float64(y)))

		case "PADDLE":
			x, err := lr.integer("x")
			if err != nil {
				return fail(line, kw, err)
			}
			y, err := lr.integer("y")
			if err != nil {
				return fail(line, kw, err)
			}
			c, err := lr.char("orientation")
			if err != nil {
				return fail(line, kw, err)
			}
			o, ok := ParseOrientation(c)
			if !ok {
				return fail(line, kw, fmt.Errorf("orientation must be H or V, got %q", c))
			}
			f.AddPaddle(f.NewPaddle(float64(x), float64(y), o))

		case "BLOCK":
			c, err := lr.char("block type")
			if err != nil {
				return fail(line, kw, err)
			}
			name, err := lr.restOfLine("image name")
			if err != nil {
				return fail(line, kw, err)
			}
			if _, ok := legend[c]; !ok && len(legend) >= cfg.Capacity.BlockTypes {
				f.logger.Warn("block type capacity exceeded, type dropped", "capacity", cfg.Capacity.BlockTypes, "type", string(c))
				continue
			}
			legend[c] = name

		case "MAP":
			g, err := lr.readMap(f, legend, cfg.Simulation.BlockSize)
			if err != nil {
				return fail(line, kw, err)
			}
			f.SetGrid(g)

		case "TITLE":
			title, err := lr.restOfLine("title")
			if err != nil {
				return fail(line, kw, err)
			}
			f.SetTitle(title)

		default:
			return fail(line, "record", fmt.Errorf("unknown keyword %q", kw))
		}
	}

	if f.grid == nil {
		return fail(lr.line, "level", errors.New("missing MAP record"))
	}
	return nil
}

func (lr *levelReader) ints3(a, b, c string) (int, int, int, error) {
	x, err := lr.integer(a)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := lr.integer(b)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := lr.integer(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// maxMapCells bounds the number of cells a MAP record may declare.
const maxMapCells = 1 << 20

// mapCell is one parsed "type hits" pair.
type mapCell struct {
	t    byte
	hits int
}

// readMap parses "w h" followed by w*h "type hits" pairs in row-major order.
// The grid is only allocated once every pair has been read.
func (lr *levelReader) readMap(f *Field, legend map[byte]string, blockSize int) (*Grid, error) {
	w, err := lr.integer("width")
	if err != nil {
		return nil, err
	}
	h, err := lr.integer("height")
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("map size must be positive, got %dx%d", w, h)
	}
	if w > maxMapCells/h {
		return nil, fmt.Errorf("map size %dx%d exceeds %d cells", w, h, maxMapCells)
	}

	cells := make([]mapCell, 0, min(w*h, 1024))
	for i := range w * h {
		x, y := i%w, i/w
		t, err := lr.char("block type")
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
		}
		hits, err := lr.integer("hit count")
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
		}
		cells = append(cells, mapCell{t: t, hits: hits})
	}

	g := NewGrid(w, h, blockSize)
	for i, c := range cells {
		if c.t == emptyBlockType {
			continue
		}
		x, y := i%w, i/w
		name, ok := legend[c.t]
		if !ok {
			f.logger.Warn("map uses undefined block type", "type", string(c.t), "x", x, "y", y)
		}
		g.SetType(x, y, c.t)
		if ok {
			g.SetSprite(x, y, f.images.Image(name))
		}
		g.SetHits(x, y, c.hits)
	}
	return g, nil
}
