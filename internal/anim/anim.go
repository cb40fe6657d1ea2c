// Package anim implements frame-sequence animations driven by the fixed
// simulation tick. Every method is safe to call on a nil *Anim.
package anim

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/core"
)

// DefaultMaxFrames is the frame capacity used when Config leaves it unset.
const DefaultMaxFrames = 8

// Config holds the parameters shared by every animation of a simulation.
type Config struct {
	FPS       int         // Simulation ticks per second
	MaxFrames int         // Frame capacity per animation
	Logger    *log.Logger // Receives capacity warnings
}

// Anim is an ordered list of frames with a sub-frame accumulator.
// A nil frame is a valid placeholder for a sprite that failed to load.
type Anim struct {
	frames    []*core.Sprite
	maxFrames int
	pos       int
	fudge     float64
	speed     float64 // frames advanced per tick
	loop      bool
	done      bool
	w, h      int
	logger    *log.Logger
}

// New creates an empty animation playing at framesPerSecond.
// An animation without frames is done.
func New(cfg Config, loop bool, framesPerSecond float64) *Anim {
	maxFrames := cfg.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	var speed float64
	if cfg.FPS > 0 {
		speed = framesPerSecond / float64(cfg.FPS)
	}

	return &Anim{
		frames:    make([]*core.Sprite, 0, maxFrames),
		maxFrames: maxFrames,
		speed:     speed,
		loop:      loop,
		done:      true,
		logger:    logger,
	}
}

// AddFrame appends a frame and restarts the animation from its first frame.
// Frames beyond the capacity are dropped.
func (a *Anim) AddFrame(frame *core.Sprite) *Anim {
	if a == nil {
		return nil
	}
	if len(a.frames) >= a.maxFrames {
		a.logger.Warn("animation frame capacity exceeded, frame dropped", "capacity", a.maxFrames, "frame", spriteName(frame))
		return a
	}

	a.frames = append(a.frames, frame)
	if a.w == 0 && a.h == 0 && frame != nil {
		a.w, a.h = frame.Width, frame.Height
	}

	a.pos = 0
	a.fudge = 0
	a.done = false
	return a
}

// ClearFrames removes every frame. The animation is left done.
func (a *Anim) ClearFrames() *Anim {
	if a == nil {
		return nil
	}
	clear(a.frames)
	a.frames = a.frames[:0]
	a.w, a.h = 0, 0
	a.pos = 0
	a.fudge = 0
	a.done = true
	return a
}

// Reset rewinds to the first frame.
func (a *Anim) Reset() {
	if a == nil {
		return
	}
	a.pos = 0
	a.fudge = 0
	a.done = false
}

// Advance moves the animation forward by one simulation tick.
func (a *Anim) Advance() {
	if a == nil || a.done || len(a.frames) == 0 {
		return
	}

	a.fudge += a.speed

	for a.fudge > 1 && !a.done {
		a.pos++
		if a.pos >= len(a.frames) {
			if a.loop {
				a.pos = 0
			} else {
				a.pos = len(a.frames) - 1
				a.done = true
			}
		}
		a.fudge--
	}
}

// Current returns the frame on display, or nil.
func (a *Anim) Current() *core.Sprite {
	if a == nil || len(a.frames) == 0 {
		return nil
	}
	return a.frames[a.pos]
}

// Index returns the position of the frame on display.
func (a *Anim) Index() int {
	if a == nil {
		return 0
	}
	return a.pos
}

// Len returns the number of frames.
func (a *Anim) Len() int {
	if a == nil {
		return 0
	}
	return len(a.frames)
}

// Width returns the pixel width of the first loaded frame.
func (a *Anim) Width() int {
	if a == nil {
		return 0
	}
	return a.w
}

// Height returns the pixel height of the first loaded frame.
func (a *Anim) Height() int {
	if a == nil {
		return 0
	}
	return a.h
}

// Done reports whether a non-looping animation has shown its last frame.
// Nil and frame-less animations are always done.
func (a *Anim) Done() bool {
	if a == nil || len(a.frames) == 0 {
		return true
	}
	return a.done
}

// Loop reports whether the animation wraps around.
func (a *Anim) Loop() bool {
	return a != nil && a.loop
}

func spriteName(s *core.Sprite) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}
