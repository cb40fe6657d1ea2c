package beeball

import (
	"github.com/vovakirdan/beeball/internal/anim"
	"github.com/vovakirdan/beeball/internal/core"
)

// Kind distinguishes the entity families living on a field.
type Kind int

const (
	KindBall Kind = iota
	KindPaddle
	KindHole
	KindPowerUp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPaddle:
		return "paddle"
	case KindHole:
		return "hole"
	case KindPowerUp:
		return "powerup"
	default:
		return "unknown"
	}
}

// Entity is anything with a body and an animation drawn on the field.
type Entity interface {
	Kind() Kind
	Body() *core.Body
	Anim() *anim.Anim
}

// ImageSource resolves sprite names. A nil result means the image is
// unavailable; the simulation keeps running without it.
type ImageSource interface {
	Image(name string) *core.Sprite
}

type noImages struct{}

func (noImages) Image(string) *core.Sprite { return nil }

// PowerUpType enumerates the collectible effects.
type PowerUpType int

const (
	PowerUpNone PowerUpType = iota
	PowerUpDrill
	PowerUpScatter
	PowerUpHyper
	PowerUpBlast

	powerUpTypeCount
)

// String returns the effect name.
func (t PowerUpType) String() string {
	switch t {
	case PowerUpNone:
		return "none"
	case PowerUpDrill:
		return "drill"
	case PowerUpScatter:
		return "scatter"
	case PowerUpHyper:
		return "hyper"
	case PowerUpBlast:
		return "blast"
	default:
		return "unknown"
	}
}

// Glyph returns the single-letter badge drawn for the power-up.
func (t PowerUpType) Glyph() rune {
	switch t {
	case PowerUpDrill:
		return 'D'
	case PowerUpScatter:
		return 'S'
	case PowerUpHyper:
		return 'H'
	case PowerUpBlast:
		return 'B'
	default:
		return '?'
	}
}

// Orientation is the axis a paddle slides along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ParseOrientation maps the level-file letter to an orientation.
func ParseOrientation(c byte) (Orientation, bool) {
	switch c {
	case 'H', 'h':
		return Horizontal, true
	case 'V', 'v':
		return Vertical, true
	default:
		return Horizontal, false
	}
}

// String returns the level-file letter.
func (o Orientation) String() string {
	if o == Vertical {
		return "V"
	}
	return "H"
}

// Ball is a bee: a moving body that bounces off borders, blocks and paddles.
type Ball struct {
	body core.Body
	anim *anim.Anim

	Speed        int     // Pixels per second
	Facing       float64 // Sprite rotation in radians
	Dead         bool
	PowerUp      PowerUpType
	PowerUpTimer float64 // Remaining effect time in milliseconds
	Shadow       *core.Sprite

	latch bool // Overlapping a paddle that already bounced us
}

func (b *Ball) Kind() Kind { return KindBall }
func (b *Ball) Body() *core.Body { return &b.body }
func (b *Ball) Anim() *anim.Anim { return b.anim }
func (b *Ball) Latched() bool { return b.latch }
func (b *Ball) Hyper() bool { return b.PowerUp == PowerUpHyper }

// SetVelocity points the ball along a compass angle at its current speed.
func (b *Ball) SetVelocity(degrees float64) {
	b.body.VelX, b.body.VelY = velocityFromAngle(degrees, b.Speed)
}

// ChangeSpeed rescales the velocity to a new speed, keeping its direction.
func (b *Ball) ChangeSpeed(speed int) {
	if b.Speed != 0 {
		scale := float64(speed) / float64(b.Speed)
		b.body.VelX *= scale
		b.body.VelY *= scale
	}
	b.Speed = speed
}

// Destroy releases the ball's animation. Safe on nil.
func (b *Ball) Destroy() {
	if b == nil {
		return
	}
	b.anim.ClearFrames()
	b.anim = nil
	b.Shadow = nil
}

// Paddle is a player-controlled bar confined to one axis.
type Paddle struct {
	body core.Body
	anim *anim.Anim

	Orientation Orientation
	Shadow      *core.Sprite
}

func (p *Paddle) Kind() Kind { return KindPaddle }
func (p *Paddle) Body() *core.Body { return &p.body }
func (p *Paddle) Anim() *anim.Anim { return p.anim }

// Destroy releases the paddle's animation. Safe on nil.
func (p *Paddle) Destroy() {
	if p == nil {
		return
	}
	p.anim.ClearFrames()
	p.anim = nil
	p.Shadow = nil
}

// Hole is a static trap that swallows balls. It chomps while a ball is near.
type Hole struct {
	body   core.Body
	idle   *anim.Anim
	chomp  *anim.Anim
	active *anim.Anim
}

func (h *Hole) Kind() Kind { return KindHole }
func (h *Hole) Body() *core.Body { return &h.body }
func (h *Hole) Anim() *anim.Anim { return h.active }

// Chomping reports whether the chomp track is playing.
func (h *Hole) Chomping() bool { return h.active != nil && h.active == h.chomp }

// switchTo activates a track, rewinding it on every switch.
func (h *Hole) switchTo(a *anim.Anim) {
	if h.active == a {
		return
	}
	h.active = a
	a.Reset()
}

// Destroy releases both animation tracks. Safe on nil.
func (h *Hole) Destroy() {
	if h == nil {
		return
	}
	h.idle.ClearFrames()
	h.chomp.ClearFrames()
	h.idle, h.chomp, h.active = nil, nil, nil
}

// PowerUp is a collectible drifting across the field after a block breaks.
type PowerUp struct {
	body core.Body
	anim *anim.Anim

	Type         PowerUpType
	Bounces      int     // Border bounces taken so far
	EffectMillis float64 // Effect duration granted on pickup
}

func (p *PowerUp) Kind() Kind { return KindPowerUp }
func (p *PowerUp) Body() *core.Body { return &p.body }
func (p *PowerUp) Anim() *anim.Anim { return p.anim }

// Destroy releases the power-up's animation. Safe on nil.
func (p *PowerUp) Destroy() {
	if p == nil {
		return
	}
	p.anim.ClearFrames()
	p.anim = nil
}

// Player holds what survives between balls.
type Player struct {
	Lives int
}

// NewPlayer creates a player with the given lives.
func NewPlayer(lives int) *Player {
	return &Player{Lives: lives}
}
