// Package beeball implements the Beeball simulation: bees bounce around a
// block grid, paddles deflect them, holes swallow them and broken blocks
// drop power-ups. The package is pure game logic driven by a fixed tick.
package beeball

import (
	"iter"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/anim"
	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
)

// ballTemplate is the spawn state of the first ball added to a field.
type ballTemplate struct {
	set        bool
	x, y       float64
	velX, velY float64
}

// Field owns the grid and every entity of one level.
type Field struct {
	cfg     config.BeeballConfig
	fps     int
	grid    *Grid
	title   string
	rng     Rand
	images  ImageSource
	logger  *log.Logger
	animCfg anim.Config

	paddles  *Slots[Paddle]
	balls    *Slots[Ball]
	holes    *Slots[Hole]
	powerUps *Slots[PowerUp]

	template ballTemplate
	events   []Event
}

// Option configures a Field.
type Option func(*Field)

// WithLogger sets the logger for capacity and asset warnings.
func WithLogger(l *log.Logger) Option {
	return func(f *Field) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(f *Field) {
		if r != nil {
			f.rng = r
		}
	}
}

// WithImages sets where sprites are resolved.
func WithImages(src ImageSource) Option {
	return func(f *Field) {
		if src != nil {
			f.images = src
		}
	}
}

// NewField creates an empty field without a grid.
func NewField(cfg config.BeeballConfig, opts ...Option) *Field {
	f := &Field{
		cfg:    cfg,
		fps:    cfg.Simulation.FPS,
		rng:    NewSimpleRNG(1),
		images: noImages{},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.animCfg = anim.Config{FPS: f.fps, MaxFrames: cfg.Capacity.AnimFrames, Logger: f.logger}

	f.paddles = NewSlots[Paddle](cfg.Capacity.Paddles)
	f.balls = NewSlots[Ball](cfg.Capacity.Balls)
	f.holes = NewSlots[Hole](cfg.Capacity.Holes)
	f.powerUps = NewSlots[PowerUp](cfg.Capacity.PowerUps)
	return f
}

// Config returns the configuration the field was built with.
func (f *Field) Config() config.BeeballConfig { return f.cfg }

// Title returns the level title, if any.
func (f *Field) Title() string { return f.title }

// SetTitle sets the level title.
func (f *Field) SetTitle(title string) { f.title = title }

// Grid returns the block grid, or nil before one is set.
func (f *Field) Grid() *Grid { return f.grid }

// SetGrid replaces the block grid. Destroyed blocks may drop power-ups.
func (f *Field) SetGrid(g *Grid) {
	f.grid = g
	if g != nil {
		g.OnDestroy(f.blockDestroyed)
	}
}

// Width returns the field width in pixels.
func (f *Field) Width() int {
	if f.grid == nil {
		return 0
	}
	return f.grid.PixelWidth()
}

// Height returns the field height in pixels.
func (f *Field) Height() int {
	if f.grid == nil {
		return 0
	}
	return f.grid.PixelHeight()
}

// Events returns what happened during the last Update.
func (f *Field) Events() []Event { return f.events }

func (f *Field) emit(kind EventKind, x, y float64) {
	f.events = append(f.events, Event{Kind: kind, X: x, Y: y})
}

// Balls yields the live balls.
func (f *Field) Balls() iter.Seq[*Ball] { return f.balls.Values() }

// Paddles yields the paddles.
func (f *Field) Paddles() iter.Seq[*Paddle] { return f.paddles.Values() }

// Holes yields the holes.
func (f *Field) Holes() iter.Seq[*Hole] { return f.holes.Values() }

// PowerUps yields the power-ups in flight.
func (f *Field) PowerUps() iter.Seq[*PowerUp] { return f.powerUps.Values() }

// NumBalls returns the number of live balls.
func (f *Field) NumBalls() int { return f.balls.Len() }

// NumPaddles returns the number of paddles.
func (f *Field) NumPaddles() int { return f.paddles.Len() }

// NumHoles returns the number of holes.
func (f *Field) NumHoles() int { return f.holes.Len() }

// NumPowerUps returns the number of power-ups in flight.
func (f *Field) NumPowerUps() int { return f.powerUps.Len() }

// Entities yields everything drawable in back-to-front order.
func (f *Field) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for h := range f.holes.Values() {
			if !yield(h) {
				return
			}
		}
		for p := range f.powerUps.Values() {
			if !yield(p) {
				return
			}
		}
		for p := range f.paddles.Values() {
			if !yield(p) {
				return
			}
		}
		for b := range f.balls.Values() {
			if !yield(b) {
				return
			}
		}
	}
}

func (f *Field) newAnim(loop bool, fps float64, frames []string) *anim.Anim {
	a := anim.New(f.animCfg, loop, fps)
	for _, name := range frames {
		a.AddFrame(f.images.Image(name))
	}
	return a
}

// NewBall creates a ball heading along a compass angle at the base speed.
func (f *Field) NewBall(x, y, degrees float64) *Ball {
	c := f.cfg.Ball
	b := &Ball{
		body:   core.Body{X: x, Y: y, Box: c.Box},
		anim:   f.newAnim(true, c.AnimFPS, c.Frames),
		Speed:  c.Speed,
		Facing: randomFacing(f.rng),
		Shadow: f.images.Image(c.Shadow),
	}
	b.SetVelocity(degrees)
	return b
}

// NewPaddle creates a stationary paddle.
func (f *Field) NewPaddle(x, y float64, o Orientation) *Paddle {
	shape := f.cfg.Paddle.Horizontal
	if o == Vertical {
		shape = f.cfg.Paddle.Vertical
	}
	return &Paddle{
		body:        core.Body{X: x, Y: y, Box: shape.Box},
		anim:        f.newAnim(false, 0, []string{shape.Frame}),
		Orientation: o,
		Shadow:      f.images.Image(shape.Shadow),
	}
}

// NewHole creates an idle hole.
func (f *Field) NewHole(x, y float64) *Hole {
	c := f.cfg.Hole
	h := &Hole{
		body:  core.Body{X: x, Y: y, Box: c.Box},
		idle:  f.newAnim(false, 0, c.IdleFrames),
		chomp: f.newAnim(true, c.ChompFPS, c.ChompFrames),
	}
	h.active = h.idle
	return h
}

// NewPowerUp creates a power-up launched along one of the configured angles.
func (f *Field) NewPowerUp(x, y float64, t PowerUpType) *PowerUp {
	c := f.cfg.PowerUp
	p := &PowerUp{
		body:         core.Body{X: x, Y: y, Box: c.Box},
		anim:         f.newAnim(false, 0, []string{powerUpSprite(t)}),
		Type:         t,
		EffectMillis: effectMillis(c, t),
	}
	if len(c.LaunchAngles) > 0 {
		angle := c.LaunchAngles[randomNumber(f.rng, 0, len(c.LaunchAngles)-1)]
		p.body.VelX, p.body.VelY = velocityFromAngle(float64(angle), c.Speed)
	}
	return p
}

func powerUpSprite(t PowerUpType) string {
	return "powerup-" + t.String() + ".bmp"
}

func effectMillis(c config.PowerUpConfig, t PowerUpType) float64 {
	switch t {
	case PowerUpDrill:
		return c.DrillSeconds * 1000
	case PowerUpScatter:
		return c.ScatterSeconds * 1000
	case PowerUpHyper:
		return c.HyperSeconds * 1000
	case PowerUpBlast:
		return c.BlastSeconds * 1000
	default:
		return 0
	}
}

// AddBall places a ball on the field. The first ball ever added becomes the
// respawn template. A full field destroys the ball and reports false.
func (f *Field) AddBall(b *Ball) bool {
	if _, ok := f.balls.Add(b); !ok {
		f.logger.Warn("ball capacity exceeded, ball dropped", "capacity", f.balls.Cap())
		b.Destroy()
		return false
	}
	if !f.template.set {
		f.template = ballTemplate{set: true, x: b.body.X, y: b.body.Y, velX: b.body.VelX, velY: b.body.VelY}
	}
	return true
}

// AddPaddle places a paddle on the field.
func (f *Field) AddPaddle(p *Paddle) bool {
	if _, ok := f.paddles.Add(p); !ok {
		f.logger.Warn("paddle capacity exceeded, paddle dropped", "capacity", f.paddles.Cap())
		p.Destroy()
		return false
	}
	return true
}

// AddHole places a hole on the field.
func (f *Field) AddHole(h *Hole) bool {
	if _, ok := f.holes.Add(h); !ok {
		f.logger.Warn("hole capacity exceeded, hole dropped", "capacity", f.holes.Cap())
		h.Destroy()
		return false
	}
	return true
}

// AddPowerUp places a power-up on the field.
func (f *Field) AddPowerUp(p *PowerUp) bool {
	if _, ok := f.powerUps.Add(p); !ok {
		f.logger.Warn("powerup capacity exceeded, powerup dropped", "capacity", f.powerUps.Cap())
		p.Destroy()
		return false
	}
	return true
}

// Destroy releases every entity and the grid. The field is empty afterwards.
func (f *Field) Destroy() {
	if f == nil {
		return
	}
	for b := range f.balls.Values() {
		b.Destroy()
	}
	for p := range f.paddles.Values() {
		p.Destroy()
	}
	for h := range f.holes.Values() {
		h.Destroy()
	}
	for p := range f.powerUps.Values() {
		p.Destroy()
	}
	f.balls.Clear()
	f.paddles.Clear()
	f.holes.Clear()
	f.powerUps.Clear()
	f.grid = nil
	f.template = ballTemplate{}
	f.events = nil
}

// Update advances the field by one tick.
func (f *Field) Update(player *Player, in core.InputFrame) {
	f.events = f.events[:0]

	f.trackPointer(in.Pointer)
	f.movePaddlesWithKeys(in)

	for i, p := range f.powerUps.All() {
		f.updatePowerUp(i, p)
	}
	f.collectPowerUps()

	for b := range f.balls.Values() {
		f.updateBall(b)
	}
	f.removeDeadBalls(player)

	for h := range f.holes.Values() {
		f.updateHole(h)
	}
}

// trackPointer moves horizontal paddles to the pointer's x and vertical
// paddles to its y.
func (f *Field) trackPointer(events []core.PointerEvent) {
	for _, ev := range events {
		for p := range f.paddles.Values() {
			if p.Orientation == Horizontal {
				p.body.X = ev.X
			} else {
				p.body.Y = ev.Y
			}
			f.boundInField(&p.body)
		}
	}
}

func (f *Field) movePaddlesWithKeys(in core.InputFrame) {
	speed := f.cfg.Paddle.KeySpeed
	var velX, velY float64
	if in.IsHeld(core.ActionLeft) {
		velX -= speed
	}
	if in.IsHeld(core.ActionRight) {
		velX += speed
	}
	if in.IsHeld(core.ActionUp) {
		velY -= speed
	}
	if in.IsHeld(core.ActionDown) {
		velY += speed
	}
	if velX == 0 && velY == 0 {
		return
	}

	for p := range f.paddles.Values() {
		if p.Orientation == Horizontal {
			p.body.X += velX / float64(f.fps)
		} else {
			p.body.Y += velY / float64(f.fps)
		}
		f.boundInField(&p.body)
	}
}

// boundInField pushes a body back so its box lies inside the field on each
// axis independently.
func (f *Field) boundInField(b *core.Body) {
	n, w, s, e := b.Edges()
	switch {
	case w < 0:
		b.X = b.Box.XFromWest(0)
	case e > f.Width():
		b.X = b.Box.XFromEast(f.Width())
	}
	switch {
	case n < 0:
		b.Y = b.Box.YFromNorth(0)
	case s > f.Height():
		b.Y = b.Box.YFromSouth(f.Height())
	}
}

// borderCollision reports whether a box centred at (x, y) would cross the
// field border.
func (f *Field) borderCollision(box core.Box, x, y int) bool {
	fx, fy := float64(x), float64(y)
	switch {
	case box.North(fy) < 0:
		return true
	case box.West(fx) < 0:
		return true
	case box.South(fy) > f.Height():
		return true
	case box.East(fx) > f.Width():
		return true
	}
	return false
}

// outOfBounds reports whether a body lies entirely outside the field.
func (f *Field) outOfBounds(b *core.Body) bool {
	n, w, s, e := b.Edges()
	return w > f.Width() || e < 0 || n > f.Height() || s < 0
}

func (f *Field) updateBall(b *Ball) {
	b.anim.Advance()
	if b.Dead {
		return
	}

	if b.PowerUp != PowerUpNone {
		b.PowerUpTimer -= 1000 / float64(f.fps)
		if b.PowerUpTimer <= 0 {
			if b.PowerUp == PowerUpHyper {
				b.ChangeSpeed(f.cfg.Ball.Speed)
			}
			b.PowerUp = PowerUpNone
			b.PowerUpTimer = 0
		}
	}

	resolve(&b.body, f.fps, func(dir core.Direction) bool {
		return f.stepBall(b, dir)
	})
}

// stepBall tries to move a ball one pixel. Borders, blocks and paddles are
// all checked even when an earlier check already blocked the move.
func (f *Field) stepBall(b *Ball, dir core.Direction) bool {
	nx := int(b.body.X + float64(dir.DX()))
	ny := int(b.body.Y + float64(dir.DY()))
	moved := true

	if f.borderCollision(b.body.Box, nx, ny) {
		b.body.Reverse(dir)
		b.Facing = randomFacing(f.rng)
		f.emit(EventBorderHit, b.body.X, b.body.Y)
		moved = false
	}

	if f.ballBlockCollision(b, dir, nx, ny) {
		moved = false
	}

	if f.ballPaddleCollision(b, nx, ny) {
		moved = false
	}

	if moved {
		b.body.X, b.body.Y = float64(nx), float64(ny)
	}
	return moved
}

// ballBlockCollision hits every distinct solid cell under the corners of
// the ball's box at (nx, ny) and applies the bounce rule of the ball's
// active effect.
func (f *Field) ballBlockCollision(b *Ball, dir core.Direction, nx, ny int) bool {
	if f.grid == nil {
		return false
	}
	box := b.body.Box
	fx, fy := float64(nx), float64(ny)
	north := f.grid.ToBlock(box.North(fy))
	west := f.grid.ToBlock(box.West(fx))
	south := f.grid.ToBlock(box.South(fy))
	east := f.grid.ToBlock(box.East(fx))

	corners := [4][2]int{{west, north}, {east, north}, {west, south}, {east, south}}
	var struck [4][2]int
	n := 0
	adjacent := b.PowerUp == PowerUpBlast

	for _, c := range corners {
		if f.grid.Hits(c[0], c[1]) <= 0 {
			continue
		}
		seen := false
		for _, s := range struck[:n] {
			if s == c {
				seen = true
				break
			}
		}
		if seen {
			continue
		}
		struck[n] = c
		n++

		bs := f.grid.BlockSize()
		f.emit(EventBlockHit, float64(c[0]*bs+bs/2), float64(c[1]*bs+bs/2))
		f.grid.Hit(c[0], c[1], adjacent)
	}

	if n == 0 {
		return false
	}

	switch b.PowerUp {
	case PowerUpScatter:
		b.SetVelocity(float64(randomNumber(f.rng, 0, 359)))
		b.Facing = randomFacing(f.rng)
	case PowerUpDrill:
	default:
		b.body.Reverse(dir)
		b.Facing = randomFacing(f.rng)
	}
	return true
}

// ballPaddleCollision probes the ball at (nx, ny) against every paddle.
// A bounce registers only when the ball was not already overlapping a
// paddle on its previous probe.
func (f *Field) ballPaddleCollision(b *Ball, nx, ny int) bool {
	ox, oy := b.body.X, b.body.Y
	b.body.X, b.body.Y = float64(nx), float64(ny)
	defer func() { b.body.X, b.body.Y = ox, oy }()

	overlapping := false
	for p := range f.paddles.Values() {
		if !b.body.Overlaps(&p.body) {
			continue
		}
		overlapping = true
		if !b.latch {
			bounceOffPaddle(b, p)
			b.Facing = randomFacing(f.rng)
			b.latch = true
			f.emit(EventPaddleHit, b.body.X, b.body.Y)
			return true
		}
	}
	b.latch = overlapping
	return false
}

// bounceOffPaddle sends the ball away from the paddle's centre at the
// ball's speed.
func bounceOffPaddle(b *Ball, p *Paddle) {
	dx := b.body.X - p.body.X
	dy := b.body.Y - p.body.Y
	if dy == 0 {
		dy = -0.1
	}
	if dx == 0 {
		dx = 0.1
	}
	vel := math.Hypot(dx, dy)
	ratio := float64(b.Speed) / vel
	b.body.VelX = dx * ratio
	b.body.VelY = dy * ratio
}

// ApplyPowerUp gives a ball the power-up's effect, replacing any other.
// Hyper switches to hyper speed; every other effect runs at base speed.
func (f *Field) ApplyPowerUp(b *Ball, p *PowerUp) {
	b.PowerUp = p.Type
	b.PowerUpTimer = p.EffectMillis
	if p.Type == PowerUpHyper {
		b.ChangeSpeed(f.cfg.Ball.HyperSpeed())
	} else if b.Speed != f.cfg.Ball.Speed {
		b.ChangeSpeed(f.cfg.Ball.Speed)
	}
}

func (f *Field) updatePowerUp(slot int, p *PowerUp) {
	p.anim.Advance()

	resolve(&p.body, f.fps, func(dir core.Direction) bool {
		return f.stepPowerUp(p, dir)
	})

	if f.outOfBounds(&p.body) {
		f.powerUps.Remove(slot)
		p.Destroy()
	}
}

// stepPowerUp moves a power-up one pixel. It bounces off borders until its
// bounce budget is spent, then drifts off the field.
func (f *Field) stepPowerUp(p *PowerUp, dir core.Direction) bool {
	nx := int(p.body.X + float64(dir.DX()))
	ny := int(p.body.Y + float64(dir.DY()))

	if p.Bounces < f.cfg.PowerUp.MaxBounces && f.borderCollision(p.body.Box, nx, ny) {
		p.body.Reverse(dir)
		p.Bounces++
		return false
	}

	p.body.X, p.body.Y = float64(nx), float64(ny)
	return true
}

// collectPowerUps applies every power-up touching a paddle to all live
// balls and removes it.
func (f *Field) collectPowerUps() {
	for pad := range f.paddles.Values() {
		for i, p := range f.powerUps.All() {
			if !pad.body.Overlaps(&p.body) {
				continue
			}
			for b := range f.balls.Values() {
				if !b.Dead {
					f.ApplyPowerUp(b, p)
				}
			}
			f.emit(EventPowerUpCollected, p.body.X, p.body.Y)
			f.powerUps.Remove(i)
			p.Destroy()
		}
	}
}

// blockDestroyed rolls for a power-up drop at the centre of the cell.
func (f *Field) blockDestroyed(x, y int) {
	bs := f.grid.BlockSize()
	px := float64(x*bs + bs/2)
	py := float64(y*bs + bs/2)
	f.emit(EventBlockDestroyed, px, py)

	if !randomPercent(f.rng, f.cfg.PowerUp.SpawnPercent) {
		return
	}
	t := PowerUpType(randomNumber(f.rng, int(PowerUpNone)+1, int(powerUpTypeCount)-1))
	if f.AddPowerUp(f.NewPowerUp(px, py, t)) {
		f.emit(EventPowerUpSpawned, px, py)
	}
}

// removeDeadBalls takes a life for every swallowed ball and respawns one
// from the template while lives remain. A nil player has unlimited lives.
func (f *Field) removeDeadBalls(player *Player) {
	for i, b := range f.balls.All() {
		if !b.Dead {
			continue
		}
		f.balls.Remove(i)
		f.emit(EventBallLost, b.body.X, b.body.Y)
		b.Destroy()

		if player != nil {
			player.Lives--
			if player.Lives <= 0 {
				continue
			}
		}
		if f.template.set {
			nb := f.NewBall(f.template.x, f.template.y, 0)
			nb.body.VelX, nb.body.VelY = f.template.velX, f.template.velY
			if f.AddBall(nb) {
				f.emit(EventBallSpawned, nb.body.X, nb.body.Y)
			}
		}
	}
}

// updateHole chomps while a vulnerable ball is within two hole widths and
// swallows every vulnerable ball it overlaps. Hyper balls are ignored.
func (f *Field) updateHole(h *Hole) {
	reach := 2 * h.body.Width()
	near := false

	for b := range f.balls.Values() {
		if b.Dead || b.Hyper() {
			continue
		}
		if core.Distance(&h.body, &b.body) < reach {
			near = true
		}
		if b.body.Overlaps(&h.body) {
			b.Dead = true
			f.emit(EventBallTrapped, b.body.X, b.body.Y)
		}
	}

	if near {
		h.switchTo(h.chomp)
	} else {
		h.switchTo(h.idle)
	}
	h.active.Advance()
}
