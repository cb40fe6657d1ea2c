package beeball

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
)

// fixedRand always returns the same value, clamped to the requested range.
type fixedRand int

func (r fixedRand) Intn(n int) int { return min(int(r), n-1) }

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// newTestField creates a field of cols x rows empty cells with
// deterministic randomness.
func newTestField(t *testing.T, cols, rows int, opts ...Option) *Field {
	t.Helper()
	cfg := config.DefaultConfig()
	base := []Option{WithRand(fixedRand(0)), WithLogger(quietLogger())}
	f := NewField(cfg, append(base, opts...)...)
	f.SetGrid(NewGrid(cols, rows, cfg.Simulation.BlockSize))
	return f
}

// addBall places a ball with an explicit velocity.
func addBall(t *testing.T, f *Field, x, y, velX, velY float64) *Ball {
	t.Helper()
	b := f.NewBall(x, y, 0)
	b.body.VelX, b.body.VelY = velX, velY
	if !f.AddBall(b) {
		t.Fatal("AddBall failed")
	}
	return b
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func noInput() core.InputFrame {
	return core.NewInputFrame()
}

func TestBallReversesAtNorthBorder(t *testing.T) {
	f := newTestField(t, 10, 10)
	b := addBall(t, f, 100, 6.5, 30, -150)

	f.Update(nil, noInput())

	if b.body.VelY != 150 {
		t.Errorf("VelY = %v, expected 150", b.body.VelY)
	}
	if b.body.VelX != 30 {
		t.Errorf("VelX = %v, expected unchanged 30", b.body.VelX)
	}
	if n, _, _, _ := b.body.Edges(); n < 0 {
		t.Errorf("ball crossed the border: north edge %d", n)
	}
	if countEvents(f.Events(), EventBorderHit) != 1 {
		t.Errorf("events = %v, expected one border hit", f.Events())
	}
}

func TestBallStaysInsideField(t *testing.T) {
	f := newTestField(t, 10, 8)
	b := addBall(t, f, 50, 50, 1100, -700)

	for range 2000 {
		f.Update(nil, noInput())
		n, w, s, e := b.body.Edges()
		if n < 0 || w < 0 || s > f.Height() || e > f.Width() {
			t.Fatalf("ball left the field: edges n=%d w=%d s=%d e=%d", n, w, s, e)
		}
	}
}

func TestBlockDestroyedFromEveryDirection(t *testing.T) {
	tests := []struct {
		name       string
		x, y       float64
		velX, velY float64
	}{
		{"from west", 20, 70, 150, 0},
		{"from east", 80, 70, -150, 0},
		{"from north", 50, 40, 0, 150},
		{"from south", 50, 100, 0, -150},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestField(t, 10, 10)
			f.Grid().SetHits(2, 3, 1)
			addBall(t, f, tc.x, tc.y, tc.velX, tc.velY)

			destroyed := false
			for range 100 {
				f.Update(nil, noInput())
				if f.Grid().Hits(2, 3) == 0 {
					destroyed = true
					break
				}
			}
			if !destroyed {
				t.Fatal("block was never destroyed")
			}

			if f.NumPowerUps() != 1 {
				t.Fatalf("power-ups = %d, expected 1", f.NumPowerUps())
			}
			for p := range f.PowerUps() {
				if p.body.X != 50 || p.body.Y != 70 {
					t.Errorf("power-up at (%v, %v), expected (50, 70)", p.body.X, p.body.Y)
				}
				if p.Type != PowerUpDrill {
					t.Errorf("power-up type = %v, expected drill", p.Type)
				}
			}
			if countEvents(f.Events(), EventBlockDestroyed) != 1 {
				t.Errorf("expected one block destroyed event, got %v", f.Events())
			}
		})
	}
}

func TestBallBouncesOffBlock(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.Grid().SetHits(2, 3, 5)
	b := addBall(t, f, 20, 70, 150, 0)

	for range 100 {
		f.Update(nil, noInput())
		if b.body.VelX < 0 {
			break
		}
	}

	if b.body.VelX != -150 {
		t.Errorf("VelX = %v, expected -150 after bounce", b.body.VelX)
	}
	if f.Grid().Hits(2, 3) != 4 {
		t.Errorf("hits = %d, expected 4", f.Grid().Hits(2, 3))
	}
	if f.NumPowerUps() != 0 {
		t.Error("a damaged block should not drop a power-up")
	}
}

func TestDrillKeepsDirection(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.Grid().SetHits(2, 3, 5)
	b := addBall(t, f, 20, 70, 150, 0)
	b.PowerUp = PowerUpDrill
	b.PowerUpTimer = 8000

	for range 100 {
		f.Update(nil, noInput())
		if f.Grid().Hits(2, 3) < 5 {
			break
		}
	}

	if f.Grid().Hits(2, 3) >= 5 {
		t.Fatal("block was never hit")
	}
	if b.body.VelX != 150 || b.body.VelY != 0 {
		t.Errorf("velocity = (%v, %v), expected unchanged (150, 0)", b.body.VelX, b.body.VelY)
	}
}

func TestScatterRandomizesDirection(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.Grid().SetHits(2, 3, 5)
	b := addBall(t, f, 20, 70, 150, 0)
	b.PowerUp = PowerUpScatter
	b.PowerUpTimer = 20000

	for range 100 {
		f.Update(nil, noInput())
		if f.Grid().Hits(2, 3) < 5 {
			break
		}
	}

	// fixedRand(0) picks the angle 0, straight north.
	if math.Abs(b.body.VelX) > 1e-9 || math.Abs(b.body.VelY+150) > 1e-9 {
		t.Errorf("velocity = (%v, %v), expected (0, -150)", b.body.VelX, b.body.VelY)
	}
}

func TestBlastDamagesNeighbours(t *testing.T) {
	f := newTestField(t, 10, 10)
	grid := f.Grid()
	grid.SetHits(2, 3, 2)
	grid.SetHits(2, 2, 2)
	grid.SetHits(2, 4, 2)
	grid.SetHits(3, 3, 2)
	grid.SetHits(4, 3, 2) // Two cells away, out of reach
	b := addBall(t, f, 20, 70, 150, 0)
	b.PowerUp = PowerUpBlast
	b.PowerUpTimer = 20000

	for range 100 {
		f.Update(nil, noInput())
		if grid.Hits(2, 3) < 2 {
			break
		}
	}

	for _, c := range [][2]int{{2, 3}, {2, 2}, {2, 4}, {3, 3}} {
		if grid.Hits(c[0], c[1]) != 1 {
			t.Errorf("hits(%d,%d) = %d, expected 1", c[0], c[1], grid.Hits(c[0], c[1]))
		}
	}
	if grid.Hits(4, 3) != 2 {
		t.Errorf("hits(4,3) = %d, expected untouched 2", grid.Hits(4, 3))
	}
}

func TestHyperBallNeverTunnels(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.Grid().SetHits(5, 3, 1)
	b := addBall(t, f, 20, 70, 150, 0)
	f.ApplyPowerUp(b, f.NewPowerUp(0, 0, PowerUpHyper))

	for range 10 {
		f.Update(nil, noInput())
		if f.Grid().Hits(5, 3) == 0 {
			break
		}
	}

	if f.Grid().Hits(5, 3) != 0 {
		t.Fatal("hyper ball passed the block without hitting it")
	}
	if b.body.X >= 100 {
		t.Errorf("ball at x=%v went through the block", b.body.X)
	}
}

func TestHyperExpires(t *testing.T) {
	f := newTestField(t, 20, 20)
	b := addBall(t, f, 100, 100, 90, 120)
	f.ApplyPowerUp(b, f.NewPowerUp(0, 0, PowerUpHyper))

	if b.Speed != 1500 {
		t.Fatalf("speed = %d, expected 1500", b.Speed)
	}
	if v := math.Hypot(b.body.VelX, b.body.VelY); math.Abs(v-1500) > 1e-6 {
		t.Fatalf("velocity magnitude = %v, expected 1500", v)
	}

	for range 499 {
		f.Update(nil, noInput())
	}
	if b.PowerUp != PowerUpHyper {
		t.Fatalf("hyper ended early, timer=%v", b.PowerUpTimer)
	}

	f.Update(nil, noInput())
	if b.PowerUp != PowerUpNone {
		t.Fatalf("hyper still active after 5000ms, timer=%v", b.PowerUpTimer)
	}
	if b.Speed != 150 {
		t.Errorf("speed = %d, expected 150", b.Speed)
	}
	if v := math.Hypot(b.body.VelX, b.body.VelY); math.Abs(v-150) > 1e-6 {
		t.Errorf("velocity magnitude = %v, expected 150", v)
	}
}

func TestApplyPowerUpReplacesEffect(t *testing.T) {
	f := newTestField(t, 10, 10)
	b := addBall(t, f, 100, 100, 150, 0)

	f.ApplyPowerUp(b, f.NewPowerUp(0, 0, PowerUpHyper))
	f.ApplyPowerUp(b, f.NewPowerUp(0, 0, PowerUpBlast))

	if b.PowerUp != PowerUpBlast || b.PowerUpTimer != 20000 {
		t.Errorf("effect = %v timer=%v, expected blast 20000", b.PowerUp, b.PowerUpTimer)
	}
	if b.Speed != 150 || math.Abs(b.body.VelX-150) > 1e-9 {
		t.Errorf("speed = %d vel=%v, expected base speed restored", b.Speed, b.body.VelX)
	}
}

func TestPaddleBounceRegistersOncePerContact(t *testing.T) {
	f := newTestField(t, 20, 20)
	f.AddPaddle(f.NewPaddle(100, 100, Horizontal))
	b := addBall(t, f, 100, 100, 0, 150)

	hits := 0
	for range 3 {
		f.Update(nil, noInput())
		hits += countEvents(f.Events(), EventPaddleHit)
	}
	if hits != 1 {
		t.Fatalf("paddle hits over 3 overlapping frames = %d, expected 1", hits)
	}
	if !b.Latched() {
		t.Fatal("ball should be latched while overlapping")
	}

	// A frame without overlap releases the latch.
	b.body.X, b.body.Y = 100, 200
	f.Update(nil, noInput())
	if b.Latched() {
		t.Fatal("latch should clear once the ball is clear of the paddle")
	}

	b.body.X, b.body.Y = 100, 100
	b.body.VelX, b.body.VelY = 0, 150
	f.Update(nil, noInput())
	if countEvents(f.Events(), EventPaddleHit) != 1 {
		t.Errorf("expected a second bounce after the latch cleared, events=%v", f.Events())
	}
}

func TestBounceOffPaddleAwayFromCentre(t *testing.T) {
	f := newTestField(t, 20, 20)
	p := f.NewPaddle(100, 100, Horizontal)
	b := f.NewBall(110, 90, 0)

	bounceOffPaddle(b, p)

	if b.body.VelX <= 0 || b.body.VelY >= 0 {
		t.Errorf("velocity = (%v, %v), expected up and to the right", b.body.VelX, b.body.VelY)
	}
	if v := math.Hypot(b.body.VelX, b.body.VelY); math.Abs(v-150) > 1e-6 {
		t.Errorf("velocity magnitude = %v, expected 150", v)
	}

	// Dead centre still produces a usable direction.
	b.body.X, b.body.Y = 100, 100
	bounceOffPaddle(b, p)
	if b.body.VelX <= 0 || b.body.VelY >= 0 {
		t.Errorf("centre bounce velocity = (%v, %v)", b.body.VelX, b.body.VelY)
	}
}

func TestPowerUpAppliesToAllBalls(t *testing.T) {
	f := newTestField(t, 20, 20)
	f.AddPaddle(f.NewPaddle(100, 100, Horizontal))
	p := f.NewPowerUp(100, 100, PowerUpHyper)
	p.body.VelX, p.body.VelY = 0, 0
	f.AddPowerUp(p)
	b1 := addBall(t, f, 30, 300, 0, 0)
	b2 := addBall(t, f, 300, 300, 0, 0)

	f.Update(nil, noInput())

	for i, b := range []*Ball{b1, b2} {
		if b.PowerUp != PowerUpHyper || b.Speed != 1500 {
			t.Errorf("ball %d: effect=%v speed=%d, expected hyper 1500", i, b.PowerUp, b.Speed)
		}
	}
	if f.NumPowerUps() != 0 {
		t.Errorf("power-ups = %d, expected 0", f.NumPowerUps())
	}
	if countEvents(f.Events(), EventPowerUpCollected) != 1 {
		t.Errorf("expected one collection, events=%v", f.Events())
	}
}

func TestPowerUpBouncesThenLeaves(t *testing.T) {
	f := newTestField(t, 10, 10)
	p := f.NewPowerUp(100, 7, PowerUpDrill)
	p.body.VelX, p.body.VelY = 0, -50
	f.AddPowerUp(p)

	for range 10 {
		f.Update(nil, noInput())
	}
	if p.Bounces != 1 || p.body.VelY != 50 {
		t.Fatalf("bounces=%d vely=%v, expected one bounce off the north border", p.Bounces, p.body.VelY)
	}

	q := f.NewPowerUp(100, 7, PowerUpDrill)
	q.body.VelX, q.body.VelY = 0, -50
	q.Bounces = f.cfg.PowerUp.MaxBounces
	f.AddPowerUp(q)

	for range 100 {
		f.Update(nil, noInput())
	}
	for other := range f.PowerUps() {
		if other == q {
			t.Fatal("spent power-up should leave the field and be destroyed")
		}
	}
	if f.NumPowerUps() != 1 {
		t.Errorf("power-ups = %d, expected 1", f.NumPowerUps())
	}
}

func TestHoleChompsWhenBallNear(t *testing.T) {
	f := newTestField(t, 20, 20)
	h := f.NewHole(100, 100)
	f.AddHole(h)
	b := addBall(t, f, 100, 140, 0, 0)

	f.Update(nil, noInput())
	if !h.Chomping() {
		t.Error("hole should chomp with a ball 40px away")
	}
	if b.Dead {
		t.Error("a nearby ball should not be swallowed")
	}

	b.body.Y = 300
	f.Update(nil, noInput())
	if h.Chomping() {
		t.Error("hole should go idle once the ball is far")
	}
}

func TestHoleSwallowsBall(t *testing.T) {
	f := newTestField(t, 20, 20)
	f.AddHole(f.NewHole(200, 200))
	template := addBall(t, f, 50, 50, 0, 0)
	victim := addBall(t, f, 200, 205, 0, 0)
	player := NewPlayer(5)

	f.Update(player, noInput())
	if !victim.Dead {
		t.Fatal("ball overlapping the hole should die")
	}
	if template.Dead {
		t.Fatal("distant ball should survive")
	}

	f.Update(player, noInput())
	if player.Lives != 4 {
		t.Errorf("lives = %d, expected 4", player.Lives)
	}
	if f.NumBalls() != 2 {
		t.Errorf("balls = %d, expected template respawn", f.NumBalls())
	}
	if countEvents(f.Events(), EventBallLost) != 1 || countEvents(f.Events(), EventBallSpawned) != 1 {
		t.Errorf("events = %v", f.Events())
	}
	for b := range f.Balls() {
		if b != template && (b.body.X != 50 || b.body.Y != 50) {
			t.Errorf("respawned at (%v, %v), expected template (50, 50)", b.body.X, b.body.Y)
		}
	}
}

func TestHyperBallIgnoresHoles(t *testing.T) {
	f := newTestField(t, 20, 20)
	h := f.NewHole(200, 200)
	f.AddHole(h)
	b := addBall(t, f, 200, 205, 0, 0)
	b.PowerUp = PowerUpHyper
	b.PowerUpTimer = 5000

	f.Update(nil, noInput())

	if b.Dead {
		t.Error("hyper ball should be invincible to holes")
	}
	if h.Chomping() {
		t.Error("hole should not react to a hyper ball")
	}
}

func TestLastLifeNoRespawn(t *testing.T) {
	f := newTestField(t, 20, 20)
	f.AddHole(f.NewHole(200, 200))
	addBall(t, f, 200, 205, 0, 0)
	player := NewPlayer(1)

	f.Update(player, noInput())
	f.Update(player, noInput())

	if player.Lives != 0 {
		t.Errorf("lives = %d, expected 0", player.Lives)
	}
	if f.NumBalls() != 0 {
		t.Errorf("balls = %d, expected none", f.NumBalls())
	}
}

func TestPaddleKeyMovement(t *testing.T) {
	f := newTestField(t, 10, 10)
	h := f.NewPaddle(100, 190, Horizontal)
	v := f.NewPaddle(10, 100, Vertical)
	f.AddPaddle(h)
	f.AddPaddle(v)

	in := noInput()
	in.Hold(core.ActionRight)
	in.Hold(core.ActionUp)
	f.Update(nil, in)

	if h.body.X != 102.5 || h.body.Y != 190 {
		t.Errorf("horizontal paddle at (%v, %v), expected (102.5, 190)", h.body.X, h.body.Y)
	}
	if v.body.Y != 97.5 || v.body.X != 10 {
		t.Errorf("vertical paddle at (%v, %v), expected (10, 97.5)", v.body.X, v.body.Y)
	}

	in = noInput()
	in.Hold(core.ActionLeft)
	in.Hold(core.ActionRight)
	f.Update(nil, in)
	if h.body.X != 102.5 {
		t.Errorf("opposing keys moved the paddle to %v", h.body.X)
	}

	in = noInput()
	in.Hold(core.ActionRight)
	for range 100 {
		f.Update(nil, in)
	}
	if _, _, _, e := h.body.Edges(); e != 200 {
		t.Errorf("east edge = %d, expected clamped to 200", e)
	}
}

func TestPaddlePointerTracking(t *testing.T) {
	f := newTestField(t, 10, 10)
	h := f.NewPaddle(100, 190, Horizontal)
	v := f.NewPaddle(10, 100, Vertical)
	f.AddPaddle(h)
	f.AddPaddle(v)

	in := noInput()
	in.Point(60, 40)
	f.Update(nil, in)

	if h.body.X != 60 || h.body.Y != 190 {
		t.Errorf("horizontal paddle at (%v, %v), expected (60, 190)", h.body.X, h.body.Y)
	}
	if v.body.X != 10 || v.body.Y != 40 {
		t.Errorf("vertical paddle at (%v, %v), expected (10, 40)", v.body.X, v.body.Y)
	}

	in = noInput()
	in.Point(-50, 500)
	f.Update(nil, in)
	if h.body.X != 20 {
		t.Errorf("horizontal paddle x = %v, expected clamped to 20", h.body.X)
	}
	if v.body.Y != 180 {
		t.Errorf("vertical paddle y = %v, expected clamped to 180", v.body.Y)
	}
}

func TestCapacityLimits(t *testing.T) {
	f := newTestField(t, 10, 10)
	capacity := f.cfg.Capacity.Balls
	for range capacity {
		if !f.AddBall(f.NewBall(50, 50, 0)) {
			t.Fatal("add within capacity failed")
		}
	}
	if f.AddBall(f.NewBall(50, 50, 0)) {
		t.Error("add beyond capacity should fail")
	}
	if f.NumBalls() != capacity {
		t.Errorf("balls = %d, expected %d", f.NumBalls(), capacity)
	}
}

func TestCapacityOverflowIsWarned(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	f := newTestField(t, 10, 10, WithLogger(logger))

	for range f.cfg.Capacity.PowerUps {
		f.AddPowerUp(f.NewPowerUp(100, 100, PowerUpBlast))
	}
	if f.AddPowerUp(f.NewPowerUp(100, 100, PowerUpDrill)) {
		t.Fatal("add beyond capacity should fail")
	}
	if !strings.Contains(buf.String(), "powerup capacity exceeded") {
		t.Errorf("overflow not logged at info level, got %q", buf.String())
	}
}

func TestDestroyEmptiesField(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.AddBall(f.NewBall(50, 50, 0))
	f.AddPaddle(f.NewPaddle(50, 190, Horizontal))
	f.AddHole(f.NewHole(150, 150))
	f.AddPowerUp(f.NewPowerUp(100, 100, PowerUpBlast))

	f.Destroy()

	if f.NumBalls()+f.NumPaddles()+f.NumHoles()+f.NumPowerUps() != 0 {
		t.Error("destroy left entities behind")
	}
	if f.Grid() != nil {
		t.Error("destroy should release the grid")
	}
	for range f.Entities() {
		t.Error("no entities expected after destroy")
	}
}

func TestEntitiesDrawOrder(t *testing.T) {
	f := newTestField(t, 10, 10)
	f.AddBall(f.NewBall(50, 50, 0))
	f.AddPaddle(f.NewPaddle(50, 190, Horizontal))
	f.AddHole(f.NewHole(150, 150))
	f.AddPowerUp(f.NewPowerUp(100, 100, PowerUpBlast))

	var kinds []Kind
	for e := range f.Entities() {
		kinds = append(kinds, e.Kind())
	}
	expected := []Kind{KindHole, KindPowerUp, KindPaddle, KindBall}
	if len(kinds) != len(expected) {
		t.Fatalf("kinds = %v", kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("kinds = %v, expected %v", kinds, expected)
			break
		}
	}
}
