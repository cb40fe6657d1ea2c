package beeball

// Snapshot contains the game state in primitive types for determinism
// checks. Positions and velocities are stored in hundredths of a pixel.
type Snapshot struct {
	Tick  uint64
	State string
	Lives int

	BlocksRemaining int
	// Hit points of every cell, row-major
	BlockData []int

	// Each ball is 7 ints: X, Y, VX, VY, Speed, PowerUp, TimerMillis
	BallCount int
	BallData  []int

	// Each power-up is 5 ints: Type, X, Y, VX, VY
	PowerUpCount int
	PowerUpData  []int

	// Each paddle is 2 ints: X, Y
	PaddleData []int

	// Each hole is 1 int: 1 while chomping
	HoleData []int

	RNGState uint64
}

func centi(v float64) int {
	return int(v * 100)
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:  uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		State: g.state,
	}
	if g.player != nil {
		snap.Lives = g.player.Lives
	}
	if g.rng != nil {
		snap.RNGState = g.rng.State()
	}
	f := g.field
	if f == nil {
		return snap
	}

	if grid := f.Grid(); grid != nil {
		snap.BlocksRemaining = grid.Live()
		snap.BlockData = make([]int, 0, grid.Width()*grid.Height())
		for y := range grid.Height() {
			for x := range grid.Width() {
				snap.BlockData = append(snap.BlockData, grid.Hits(x, y))
			}
		}
	}

	for b := range f.Balls() {
		snap.BallCount++
		snap.BallData = append(snap.BallData,
			centi(b.body.X), centi(b.body.Y), centi(b.body.VelX), centi(b.body.VelY),
			b.Speed, int(b.PowerUp), int(b.PowerUpTimer))
	}

	for p := range f.PowerUps() {
		snap.PowerUpCount++
		snap.PowerUpData = append(snap.PowerUpData,
			int(p.Type), centi(p.body.X), centi(p.body.Y), centi(p.body.VelX), centi(p.body.VelY))
	}

	for p := range f.Paddles() {
		snap.PaddleData = append(snap.PaddleData, centi(p.body.X), centi(p.body.Y))
	}

	for h := range f.Holes() {
		chomping := 0
		if h.Chomping() {
			chomping = 1
		}
		snap.HoleData = append(snap.HoleData, chomping)
	}

	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	h = h*31 + uint64(snap.Lives)           //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BlocksRemaining) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallCount)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PowerUpCount)    //#nosec G115 -- hash computation

	for _, data := range [][]int{snap.BlockData, snap.BallData, snap.PowerUpData, snap.PaddleData, snap.HoleData} {
		for _, v := range data {
			h = h*31 + uint64(v) //#nosec G115 -- hash computation
		}
	}

	h = h*31 + snap.RNGState
	return h
}
