package beeball

import "math"

// Rand is the source of randomness consumed by the simulation.
type Rand interface {
	// Intn returns a value in [0, n). n is always positive.
	Intn(n int) int
}

// SimpleRNG is a deterministic pseudo-random number generator.
// Uses a 64-bit LCG and draws from the high bits.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((r.Next() >> 33) % uint64(n)) //#nosec G115 -- n is always positive
}

// State returns the generator state for snapshots.
func (r *SimpleRNG) State() uint64 {
	return r.state
}

// randomNumber returns a value in [low, high].
func randomNumber(r Rand, low, high int) int {
	if high <= low {
		return low
	}
	return low + r.Intn(high-low+1)
}

// randomPercent succeeds percent times out of a hundred.
func randomPercent(r Rand, percent int) bool {
	return randomNumber(r, 1, 100) <= percent
}

var facings = [4]float64{0, math.Pi / 2, math.Pi, math.Pi / 2 * 3}

// randomFacing picks one of the four right-angle sprite rotations.
func randomFacing(r Rand) float64 {
	return facings[r.Intn(len(facings))]
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// velocityFromAngle converts a compass angle in degrees (0 is north,
// clockwise) and a speed to a velocity.
func velocityFromAngle(degrees float64, speed int) (vx, vy float64) {
	rad := toRadians(degrees)
	return math.Sin(rad) * float64(speed), -math.Cos(rad) * float64(speed)
}

// normalizeAngle maps any angle in degrees into [0, 360).
func normalizeAngle(degrees int) int {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}
