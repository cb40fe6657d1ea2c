package beeball

// EventKind identifies something audible or visible that happened during
// a field update.
type EventKind int

const (
	EventBorderHit EventKind = iota
	EventBlockHit
	EventBlockDestroyed
	EventPaddleHit
	EventPowerUpSpawned
	EventPowerUpCollected
	EventBallTrapped
	EventBallLost
	EventBallSpawned
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventBorderHit:
		return "border_hit"
	case EventBlockHit:
		return "block_hit"
	case EventBlockDestroyed:
		return "block_destroyed"
	case EventPaddleHit:
		return "paddle_hit"
	case EventPowerUpSpawned:
		return "powerup_spawned"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventBallTrapped:
		return "ball_trapped"
	case EventBallLost:
		return "ball_lost"
	case EventBallSpawned:
		return "ball_spawned"
	default:
		return "unknown"
	}
}

// Event is a field occurrence at a pixel position.
type Event struct {
	Kind EventKind
	X, Y float64
}
