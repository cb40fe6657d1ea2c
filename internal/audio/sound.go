// Package audio plays synthesized sound effects for field events.
package audio

// Sound identifies one sound effect.
type Sound int

const (
	SoundNone Sound = iota
	SoundBorder
	SoundBlockHit
	SoundBlockBreak
	SoundPaddle
	SoundPowerUpSpawn
	SoundPowerUp
	SoundTrapped
	SoundBallLost
	SoundBallSpawn
	soundCount
)

// String returns the sound's name.
func (s Sound) String() string {
	switch s {
	case SoundNone:
		return "none"
	case SoundBorder:
		return "border"
	case SoundBlockHit:
		return "block_hit"
	case SoundBlockBreak:
		return "block_break"
	case SoundPaddle:
		return "paddle"
	case SoundPowerUpSpawn:
		return "powerup_spawn"
	case SoundPowerUp:
		return "powerup"
	case SoundTrapped:
		return "trapped"
	case SoundBallLost:
		return "ball_lost"
	case SoundBallSpawn:
		return "ball_spawn"
	default:
		return "unknown"
	}
}
