package tui

import (
	"github.com/vovakirdan/beeball/internal/audio"
	"github.com/vovakirdan/beeball/internal/games/beeball"
)

// soundFor maps a field event to its sound effect.
func soundFor(k beeball.EventKind) audio.Sound {
	switch k {
	case beeball.EventBorderHit:
		return audio.SoundBorder
	case beeball.EventBlockHit:
		return audio.SoundBlockHit
	case beeball.EventBlockDestroyed:
		return audio.SoundBlockBreak
	case beeball.EventPaddleHit:
		return audio.SoundPaddle
	case beeball.EventPowerUpSpawned:
		return audio.SoundPowerUpSpawn
	case beeball.EventPowerUpCollected:
		return audio.SoundPowerUp
	case beeball.EventBallTrapped:
		return audio.SoundTrapped
	case beeball.EventBallLost:
		return audio.SoundBallLost
	case beeball.EventBallSpawned:
		return audio.SoundBallSpawn
	}
	return audio.SoundNone
}

// tickSounds returns the distinct sounds for one tick's events, in the
// order they first occurred. A destroyed block replaces its hit sound.
func tickSounds(events []beeball.Event) []audio.Sound {
	var seen [16]bool
	var out []audio.Sound
	for _, e := range events {
		s := soundFor(e.Kind)
		if s == audio.SoundNone || int(s) >= len(seen) || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if seen[audio.SoundBlockBreak] && seen[audio.SoundBlockHit] {
		filtered := out[:0]
		for _, s := range out {
			if s != audio.SoundBlockHit {
				filtered = append(filtered, s)
			}
		}
		out = filtered
	}
	return out
}
