package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave of fixed length, optionally sliding
// linearly from freq to endFreq.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *rand.Rand
}

// NewOscillator creates a constant-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator whose pitch slides from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    rand.New(rand.NewPCG(uint64(freq), uint64(endFreq))), //#nosec G404 -- noise seed
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + (o.endFreq-o.freq)*float64(o.position)/float64(o.duration)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with an attack ramp and a release fade over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := range n {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.totalSamples - e.releaseSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero is
// mapped to silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// tone is an enveloped oscillator.
func tone(freq, endFreq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	osc := NewSweep(freq, endFreq, d, wave, rate)
	return NewEnvelope(osc, d, 5*time.Millisecond, d/2, rate)
}

// Effect builds the streamer for a sound at the given volume. It returns
// nil for SoundNone and unknown sounds.
func Effect(s Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	var st beep.Streamer
	switch s {
	case SoundBorder:
		st = newVolume(tone(220, 180, 40*time.Millisecond, WaveSine, rate), 0.4)
	case SoundBlockHit:
		st = newVolume(tone(660, 660, 50*time.Millisecond, WaveSquare, rate), 0.25)
	case SoundBlockBreak:
		st = beep.Mix(
			newVolume(tone(0, 0, 120*time.Millisecond, WaveNoise, rate), 0.3),
			newVolume(tone(330, 110, 120*time.Millisecond, WaveSaw, rate), 0.3),
		)
	case SoundPaddle:
		st = newVolume(tone(440, 520, 60*time.Millisecond, WaveSine, rate), 0.6)
	case SoundPowerUpSpawn:
		st = newVolume(tone(880, 1320, 80*time.Millisecond, WaveSine, rate), 0.3)
	case SoundPowerUp:
		st = beep.Seq(
			newVolume(tone(987.77, 987.77, 70*time.Millisecond, WaveSquare, rate), 0.3),
			newVolume(tone(1318.51, 1318.51, 140*time.Millisecond, WaveSquare, rate), 0.3),
		)
	case SoundTrapped:
		st = newVolume(tone(300, 60, 300*time.Millisecond, WaveSaw, rate), 0.5)
	case SoundBallLost:
		st = beep.Seq(
			newVolume(tone(392, 392, 120*time.Millisecond, WaveSine, rate), 0.5),
			newVolume(tone(262, 196, 250*time.Millisecond, WaveSine, rate), 0.5),
		)
	case SoundBallSpawn:
		st = newVolume(tone(523.25, 1046.5, 100*time.Millisecond, WaveSine, rate), 0.4)
	default:
		return nil
	}
	return newVolume(st, volume)
}
