package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/beeball/internal/config"
)

// maxVoices caps simultaneous effects so a burst of block hits under
// Hyper does not pile up.
const maxVoices = 8

// SoundManager owns the speaker and mixes effects into it.
// A nil *SoundManager is a valid muted manager.
type SoundManager struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	logger      *log.Logger
	initialized bool
}

// Option configures a SoundManager.
type Option func(*SoundManager)

// WithLogger sets the logger used to report audio failures.
func WithLogger(l *log.Logger) Option {
	return func(sm *SoundManager) {
		if l != nil {
			sm.logger = l
		}
	}
}

// NewSoundManager creates a sound manager. It returns nil when audio is
// disabled in cfg.
func NewSoundManager(cfg config.AudioConfig, opts ...Option) *SoundManager {
	if !cfg.Enabled || cfg.Volume <= 0 {
		return nil
	}
	sm := &SoundManager{
		rate:   beep.SampleRate(cfg.SampleRate),
		volume: cfg.Volume,
		mixer:  &beep.Mixer{},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Initialize opens the speaker. Calling it again is a no-op.
func (sm *SoundManager) Initialize() error {
	if sm == nil {
		return nil
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.logger.Debug("audio initialized", "rate", int(sm.rate), "volume", sm.volume)
	return nil
}

// Play starts a sound effect. It does nothing before Initialize, after
// Cleanup, or when too many effects are already playing.
func (sm *SoundManager) Play(s Sound) {
	if sm == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	st := Effect(s, sm.rate, sm.volume)
	if st == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if sm.mixer.Len() >= maxVoices {
		return
	}
	sm.mixer.Add(st)
}

// Cleanup stops every playing effect. The speaker stays open but silent.
func (sm *SoundManager) Cleanup() {
	if sm == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}
