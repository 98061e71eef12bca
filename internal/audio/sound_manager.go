package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a sound the manager knows how to play.
type Cue int

const (
	CueNone Cue = iota
	CueJump
	CueLand
	CueBounce
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueLand:
		return "land"
	case CueBounce:
		return "bounce"
	default:
		return "none"
	}
}

// cueGap is the minimum number of ticks between two plays of the same cue.
// A body resting against a wall can bounce every tick; one blip is enough.
const cueGap = 4

// CueFor maps a controller event to a cue and a 0..1 intensity.
func CueFor(e physics.Event) (Cue, float64) {
	switch e.Kind {
	case physics.EventJump:
		return CueJump, 1
	case physics.EventLand:
		return CueLand, intensity(e.Value, 12)
	case physics.EventBounce:
		if e.Value < 0.05 {
			return CueNone, 0
		}
		return CueBounce, intensity(e.Value, 8)
	default:
		return CueNone, 0
	}
}

// intensity maps an impact speed onto [0.2, 1], full at speed >= full.
func intensity(speed, full float64) float64 {
	return 0.2 + 0.8*math.Min(1, math.Abs(speed)/full)
}

// SoundManager owns the speaker and mixes cues into it. Every method is
// safe to call before Initialize or after it failed; nothing is played.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	lastTick    map[Cue]int
	played      map[Cue]int
}

// NewSoundManager returns an uninitialized, silent manager.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:    &beep.Mixer{},
		lastTick: map[Cue]int{},
		played:   map[Cue]int{},
	}
}

// Initialize opens the audio device. A second call is a no-op. On error
// the manager stays silent and the caller may carry on without sound.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup drops queued sounds and silences the manager.
func (sm *SoundManager) Cleanup() {
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

// SetMuted toggles output without closing the device.
func (sm *SoundManager) SetMuted(m bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = m
}

// Muted reports whether output is muted.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Attach plays cues for every event c raises.
func (sm *SoundManager) Attach(c *physics.Controller) {
	c.Subscribe(sm.HandleEvent)
}

// HandleEvent plays the cue for e, if any.
func (sm *SoundManager) HandleEvent(e physics.Event) {
	cue, level := CueFor(e)
	if cue == CueNone {
		return
	}
	sm.play(cue, level, e.Value, e.Tick)
}

// Played returns how many times cue has been accepted for playback. Cues
// are counted even when no device is open.
func (sm *SoundManager) Played(cue Cue) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played[cue]
}

func (sm *SoundManager) play(cue Cue, level, speed float64, tick int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if last, ok := sm.lastTick[cue]; ok && tick >= last && tick-last < cueGap {
		return
	}
	sm.lastTick[cue] = tick
	sm.played[cue]++

	if !sm.initialized || sm.muted {
		return
	}
	var s beep.Streamer
	switch cue {
	case CueJump:
		s = jumpSound(sampleRate, level)
	case CueLand:
		s = landSound(sampleRate, level)
	case CueBounce:
		s = bounceSound(sampleRate, level, 400+60*math.Min(speed, 10))
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
