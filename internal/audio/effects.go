// Package audio synthesizes short cues for controller events with beep.
// Nothing here is loaded from disk; every cue is generated on demand.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// sweep is an oscillator whose pitch glides linearly from one frequency to
// another over its lifetime.
type sweep struct {
	from, to float64
	wave     Wave
	rate     beep.SampleRate
	total    int
	pos      int
	phase    float64
	rng      *rand.Rand
}

// NewSweep returns a finite tone gliding from one frequency to another.
// A constant pitch is a sweep with from == to.
func NewSweep(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &sweep{
		from:  from,
		to:    to,
		wave:  wave,
		rate:  rate,
		total: rate.N(d),
		rng:   rand.New(rand.NewSource(int64(from*1000 + to))),
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		var v float64
		switch s.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * s.phase)
		case WaveSquare:
			v = 1
			if s.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(s.phase-0.5) - 1
		case WaveNoise:
			v = s.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		f := s.from + (s.to-s.from)*float64(s.pos)/float64(s.total)
		s.phase += f / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// decay shapes a stream with a linear attack and an exponential tail.
type decay struct {
	s      beep.Streamer
	attack int
	tau    float64 // tail time constant in samples
	pos    int
}

// NewDecay wraps s with a short fade-in and an exponential fade-out.
func NewDecay(s beep.Streamer, attack, tail time.Duration, rate beep.SampleRate) beep.Streamer {
	tau := float64(rate.N(tail))
	if tau < 1 {
		tau = 1
	}
	return &decay{s: s, attack: rate.N(attack), tau: tau}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if d.pos < d.attack {
			gain = float64(d.pos) / float64(d.attack)
		} else {
			gain = math.Exp(-float64(d.pos-d.attack) / d.tau)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

// withGain scales s by a linear gain. Zero or less is silent.
func withGain(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// jumpSound is a short rising square chirp.
func jumpSound(rate beep.SampleRate, gain float64) beep.Streamer {
	const d = 120 * time.Millisecond
	tone := NewDecay(NewSweep(330, 660, d, WaveSquare, rate), 5*time.Millisecond, 60*time.Millisecond, rate)
	return withGain(tone, 0.25*gain)
}

// landSound is a low thump: a falling sine under a burst of noise. Harder
// impacts are louder.
func landSound(rate beep.SampleRate, gain float64) beep.Streamer {
	const d = 140 * time.Millisecond
	body := NewDecay(NewSweep(140, 60, d, WaveSine, rate), 2*time.Millisecond, 50*time.Millisecond, rate)
	grit := NewDecay(NewSweep(0, 0, d/2, WaveNoise, rate), time.Millisecond, 15*time.Millisecond, rate)
	return withGain(beep.Mix(withGain(body, 0.8), withGain(grit, 0.3)), 0.5*gain)
}

// bounceSound is a triangle blip; its pitch drops as the impact slows.
func bounceSound(rate beep.SampleRate, gain, pitch float64) beep.Streamer {
	const d = 90 * time.Millisecond
	tone := NewDecay(NewSweep(pitch, pitch*0.75, d, WaveTriangle, rate), 2*time.Millisecond, 30*time.Millisecond, rate)
	return withGain(tone, 0.35*gain)
}
