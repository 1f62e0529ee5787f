package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

// Cue identifies a synthesized sound effect.
type Cue int

const (
	CueAttach Cue = iota
	CueRelease
	CueKnockback
)

func (c Cue) String() string {
	switch c {
	case CueAttach:
		return "attach"
	case CueRelease:
		return "release"
	case CueKnockback:
		return "knockback"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// note is one enveloped sine tone of a cue.
type note struct {
	freq     float64
	duration time.Duration
	attack   time.Duration
	release  time.Duration
}

// notes returns the tones making up a cue. intensity in [0, 1] raises the
// pitch, so faster releases sound brighter.
func (c Cue) notes(intensity float64) []note {
	lift := 1 + 0.5*clamp(intensity, 0, 1)
	switch c {
	case CueAttach:
		return []note{
			{freq: 660, duration: 45 * time.Millisecond, attack: 3 * time.Millisecond, release: 20 * time.Millisecond},
			{freq: 990, duration: 70 * time.Millisecond, attack: 3 * time.Millisecond, release: 50 * time.Millisecond},
		}
	case CueRelease:
		return []note{
			{freq: 520 * lift, duration: 110 * time.Millisecond, attack: 2 * time.Millisecond, release: 90 * time.Millisecond},
		}
	case CueKnockback:
		return []note{
			{freq: 180, duration: 90 * time.Millisecond, attack: 1 * time.Millisecond, release: 60 * time.Millisecond},
			{freq: 120, duration: 120 * time.Millisecond, attack: 1 * time.Millisecond, release: 100 * time.Millisecond},
		}
	}
	return nil
}

// synthesize renders the cue as a finite streamer at the given rate.
func (c Cue) synthesize(rate beep.SampleRate, intensity float64) (beep.Streamer, error) {
	notes := c.notes(intensity)
	if len(notes) == 0 {
		return nil, fmt.Errorf("unknown cue %v", c)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(rate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("%v cue: %w", c, err)
		}
		parts = append(parts, newEnvelope(beep.Take(rate.N(n.duration), tone), rate, n))
	}
	return beep.Seq(parts...), nil
}

// envelope applies a linear attack and release to a finite stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, rate beep.SampleRate, n note) *envelope {
	return &envelope{
		streamer: s,
		attack:   rate.N(n.attack),
		release:  rate.N(n.release),
		total:    rate.N(n.duration),
	}
}

func (e *envelope) gain() float64 {
	g := 1.0
	if e.attack > 0 && e.position < e.attack {
		g = float64(e.position) / float64(e.attack)
	}
	if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
		g = min(g, float64(remaining)/float64(e.release))
	}
	return max(g, 0)
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain()
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
