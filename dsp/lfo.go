package dsp

import "math"

// LFOShape selects the waveform an LFO produces.
type LFOShape int

const (
	LFOSine LFOShape = iota
	LFOTriangle
	LFOSquare
)

// LFO is a free-running low frequency oscillator used by the modulation
// category (chorus, phaser, tremolo, rotary speaker...). Rate maps
// exponentially across 0.01..20 Hz per spec §4.3.2.
type LFO struct {
	phase      float64
	incPerSamp float64
	shape      LFOShape
}

// SetRate sets the oscillator frequency in Hz at the given sample rate.
func (l *LFO) SetRate(hz, sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	l.incPerSamp = hz / sampleRate
}

// SetShape selects the waveform.
func (l *LFO) SetShape(s LFOShape) { l.shape = s }

// Next advances the oscillator by one sample and returns a value in
// [-1, 1].
func (l *LFO) Next() float64 {
	var v float64
	switch l.shape {
	case LFOTriangle:
		v = 4*math.Abs(l.phase-math.Floor(l.phase+0.5)) - 1
	case LFOSquare:
		if l.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	default:
		v = math.Sin(2 * math.Pi * l.phase)
	}
	l.phase += l.incPerSamp
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
	}
	return v
}

// Reset restarts the phase at zero.
func (l *LFO) Reset() { l.phase = 0 }

// RateFromNormalized maps a normalized [0,1] parameter to the 0.01..20 Hz
// exponential range spec §4.3.2 mandates for modulation-category rate
// parameters.
func RateFromNormalized(p float64) float64 {
	p = Clamp01(p)
	const lo, hi = 0.01, 20.0
	return lo * math.Pow(hi/lo, p)
}
