package dsp

import "math"

// OnePole is a one-pole low-pass/high-pass filter shared by envelope
// followers, tone controls, and simple tilt stages across the catalogue.
type OnePole struct {
	coeff float64
	state float64
}

// NewOnePoleLowpass builds a one-pole low-pass tuned to cutoffHz at
// sampleRate.
func NewOnePoleLowpass(cutoffHz, sampleRate float64) *OnePole {
	p := &OnePole{}
	p.SetCutoff(cutoffHz, sampleRate)
	return p
}

// SetCutoff retunes the pole.
func (p *OnePole) SetCutoff(cutoffHz, sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if cutoffHz <= 0 {
		cutoffHz = 1
	}
	x := math.Exp(-2.0 * math.Pi * cutoffHz / sampleRate)
	p.coeff = x
}

// Lowpass advances the low-pass form by one sample.
func (p *OnePole) Lowpass(x float64) float64 {
	p.state = (1-p.coeff)*x + p.coeff*p.state
	p.state = FlushDenormal(p.state)
	return p.state
}

// Highpass advances the complementary high-pass form by one sample
// (input minus the low-pass estimate).
func (p *OnePole) Highpass(x float64) float64 {
	return x - p.Lowpass(x)
}

// Reset zeroes filter memory.
func (p *OnePole) Reset() { p.state = 0 }
