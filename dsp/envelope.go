package dsp

import "math"

// EnvelopeFollower tracks the magnitude of a signal with independent
// attack/release one-pole smoothing, the building block of every dynamics
// engine's gain computer (spec §4.3.2, dynamics contract).
type EnvelopeFollower struct {
	attackCoeff  float64
	releaseCoeff float64
	level        float64
}

// SetTimes sets attack/release in seconds at the given sample rate. The
// spec measures attack/release as time-to-63%-of-steady-state, which a
// one-pole's natural time constant gives directly.
func (e *EnvelopeFollower) SetTimes(attackSec, releaseSec, sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if attackSec <= 0 {
		attackSec = 0.001
	}
	if releaseSec <= 0 {
		releaseSec = 0.001
	}
	e.attackCoeff = math.Exp(-1.0 / (attackSec * sampleRate))
	e.releaseCoeff = math.Exp(-1.0 / (releaseSec * sampleRate))
}

// Process advances the follower with a rectified input sample and returns
// the current envelope level.
func (e *EnvelopeFollower) Process(rectified float64) float64 {
	coeff := e.releaseCoeff
	if rectified > e.level {
		coeff = e.attackCoeff
	}
	e.level = coeff*e.level + (1-coeff)*rectified
	e.level = FlushDenormal(e.level)
	return e.level
}

// Reset zeroes the envelope.
func (e *EnvelopeFollower) Reset() { e.level = 0 }

// Level returns the current value without advancing.
func (e *EnvelopeFollower) Level() float64 { return e.level }

// TimeFromNormalized maps a [0,1] parameter to a time in seconds across
// an exponential range, used for attack/release/decay/delay-time mappings
// throughout the catalogue (spec §4.3.2: times map exponentially).
func TimeFromNormalized(p, loSec, hiSec float64) float64 {
	p = Clamp01(p)
	if loSec <= 0 {
		loSec = 0.0001
	}
	return loSec * math.Pow(hiSec/loSec, p)
}

// HzFromNormalized maps a [0,1] parameter to a frequency in Hz across an
// exponential range, used for filter cutoffs and oscillator rates.
func HzFromNormalized(p, loHz, hiHz float64) float64 {
	return TimeFromNormalized(p, loHz, hiHz)
}
