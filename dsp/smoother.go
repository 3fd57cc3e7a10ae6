package dsp

import "math"

// Smoother ramps a parameter's effective value toward a target with a
// one-pole lag, so a control-thread parameter edit never steps the signal
// path abruptly (spec §4.1, "Parameter smoother"; §8 property 9, no click
// exceeding 6 dB on a single sample).
type Smoother struct {
	current float64
	target  float64
	coeff   float64
}

// NewSmoother creates a smoother already settled at initial.
func NewSmoother(initial float64) *Smoother {
	s := &Smoother{current: initial, target: initial}
	s.SetTimeConstant(10*0.001, 48000)
	return s
}

// SetTimeConstant retunes the ramp for a given time constant (seconds) at
// the given sample rate. Engines call this from Prepare with something in
// the 5-20ms band the contract specifies.
func (s *Smoother) SetTimeConstant(seconds, sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if seconds <= 0 {
		seconds = 0.01
	}
	s.coeff = math.Exp(-1.0 / (seconds * sampleRate))
}

// SetTarget sets where the value is ramping to.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
}

// SetImmediate snaps current and target to the same value, with no ramp.
// Used by Reset and by initial parameter application, where a click cannot
// occur because no audio has played yet.
func (s *Smoother) SetImmediate(value float64) {
	s.current = value
	s.target = value
}

// Next advances one sample toward the target and returns the new value.
func (s *Smoother) Next() float64 {
	s.current = s.target + (s.current-s.target)*s.coeff
	s.current = FlushDenormal(s.current)
	return s.current
}

// Current returns the value without advancing.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the current target.
func (s *Smoother) Target() float64 { return s.target }

// Settled reports whether current has converged close enough to target
// that callers can skip the per-sample ramp (a cheap fast path for blocks
// where nothing changed since the prior call).
func (s *Smoother) Settled() bool {
	return math.Abs(s.current-s.target) < 1e-7
}
