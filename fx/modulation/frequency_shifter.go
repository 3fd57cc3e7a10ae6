package modulation

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// FrequencyShifter is engine id 27: a single-sideband shifter approximated
// with a Hilbert-style quadrature pair built from cascaded allpass filters,
// shifting every partial by a fixed Hz offset rather than a musical ratio.
// 3 params.
type FrequencyShifter struct {
	fx.Base
	hilbertA, hilbertB [4]dsp.Biquad
	phase              float64
	feedbackL          float64
}

var freqShiftParamNames = []string{"Shift", "Mix", "Feedback"}
var freqShiftDefaults = []float64{0.5, 0.5, 0.0}

// NewFrequencyShifter constructs engine id 27.
func NewFrequencyShifter() *FrequencyShifter {
	return &FrequencyShifter{Base: fx.NewBase("Frequency Shifter", freqShiftParamNames, freqShiftDefaults)}
}

func (e *FrequencyShifter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	centers := []float64{200, 800, 3000, 8000}
	for i, c := range centers {
		e.hilbertA[i].Configure(dsp.BiquadAllpass, c, 0.5, 0, sampleRate)
		e.hilbertB[i].Configure(dsp.BiquadAllpass, c*1.2, 0.5, 0, sampleRate)
	}
}

func (e *FrequencyShifter) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *FrequencyShifter) Reset() {
	for i := range e.hilbertA {
		e.hilbertA[i].Reset()
		e.hilbertB[i].Reset()
	}
	e.phase = 0
	e.feedbackL = 0
	e.ResetSmoothers()
}

func (e *FrequencyShifter) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		shiftHz := (e.Param(0) - 0.5) * 2000
		mix := e.Param(1)
		feedback := e.Param(2) * 0.5
		inc := shiftHz / e.SampleRate

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		mono := (l+r)*0.5 + e.feedbackL*feedback

		inPhase := mono
		quadrature := mono
		for s := 0; s < 4; s++ {
			inPhase = e.hilbertA[s].Process(inPhase)
			quadrature = e.hilbertB[s].Process(quadrature)
		}

		cosP := math.Cos(2 * math.Pi * e.phase)
		sinP := math.Sin(2 * math.Pi * e.phase)
		e.phase += inc
		if e.phase >= 1 {
			e.phase -= math.Floor(e.phase)
		} else if e.phase < 0 {
			e.phase -= math.Floor(e.phase)
		}

		shifted := inPhase*cosP - quadrature*sinP
		e.feedbackL = shifted

		outL := shifted*mix + l*(1-mix)
		outR := shifted*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
