package filters

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// EnvelopeFilter is engine id 12: an auto-wah, a resonant bandpass swept by
// an envelope follower tracking the input level. 6 params.
type EnvelopeFilter struct {
	fx.Base
	env      dsp.EnvelopeFollower
	bpL, bpR dsp.Biquad
}

var envFilterParamNames = []string{"Sensitivity", "Attack", "Release", "Range", "Resonance", "Mix"}
var envFilterDefaults = []float64{0.5, 0.2, 0.3, 0.6, 0.5, 1.0}

// NewEnvelopeFilter constructs engine id 12.
func NewEnvelopeFilter() *EnvelopeFilter {
	return &EnvelopeFilter{Base: fx.NewBase("Envelope Filter", envFilterParamNames, envFilterDefaults)}
}

func (e *EnvelopeFilter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.retune()
}

func (e *EnvelopeFilter) retune() {
	attack := dsp.TimeFromNormalized(e.ParamTarget(1), 0.001, 0.1)
	release := dsp.TimeFromNormalized(e.ParamTarget(2), 0.02, 0.8)
	e.env.SetTimes(attack, release, e.SampleRate)
}

func (e *EnvelopeFilter) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *EnvelopeFilter) Reset() {
	e.env.Reset()
	e.bpL.Reset()
	e.bpR.Reset()
	e.ResetSmoothers()
}

func (e *EnvelopeFilter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		sensitivity := 0.5 + e.Param(0)*4.5
		rangeHz := 200 + e.Param(3)*6000
		q := 1 + e.Param(4)*14
		mix := e.Param(5)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		level := e.env.Process(math.Max(math.Abs(l), math.Abs(r)) * sensitivity)
		freq := dsp.Clamp(300+level*rangeHz, 100, 10000)

		e.bpL.Configure(dsp.BiquadBandpass, freq, q, 0, e.SampleRate)
		e.bpR.Configure(dsp.BiquadBandpass, freq, q, 0, e.SampleRate)

		wetL := e.bpL.Process(l)
		wetR := e.bpR.Process(r)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
