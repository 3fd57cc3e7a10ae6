package filters

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// CombResonator is engine id 13: a tuned feedback comb filter with a damping
// lowpass in the loop, giving a ringing resonant pitch. 4 params.
type CombResonator struct {
	fx.Base
	lineL, lineR   *dsp.DelayLine
	dampL, dampR   dsp.OnePole
}

var combParamNames = []string{"Frequency", "Feedback", "Damping", "Mix"}
var combDefaults = []float64{0.4, 0.5, 0.3, 0.5}

// NewCombResonator constructs engine id 13.
func NewCombResonator() *CombResonator {
	return &CombResonator{Base: fx.NewBase("Comb Resonator", combParamNames, combDefaults)}
}

func (e *CombResonator) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate/30) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *CombResonator) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *CombResonator) Reset() {
	if e.lineL != nil {
		e.lineL.Reset()
		e.lineR.Reset()
	}
	e.dampL.Reset()
	e.dampR.Reset()
	e.ResetSmoothers()
}

func (e *CombResonator) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		freq := dsp.HzFromNormalized(e.Param(0), 30, 2000)
		feedback := dsp.Clamp(e.Param(1), 0, 0.95)
		dampHz := dsp.HzFromNormalized(1-e.Param(2), 500, 16000)
		mix := e.Param(3)

		delaySamples := e.SampleRate / freq
		e.dampL.SetCutoff(dampHz, e.SampleRate)
		e.dampR.SetCutoff(dampHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		delayedL := e.lineL.Read(delaySamples)
		delayedR := e.lineR.Read(delaySamples)
		dampedL := e.dampL.Lowpass(delayedL)
		dampedR := e.dampR.Lowpass(delayedR)
		e.lineL.Write(l + dampedL*feedback)
		e.lineR.Write(r + dampedR*feedback)

		outL := delayedL*mix + l*(1-mix)
		outR := delayedR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
