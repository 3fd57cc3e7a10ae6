// Package modulation implements the time-varying and pitch-based effects of
// spec §4.3.1 ids 23-33.
package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// DigitalChorus is engine id 23: a single-voice modulated delay with
// feedback and stereo-widened LFO phase offset. 5 params.
type DigitalChorus struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	lfoL         dsp.LFO
}

var chorusParamNames = []string{"Rate", "Depth", "Mix", "Feedback", "Stereo Width"}
var chorusDefaults = []float64{0.25, 0.5, 0.5, 0.1, 0.5}

// NewDigitalChorus constructs engine id 23.
func NewDigitalChorus() *DigitalChorus {
	return &DigitalChorus{Base: fx.NewBase("Digital Chorus", chorusParamNames, chorusDefaults)}
}

func (e *DigitalChorus) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.04) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
	e.lfoL.SetShape(dsp.LFOSine)
}

func (e *DigitalChorus) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *DigitalChorus) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.lfoL.Reset()
	e.ResetSmoothers()
}

func (e *DigitalChorus) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		rateHz := dsp.RateFromNormalized(e.Param(0)) * 0.25
		depthMs := e.Param(1) * 8
		mix := e.Param(2)
		feedback := e.Param(3) * 0.5
		stereoWidth := e.Param(4)

		e.lfoL.SetRate(rateHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lfoVal := e.lfoL.Next()
		modL := (lfoVal + 1) * 0.5
		modR := modL*(1-stereoWidth) + (1-modL)*stereoWidth

		baseDelay := (10 + depthMs*0.5) * e.SampleRate / 1000
		delaySamplesL := baseDelay + modL*depthMs*e.SampleRate/1000
		delaySamplesR := baseDelay + modR*depthMs*e.SampleRate/1000

		wetL := e.lineL.Read(delaySamplesL)
		wetR := e.lineR.Read(delaySamplesR)
		e.lineL.Write(l + wetL*feedback)
		e.lineR.Write(r + wetR*feedback)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
