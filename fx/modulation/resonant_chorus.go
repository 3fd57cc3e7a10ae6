package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ResonantChorus is engine id 24: a chorus voice with a resonant feedback
// path and a post-filter tone control, giving a more metallic character
// than id 23's plain chorus. 7 params.
type ResonantChorus struct {
	fx.Base
	lineL, lineR   *dsp.DelayLine
	lfoL           dsp.LFO
	toneL, toneR   dsp.OnePole
}

var resChorusParamNames = []string{"Rate", "Depth", "Resonance", "Feedback", "Mix", "Stereo Width", "Tone"}
var resChorusDefaults = []float64{0.25, 0.5, 0.3, 0.3, 0.5, 0.5, 0.5}

// NewResonantChorus constructs engine id 24.
func NewResonantChorus() *ResonantChorus {
	return &ResonantChorus{Base: fx.NewBase("Resonant Chorus", resChorusParamNames, resChorusDefaults)}
}

func (e *ResonantChorus) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.04) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
	e.lfoL.SetShape(dsp.LFOSine)
}

func (e *ResonantChorus) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *ResonantChorus) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.lfoL.Reset()
	e.toneL.Reset()
	e.toneR.Reset()
	e.ResetSmoothers()
}

func (e *ResonantChorus) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		rateHz := dsp.RateFromNormalized(e.Param(0)) * 0.25
		depthMs := e.Param(1) * 8
		resonance := e.Param(2) * 0.9
		feedback := e.Param(3) * 0.6
		mix := e.Param(4)
		stereoWidth := e.Param(5)
		toneHz := dsp.HzFromNormalized(e.Param(6), 500, 10000)

		e.lfoL.SetRate(rateHz, e.SampleRate)
		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lfoVal := e.lfoL.Next()
		modL := (lfoVal + 1) * 0.5
		modR := modL*(1-stereoWidth) + (1-modL)*stereoWidth

		baseDelay := (8 + depthMs*0.5) * e.SampleRate / 1000
		delaySamplesL := baseDelay + modL*depthMs*e.SampleRate/1000
		delaySamplesR := baseDelay + modR*depthMs*e.SampleRate/1000

		wetL := e.toneL.Lowpass(e.lineL.Read(delaySamplesL))
		wetR := e.toneR.Lowpass(e.lineR.Read(delaySamplesR))
		fb := feedback + resonance*0.3
		e.lineL.Write(l + wetL*fb)
		e.lineR.Write(r + wetR*fb)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
