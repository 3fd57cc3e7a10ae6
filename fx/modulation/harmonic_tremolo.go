package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// HarmonicTremolo is engine id 28: splits the signal into two bands at a
// crossover frequency and amplitude-modulates them with LFOs 180 degrees
// out of phase, the classic "harmonic" tremolo circuit. 5 params.
type HarmonicTremolo struct {
	fx.Base
	lowL, lowR   dsp.Biquad
	highL, highR dsp.Biquad
	lfo          dsp.LFO
}

var harmTremParamNames = []string{"Rate", "Depth", "Crossover", "Stereo Phase", "Mix"}
var harmTremDefaults = []float64{0.3, 0.7, 0.4, 0.0, 1.0}

// NewHarmonicTremolo constructs engine id 28.
func NewHarmonicTremolo() *HarmonicTremolo {
	return &HarmonicTremolo{Base: fx.NewBase("Harmonic Tremolo", harmTremParamNames, harmTremDefaults)}
}

func (e *HarmonicTremolo) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.lfo.SetShape(dsp.LFOSine)
}

func (e *HarmonicTremolo) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *HarmonicTremolo) Reset() {
	e.lowL.Reset()
	e.lowR.Reset()
	e.highL.Reset()
	e.highR.Reset()
	e.lfo.Reset()
	e.ResetSmoothers()
}

func (e *HarmonicTremolo) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		rateHz := dsp.RateFromNormalized(e.Param(0))
		depth := e.Param(1)
		crossoverHz := dsp.HzFromNormalized(e.Param(2), 200, 2000)
		stereoPhase := e.Param(3)
		mix := e.Param(4)

		e.lfo.SetRate(rateHz, e.SampleRate)
		e.lowL.Configure(dsp.BiquadLowpass, crossoverHz, 0.707, 0, e.SampleRate)
		e.lowR.Configure(dsp.BiquadLowpass, crossoverHz, 0.707, 0, e.SampleRate)
		e.highL.Configure(dsp.BiquadHighpass, crossoverHz, 0.707, 0, e.SampleRate)
		e.highR.Configure(dsp.BiquadHighpass, crossoverHz, 0.707, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lfoVal := e.lfo.Next()
		lowMod := 1 - depth*(lfoVal+1)*0.5
		highMod := 1 - depth*(1-(lfoVal+1)*0.5)
		rPhaseShift := 1.0
		if stereoPhase > 0.5 {
			rPhaseShift = -1.0
		}

		lowL := e.lowL.Process(l) * lowMod
		highL := e.highL.Process(l) * highMod
		lowR := e.lowR.Process(r) * (1 - depth*(1-(lfoVal*rPhaseShift+1)*0.5))
		highR := e.highR.Process(r) * (1 - depth*((lfoVal*rPhaseShift+1)*0.5))

		wetL := lowL + highL
		wetR := lowR + highR

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
