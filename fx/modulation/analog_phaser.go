package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// AnalogPhaser is engine id 25: a cascaded-allpass phaser with feedback and
// an independent stereo phase offset between channels. 7 params.
type AnalogPhaser struct {
	fx.Base
	stagesL, stagesR [6]dsp.Biquad
	lfo              dsp.LFO
	feedbackL        float64
	feedbackR        float64
}

var phaserParamNames = []string{"Rate", "Depth", "Feedback", "Stages", "Center Freq", "Mix", "Stereo Phase"}
var phaserDefaults = []float64{0.2, 0.6, 0.3, 0.66, 0.5, 0.5, 0.5}

// NewAnalogPhaser constructs engine id 25.
func NewAnalogPhaser() *AnalogPhaser {
	return &AnalogPhaser{Base: fx.NewBase("Analog Phaser", phaserParamNames, phaserDefaults)}
}

func (e *AnalogPhaser) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.lfo.SetShape(dsp.LFOTriangle)
}

func (e *AnalogPhaser) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *AnalogPhaser) Reset() {
	for i := range e.stagesL {
		e.stagesL[i].Reset()
		e.stagesR[i].Reset()
	}
	e.lfo.Reset()
	e.feedbackL, e.feedbackR = 0, 0
	e.ResetSmoothers()
}

func (e *AnalogPhaser) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		rateHz := dsp.RateFromNormalized(e.Param(0)) * 0.5
		depth := e.Param(1)
		feedback := e.Param(2) * 0.9
		numStages := 2 + int(e.Param(3)*4)
		if numStages > 6 {
			numStages = 6
		}
		centerFreq := dsp.HzFromNormalized(e.Param(4), 200, 2000)
		mix := e.Param(5)
		stereoPhase := e.Param(6)

		e.lfo.SetRate(rateHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lfoVal := e.lfo.Next()
		sweepL := centerFreq * (1 + depth*lfoVal)
		sweepR := centerFreq * (1 + depth*(lfoVal*(1-stereoPhase)-(1-lfoVal)*stereoPhase))
		sweepL = dsp.Clamp(sweepL, 50, 8000)
		sweepR = dsp.Clamp(sweepR, 50, 8000)

		inputL := l + e.feedbackL*feedback
		inputR := r + e.feedbackR*feedback
		wetL := inputL
		wetR := inputR
		for s := 0; s < numStages; s++ {
			e.stagesL[s].Configure(dsp.BiquadAllpass, sweepL, 0.7, 0, e.SampleRate)
			e.stagesR[s].Configure(dsp.BiquadAllpass, sweepR, 0.7, 0, e.SampleRate)
			wetL = e.stagesL[s].Process(wetL)
			wetR = e.stagesR[s].Process(wetR)
		}
		e.feedbackL = wetL
		e.feedbackR = wetR

		outL := (l+wetL)*0.5*mix + l*(1-mix)
		outR := (r+wetR)*0.5*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
