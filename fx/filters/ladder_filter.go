package filters

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// LadderFilter is engine id 9: a four-pole resonant lowpass built from
// cascaded one-pole stages with a feedback path, modeled on the classic
// transistor-ladder topology, with an envelope-follower-driven cutoff
// offset. 6 params.
type LadderFilter struct {
	fx.Base
	stagesL, stagesR [4]dsp.OnePole
	env              dsp.EnvelopeFollower
	feedbackL        float64
	feedbackR        float64
}

var ladderParamNames = []string{"Cutoff", "Resonance", "Drive", "Env Amount", "Slope", "Mix"}
var ladderDefaults = []float64{0.5, 0.3, 0.2, 0.0, 1.0, 1.0}

// NewLadderFilter constructs engine id 9.
func NewLadderFilter() *LadderFilter {
	return &LadderFilter{Base: fx.NewBase("Ladder Filter", ladderParamNames, ladderDefaults)}
}

func (e *LadderFilter) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *LadderFilter) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *LadderFilter) Reset() {
	for i := range e.stagesL {
		e.stagesL[i].Reset()
		e.stagesR[i].Reset()
	}
	e.env.Reset()
	e.feedbackL, e.feedbackR = 0, 0
	e.ResetSmoothers()
}

func (e *LadderFilter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		baseCutoff := dsp.HzFromNormalized(e.Param(0), 40, 16000)
		resonance := e.Param(1) * 3.8
		drive := 1 + e.Param(2)*8
		envAmount := e.Param(3) * 6000
		slope := 1
		if e.Param(4) > 0.5 {
			slope = 2
		}
		mix := e.Param(5)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		level := e.env.Process((abs(l) + abs(r)) * 0.5)
		cutoff := dsp.Clamp(baseCutoff+level*envAmount, 20, 19000)

		for s := 0; s < 4; s++ {
			e.stagesL[s].SetCutoff(cutoff, e.SampleRate)
			e.stagesR[s].SetCutoff(cutoff, e.SampleRate)
		}

		inputL := dsp.SoftClip((l-e.feedbackL*resonance)*drive) / drive
		inputR := dsp.SoftClip((r-e.feedbackR*resonance)*drive) / drive

		stagesToUse := 4
		if slope == 1 {
			stagesToUse = 2
		}
		wetL := inputL
		wetR := inputR
		for s := 0; s < stagesToUse; s++ {
			wetL = e.stagesL[s].Lowpass(wetL)
			wetR = e.stagesR[s].Lowpass(wetR)
		}
		e.feedbackL = wetL
		e.feedbackR = wetR

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
