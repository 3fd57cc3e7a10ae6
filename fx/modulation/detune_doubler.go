package modulation

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// DetuneDoubler is engine id 32: layers a slightly detuned, delayed copy of
// each channel onto that same channel, detuned in opposite directions on
// left and right, to widen and thicken it, an ADT-style doubling effect.
// 5 params.
type DetuneDoubler struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	phaseL, phaseR float64
}

var detuneParamNames = []string{"Detune", "Delay", "Mix", "Stereo Width", "Feedback"}
var detuneDefaults = []float64{0.4, 0.3, 0.5, 0.8, 0.0}

// NewDetuneDoubler constructs engine id 32.
func NewDetuneDoubler() *DetuneDoubler {
	return &DetuneDoubler{Base: fx.NewBase("Detune Doubler", detuneParamNames, detuneDefaults)}
}

func (e *DetuneDoubler) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.06) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *DetuneDoubler) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *DetuneDoubler) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.phaseL, e.phaseR = 0, 0
	e.ResetSmoothers()
}

func (e *DetuneDoubler) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		detuneCents := e.Param(0) * 40
		delayMs := 10 + e.Param(1)*40
		mix := e.Param(2)
		stereoWidth := e.Param(3)
		feedback := e.Param(4) * 0.4

		rateL := detuneCents * 0.02
		rateR := -detuneCents * 0.02 * stereoWidth

		baseDelay := delayMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.phaseL += rateL / e.SampleRate
		e.phaseR += rateR / e.SampleRate

		wobbleL := 3 * math.Sin(2*math.Pi*e.phaseL)
		wobbleR := 3 * math.Sin(2*math.Pi*e.phaseR)

		delayedL := e.lineL.Read(baseDelay + wobbleL)
		delayedR := e.lineR.Read(baseDelay + wobbleR)

		e.lineL.Write(l + delayedL*feedback)
		e.lineR.Write(r + delayedR*feedback)

		wetL := l*(1-stereoWidth) + delayedL*stereoWidth
		wetR := r*(1-stereoWidth) + delayedR*stereoWidth

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
