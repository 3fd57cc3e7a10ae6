package spatial

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// DimensionExpander is engine id 46: the classic Roland-style "dimension"
// effect, a short cross-fed modulated delay with no repeats, producing
// width without the comb-filtered smear of a chorus. 4 params.
type DimensionExpander struct {
	fx.Base
	delayL, delayR *dsp.DelayLine
	lfo            dsp.LFO
}

var dimensionParamNames = []string{"Depth", "Rate", "Crossfeed", "Mix"}
var dimensionDefaults = []float64{0.5, 0.3, 0.6, 0.5}

// NewDimensionExpander constructs engine id 46.
func NewDimensionExpander() *DimensionExpander {
	return &DimensionExpander{Base: fx.NewBase("Dimension Expander", dimensionParamNames, dimensionDefaults)}
}

func (e *DimensionExpander) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.03) + 4
	e.delayL = dsp.NewDelayLine(maxSamples)
	e.delayR = dsp.NewDelayLine(maxSamples)
	e.lfo.SetRate(0.3, sampleRate)
}

func (e *DimensionExpander) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *DimensionExpander) Reset() {
	e.delayL.Reset()
	e.delayR.Reset()
	e.lfo.Reset()
	e.ResetSmoothers()
}

func (e *DimensionExpander) Process(buf *fx.Buffer) {
	n := buf.Len()
	const baseMs = 6.0

	for i := 0; i < n; i++ {
		depth := e.Param(0)
		rateHz := 0.05 + e.Param(1)*1.95
		crossfeed := e.Param(2)
		mix := e.Param(3)

		e.lfo.SetRate(rateHz, e.SampleRate)
		depthMs := 4.0 * depth

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		mod := e.lfo.Next()
		delayMsL := baseMs + depthMs*mod
		delayMsR := baseMs + depthMs*-mod

		e.delayL.Write(l)
		e.delayR.Write(r)

		delayedL := e.delayL.Read(delayMsL * e.SampleRate / 1000)
		delayedR := e.delayR.Read(delayMsR * e.SampleRate / 1000)

		wetL := delayedL*(1-crossfeed) + delayedR*crossfeed
		wetR := delayedR*(1-crossfeed) + delayedL*crossfeed

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
