package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ClassicTremolo is engine id 29: straightforward full-band amplitude
// modulation with a selectable LFO shape. 4 params.
type ClassicTremolo struct {
	fx.Base
	lfo dsp.LFO
}

var classicTremParamNames = []string{"Rate", "Depth", "Shape", "Mix"}
var classicTremDefaults = []float64{0.3, 0.6, 0.0, 1.0}

// NewClassicTremolo constructs engine id 29.
func NewClassicTremolo() *ClassicTremolo {
	return &ClassicTremolo{Base: fx.NewBase("Classic Tremolo", classicTremParamNames, classicTremDefaults)}
}

func (e *ClassicTremolo) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *ClassicTremolo) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *ClassicTremolo) Reset()                                       { e.lfo.Reset(); e.ResetSmoothers() }

func (e *ClassicTremolo) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		rateHz := dsp.RateFromNormalized(e.Param(0))
		depth := e.Param(1)
		shapeP := e.Param(2)
		mix := e.Param(3)

		shape := dsp.LFOSine
		switch {
		case shapeP > 0.66:
			shape = dsp.LFOSquare
		case shapeP > 0.33:
			shape = dsp.LFOTriangle
		}
		e.lfo.SetShape(shape)
		e.lfo.SetRate(rateHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lfoVal := e.lfo.Next()
		gain := 1 - depth*(1-(lfoVal+1)*0.5)

		wetL := l * gain
		wetR := r * gain

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
