package modulation

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// RingModulator is engine id 26: multiplies the input by an internal
// oscillator, optionally square-shaped for a harder metallic character.
// 3 params.
type RingModulator struct {
	fx.Base
	phase float64
}

var ringModParamNames = []string{"Frequency", "Mix", "Shape"}
var ringModDefaults = []float64{0.3, 0.5, 0.0}

// NewRingModulator constructs engine id 26.
func NewRingModulator() *RingModulator {
	return &RingModulator{Base: fx.NewBase("Ring Modulator", ringModParamNames, ringModDefaults)}
}

func (e *RingModulator) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *RingModulator) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *RingModulator) Reset()                                       { e.phase = 0; e.ResetSmoothers() }

func (e *RingModulator) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		freq := dsp.HzFromNormalized(e.Param(0), 20, 5000)
		mix := e.Param(1)
		shape := e.Param(2)
		inc := freq / e.SampleRate

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		osc := math.Sin(2 * math.Pi * e.phase)
		if shape > 0.5 {
			if osc >= 0 {
				osc = 1
			} else {
				osc = -1
			}
		}
		e.phase += inc
		if e.phase >= 1 {
			e.phase -= math.Floor(e.phase)
		}

		wetL := l * osc
		wetR := r * osc

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
