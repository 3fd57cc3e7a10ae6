package distortion

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// RodentDistortion is engine id 21: an op-amp-clipper-style distortion with
// a post-clip low-pass filter, modeled on the classic rat-pedal topology.
// 3 params.
type RodentDistortion struct {
	fx.Base
	filterL, filterR dsp.OnePole
	dcL, dcR         dsp.DCBlocker
}

var rodentParamNames = []string{"Gain", "Filter", "Mix"}
var rodentDefaults = []float64{0.5, 0.5, 1.0}

// NewRodentDistortion constructs engine id 21.
func NewRodentDistortion() *RodentDistortion {
	return &RodentDistortion{Base: fx.NewBase("Rodent Distortion", rodentParamNames, rodentDefaults)}
}

func (e *RodentDistortion) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *RodentDistortion) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *RodentDistortion) Reset() {
	e.filterL.Reset()
	e.filterR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *RodentDistortion) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		gain := 1 + e.Param(0)*99
		filterHz := dsp.HzFromNormalized(1-e.Param(1), 500, 10000)
		mix := e.Param(2)
		e.filterL.SetCutoff(filterHz, e.SampleRate)
		e.filterR.SetCutoff(filterHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		clippedL := math.Tanh(l * gain)
		clippedR := math.Tanh(r * gain)
		filteredL := e.filterL.Lowpass(clippedL)
		filteredR := e.filterR.Lowpass(clippedR)
		wetL := e.dcL.Process(filteredL) * 0.5
		wetR := e.dcR.Process(filteredR) * 0.5

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
