// Package filters implements the EQ and filter engines of spec §4.3.1 ids
// 7-14.
package filters

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ParametricEQ is engine id 7: a three-band fully parametric EQ (low shelf,
// mid peak, high shelf). 9 params.
type ParametricEQ struct {
	fx.Base
	lowL, lowR   dsp.Biquad
	midL, midR   dsp.Biquad
	highL, highR dsp.Biquad
}

var parametricParamNames = []string{
	"Low Freq", "Low Gain", "Mid Freq", "Mid Gain", "Mid Q", "High Freq", "High Gain", "Output Gain", "Mix",
}
var parametricDefaults = []float64{0.15, 0.5, 0.5, 0.5, 0.35, 0.8, 0.5, 0.5, 1.0}

// NewParametricEQ constructs engine id 7.
func NewParametricEQ() *ParametricEQ {
	return &ParametricEQ{Base: fx.NewBase("Parametric EQ", parametricParamNames, parametricDefaults)}
}

func (e *ParametricEQ) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
}

func (e *ParametricEQ) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }

func (e *ParametricEQ) Reset() {
	e.lowL.Reset()
	e.lowR.Reset()
	e.midL.Reset()
	e.midR.Reset()
	e.highL.Reset()
	e.highR.Reset()
	e.ResetSmoothers()
}

func (e *ParametricEQ) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		lowFreq := dsp.HzFromNormalized(e.Param(0), 30, 400)
		lowGain := (e.Param(1) - 0.5) * 30
		midFreq := dsp.HzFromNormalized(e.Param(2), 200, 8000)
		midGain := (e.Param(3) - 0.5) * 30
		midQ := 0.2 + e.Param(4)*9.8
		highFreq := dsp.HzFromNormalized(e.Param(5), 2000, 18000)
		highGain := (e.Param(6) - 0.5) * 30
		outGain := dbToAmp((e.Param(7) - 0.5) * 24)
		mix := e.Param(8)

		e.lowL.Configure(dsp.BiquadLowShelf, lowFreq, 0.707, lowGain, e.SampleRate)
		e.lowR.Configure(dsp.BiquadLowShelf, lowFreq, 0.707, lowGain, e.SampleRate)
		e.midL.Configure(dsp.BiquadPeak, midFreq, midQ, midGain, e.SampleRate)
		e.midR.Configure(dsp.BiquadPeak, midFreq, midQ, midGain, e.SampleRate)
		e.highL.Configure(dsp.BiquadHighShelf, highFreq, 0.707, highGain, e.SampleRate)
		e.highR.Configure(dsp.BiquadHighShelf, highFreq, 0.707, highGain, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		wetL := e.highL.Process(e.midL.Process(e.lowL.Process(l))) * outGain
		wetR := e.highR.Process(e.midR.Process(e.lowR.Process(r))) * outGain

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}
