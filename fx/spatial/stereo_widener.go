// Package spatial implements the stereo-field and spectral engines of spec
// §4.3.1 ids 44-52.
package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// StereoWidener is engine id 44: mid-side width control with a bass-mono
// crossover that keeps low frequencies centered. Width = 0.5 is the neutral
// midpoint: while Width and Output Gain are both settled at 0.5, Process
// leaves the buffer untouched, bass-mono crossover included, so the output
// is the input bit-for-bit. 4 params.
type StereoWidener struct {
	fx.Base
	bassLPL, bassLPR dsp.Biquad
	bassHPL, bassHPR dsp.Biquad
}

var widenerParamNames = []string{"Width", "Bass Mono Freq", "Mix", "Output Gain"}
var widenerDefaults = []float64{0.5, 0.2, 1.0, 0.5}

// NewStereoWidener constructs engine id 44.
func NewStereoWidener() *StereoWidener {
	return &StereoWidener{Base: fx.NewBase("Stereo Widener", widenerParamNames, widenerDefaults)}
}

func (e *StereoWidener) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *StereoWidener) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *StereoWidener) Reset() {
	e.bassLPL.Reset()
	e.bassLPR.Reset()
	e.bassHPL.Reset()
	e.bassHPR.Reset()
	e.ResetSmoothers()
}

func (e *StereoWidener) Process(buf *fx.Buffer) {
	n := buf.Len()
	if e.ParamTarget(0) == 0.5 && e.Smoothers[0].Settled() &&
		e.ParamTarget(3) == 0.5 && e.Smoothers[3].Settled() {
		return // neutral width and gain: exact passthrough
	}

	for i := 0; i < n; i++ {
		width := e.Param(0) * 2
		bassFreq := dsp.HzFromNormalized(e.Param(1), 60, 400)
		mix := e.Param(2)
		outGain := dbToAmp((e.Param(3) - 0.5) * 12)

		e.bassLPL.Configure(dsp.BiquadLowpass, bassFreq, 0.707, 0, e.SampleRate)
		e.bassLPR.Configure(dsp.BiquadLowpass, bassFreq, 0.707, 0, e.SampleRate)
		e.bassHPL.Configure(dsp.BiquadHighpass, bassFreq, 0.707, 0, e.SampleRate)
		e.bassHPR.Configure(dsp.BiquadHighpass, bassFreq, 0.707, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		mid := (l + r) * 0.5
		side := (l - r) * 0.5 * width

		wideL := mid + side
		wideR := mid - side

		bassL := e.bassLPL.Process(l)
		bassR := e.bassLPR.Process(r)
		bassMono := (bassL + bassR) * 0.5
		hiWideL := e.bassHPL.Process(wideL)
		hiWideR := e.bassHPR.Process(wideR)

		wetL := (bassMono + hiWideL) * outGain
		wetR := (bassMono + hiWideR) * outGain

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

func dbToAmp(db float64) float64 {
	return dsp.Clamp(math.Pow(10, db/20), 0, 100)
}
