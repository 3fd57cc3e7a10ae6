package spatial

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// StereoImager is engine id 45: per-band mid-side width control across three
// crossover bands (low/mid/high), for surgical image sculpting. 6 params.
type StereoImager struct {
	fx.Base
	lowLPL, lowLPR   dsp.Biquad
	highHPL, highHPR dsp.Biquad
	midBPL, midBPR   dsp.Biquad
}

var imagerParamNames = []string{"Low Width", "Mid Width", "High Width", "Low/Mid Split", "Mid/High Split", "Output Gain"}
var imagerDefaults = []float64{0.5, 0.5, 0.5, 0.25, 0.7, 0.5}

// NewStereoImager constructs engine id 45.
func NewStereoImager() *StereoImager {
	return &StereoImager{Base: fx.NewBase("Stereo Imager", imagerParamNames, imagerDefaults)}
}

func (e *StereoImager) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *StereoImager) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *StereoImager) Reset() {
	e.lowLPL.Reset()
	e.lowLPR.Reset()
	e.highHPL.Reset()
	e.highHPR.Reset()
	e.midBPL.Reset()
	e.midBPR.Reset()
	e.ResetSmoothers()
}

func (e *StereoImager) Process(buf *fx.Buffer) {
	n := buf.Len()
	const midQ = 0.5

	for i := 0; i < n; i++ {
		lowW := e.Param(0) * 2
		midW := e.Param(1) * 2
		highW := e.Param(2) * 2
		loFreq := dsp.HzFromNormalized(e.Param(3), 60, 500)
		hiFreq := dsp.HzFromNormalized(e.Param(4), 1000, 8000)
		outGain := dbToAmp((e.Param(5) - 0.5) * 12)

		e.lowLPL.Configure(dsp.BiquadLowpass, loFreq, 0.707, 0, e.SampleRate)
		e.lowLPR.Configure(dsp.BiquadLowpass, loFreq, 0.707, 0, e.SampleRate)
		e.highHPL.Configure(dsp.BiquadHighpass, hiFreq, 0.707, 0, e.SampleRate)
		e.highHPR.Configure(dsp.BiquadHighpass, hiFreq, 0.707, 0, e.SampleRate)
		midFreq := (loFreq + hiFreq) * 0.5
		e.midBPL.Configure(dsp.BiquadBandpass, midFreq, midQ, 0, e.SampleRate)
		e.midBPR.Configure(dsp.BiquadBandpass, midFreq, midQ, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lowL := e.lowLPL.Process(l)
		lowR := e.lowLPR.Process(r)
		highL := e.highHPL.Process(l)
		highR := e.highHPR.Process(r)
		midL := l - lowL - highL
		midR := r - lowR - highR

		wideLow := widenPair(lowL, lowR, lowW)
		wideMid := widenPair(midL, midR, midW)
		wideHigh := widenPair(highL, highR, highW)

		wetL := (wideLow.l + wideMid.l + wideHigh.l) * outGain
		wetR := (wideLow.r + wideMid.r + wideHigh.r) * outGain

		buf.L[i] = dsp.ScrubSample(float32(wetL))
		buf.R[i] = dsp.ScrubSample(float32(wetR))
	}
}

type stereoPair struct{ l, r float64 }

func widenPair(l, r, width float64) stereoPair {
	mid := (l + r) * 0.5
	side := (l - r) * 0.5 * width
	return stereoPair{l: mid + side, r: mid - side}
}
