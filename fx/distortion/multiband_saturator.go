package distortion

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MultibandSaturator is engine id 19: splits the signal into low/mid/high
// bands with Linkwitz-Riley-style crossovers and saturates each
// independently before summing. 6 params.
type MultibandSaturator struct {
	fx.Base
	loLPL, loLPR     dsp.Biquad
	hiHPL, hiHPR     dsp.Biquad
	midLPL, midLPR   dsp.Biquad
	midHPL, midHPR   dsp.Biquad
	dcL, dcR         dsp.DCBlocker
}

var multibandParamNames = []string{"Low Drive", "Mid Drive", "High Drive", "Crossover Low", "Crossover High", "Mix"}
var multibandDefaults = []float64{0.3, 0.3, 0.3, 0.2, 0.7, 1.0}

// NewMultibandSaturator constructs engine id 19.
func NewMultibandSaturator() *MultibandSaturator {
	return &MultibandSaturator{Base: fx.NewBase("Multiband Saturator", multibandParamNames, multibandDefaults)}
}

func (e *MultibandSaturator) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *MultibandSaturator) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *MultibandSaturator) Reset() {
	e.loLPL.Reset()
	e.loLPR.Reset()
	e.hiHPL.Reset()
	e.hiHPR.Reset()
	e.midLPL.Reset()
	e.midLPR.Reset()
	e.midHPL.Reset()
	e.midHPR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *MultibandSaturator) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		lowDrive := 1 + e.Param(0)*9
		midDrive := 1 + e.Param(1)*9
		highDrive := 1 + e.Param(2)*9
		xoverLo := dsp.HzFromNormalized(e.Param(3), 60, 500)
		xoverHi := dsp.HzFromNormalized(e.Param(4), 1000, 8000)
		mix := e.Param(5)

		e.loLPL.Configure(dsp.BiquadLowpass, xoverLo, 0.707, 0, e.SampleRate)
		e.loLPR.Configure(dsp.BiquadLowpass, xoverLo, 0.707, 0, e.SampleRate)
		e.hiHPL.Configure(dsp.BiquadHighpass, xoverHi, 0.707, 0, e.SampleRate)
		e.hiHPR.Configure(dsp.BiquadHighpass, xoverHi, 0.707, 0, e.SampleRate)
		e.midHPL.Configure(dsp.BiquadHighpass, xoverLo, 0.707, 0, e.SampleRate)
		e.midHPR.Configure(dsp.BiquadHighpass, xoverLo, 0.707, 0, e.SampleRate)
		e.midLPL.Configure(dsp.BiquadLowpass, xoverHi, 0.707, 0, e.SampleRate)
		e.midLPR.Configure(dsp.BiquadLowpass, xoverHi, 0.707, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lowL := math.Tanh(e.loLPL.Process(l) * lowDrive)
		lowR := math.Tanh(e.loLPR.Process(r) * lowDrive)
		highL := math.Tanh(e.hiHPL.Process(l) * highDrive)
		highR := math.Tanh(e.hiHPR.Process(r) * highDrive)
		midL := math.Tanh(e.midLPL.Process(e.midHPL.Process(l)) * midDrive)
		midR := math.Tanh(e.midLPR.Process(e.midHPR.Process(r)) * midDrive)

		wetL := e.dcL.Process((lowL + midL + highL) / 3)
		wetR := e.dcR.Process((lowR + midR + highR) / 3)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
