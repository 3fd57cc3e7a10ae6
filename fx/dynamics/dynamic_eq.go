package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// DynamicEQ is engine id 6: a single-band parametric peak filter whose gain
// is steered by an envelope follower listening to the same band, giving a
// compressor that acts only on a narrow frequency range. 8 params.
type DynamicEQ struct {
	fx.Base
	detect   dsp.Biquad
	shapeL   dsp.Biquad
	shapeR   dsp.Biquad
	env      dsp.EnvelopeFollower
	dcL, dcR dsp.DCBlocker
}

var dynEQParamNames = []string{"Frequency", "Threshold", "Ratio", "Attack", "Release", "Gain Range", "Q", "Mix"}
var dynEQDefaults = []float64{0.4, 0.6, 0.4, 0.3, 0.4, 0.5, 0.4, 1.0}

// NewDynamicEQ constructs engine id 6.
func NewDynamicEQ() *DynamicEQ {
	return &DynamicEQ{Base: fx.NewBase("Dynamic EQ", dynEQParamNames, dynEQDefaults)}
}

func (e *DynamicEQ) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.retune()
}

func (e *DynamicEQ) retune() {
	freq := dsp.HzFromNormalized(e.ParamTarget(0), 40, 12000)
	q := 0.3 + e.ParamTarget(6)*9.7
	e.detect.Configure(dsp.BiquadBandpass, freq, q, 0, e.SampleRate)
	attack := dsp.TimeFromNormalized(e.ParamTarget(3), 0.001, 0.1)
	release := dsp.TimeFromNormalized(e.ParamTarget(4), 0.02, 1.0)
	e.env.SetTimes(attack, release, e.SampleRate)
}

func (e *DynamicEQ) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *DynamicEQ) Reset() {
	e.detect.Reset()
	e.shapeL.Reset()
	e.shapeR.Reset()
	e.env.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *DynamicEQ) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		freq := dsp.HzFromNormalized(e.Param(0), 40, 12000)
		threshDB := -40 + e.Param(1)*40
		ratio := 1 + e.Param(2)*9
		rangeDB := e.Param(5) * 24
		q := 0.3 + e.Param(6)*9.7
		mix := e.Param(7)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		band := e.detect.Process((l + r) * 0.5)
		level := e.env.Process(math.Abs(band))
		levelDB := ampToDB(level)
		over := levelDB - threshDB
		var gainDB float64
		if over > 0 {
			gainDB = -rangeDB * math.Min(1, over/ratio/12)
		}
		gainDB = dsp.Clamp(gainDB, -rangeDB, 0)

		e.shapeL.Configure(dsp.BiquadPeak, freq, q, gainDB, e.SampleRate)
		e.shapeR.Configure(dsp.BiquadPeak, freq, q, gainDB, e.SampleRate)
		wetL := e.dcL.Process(e.shapeL.Process(l))
		wetR := e.dcR.Process(e.shapeR.Process(r))

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
