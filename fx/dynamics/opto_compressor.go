// Package dynamics implements the level-dependent gain stages of spec
// §4.3.1 ids 1-6: compressors, gate, limiter, and dynamic EQ.
package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// OptoCompressor models a vintage opto-cell compressor: id 1, 8 params.
// Opto cells react slowly and asymmetrically; the attack/release response
// is modeled as a fixed soft envelope gently steered by the Attack/Release
// parameters rather than a hard RMS detector.
type OptoCompressor struct {
	fx.Base
	env      dsp.EnvelopeFollower
	dcL, dcR dsp.DCBlocker
}

var optoParamNames = []string{"Input Gain", "Threshold", "Ratio", "Attack", "Release", "Makeup Gain", "Knee", "Mix"}
var optoDefaults = []float64{0.5, 0.7, 0.3, 0.3, 0.4, 0.5, 0.3, 1.0}

// NewOptoCompressor constructs engine id 1.
func NewOptoCompressor() *OptoCompressor {
	return &OptoCompressor{Base: fx.NewBase("Vintage Opto Compressor", optoParamNames, optoDefaults)}
}

func (e *OptoCompressor) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.retune()
}

func (e *OptoCompressor) retune() {
	attack := dsp.TimeFromNormalized(e.ParamTarget(3), 0.001, 0.05)
	release := dsp.TimeFromNormalized(e.ParamTarget(4), 0.05, 1.2)
	e.env.SetTimes(attack, release, e.SampleRate)
}

func (e *OptoCompressor) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *OptoCompressor) Reset() {
	e.env.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *OptoCompressor) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		inGain := 0.25 + e.Param(0)*1.75
		threshDB := -40 + e.Param(1)*40
		ratio := 1 + e.Param(2)*19
		makeup := 0.25 + e.Param(5)*1.75
		knee := e.Param(6) * 12
		mix := e.Param(7)

		l := float64(buf.L[i]) * inGain
		r := float64(buf.R[i]) * inGain
		mag := math.Max(math.Abs(l), math.Abs(r))
		level := e.env.Process(mag)
		levelDB := ampToDB(level)

		over := levelDB - threshDB
		var reductionDB float64
		if over > -knee/2 {
			if over < knee/2 && knee > 0 {
				x := over + knee/2
				reductionDB = (1.0/ratio - 1.0) * (x * x) / (2 * knee)
			} else {
				reductionDB = (1.0/ratio - 1.0) * over
			}
		}
		gain := dbToAmp(reductionDB) * makeup

		wetL := e.dcL.Process(l * gain)
		wetR := e.dcR.Process(r * gain)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

func ampToDB(a float64) float64 {
	if a < 1e-9 {
		a = 1e-9
	}
	return 20 * math.Log10(a)
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}
