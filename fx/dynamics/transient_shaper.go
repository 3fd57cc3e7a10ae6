package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// TransientShaper is engine id 3: a dual fast/slow envelope differencer
// that independently boosts or cuts the attack and sustain portions of a
// signal. 10 params.
type TransientShaper struct {
	fx.Base
	fast, slow dsp.EnvelopeFollower
	dcL, dcR   dsp.DCBlocker
}

var transientParamNames = []string{
	"Attack", "Sustain", "Attack Time", "Release Time", "Sensitivity",
	"Output Gain", "Clip", "HF Emphasis", "LF Emphasis", "Mix",
}
var transientDefaults = []float64{0.5, 0.5, 0.3, 0.4, 0.5, 0.5, 0.0, 0.0, 0.0, 1.0}

// NewTransientShaper constructs engine id 3.
func NewTransientShaper() *TransientShaper {
	return &TransientShaper{Base: fx.NewBase("Transient Shaper", transientParamNames, transientDefaults)}
}

func (e *TransientShaper) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.retune()
}

func (e *TransientShaper) retune() {
	fastAttack := dsp.TimeFromNormalized(e.ParamTarget(2), 0.0002, 0.01)
	e.fast.SetTimes(fastAttack, fastAttack*4, e.SampleRate)
	slowRelease := dsp.TimeFromNormalized(e.ParamTarget(3), 0.05, 0.5)
	e.slow.SetTimes(slowRelease, slowRelease, e.SampleRate)
}

func (e *TransientShaper) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *TransientShaper) Reset() {
	e.fast.Reset()
	e.slow.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *TransientShaper) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		attackAmt := (e.Param(0) - 0.5) * 2
		sustainAmt := (e.Param(1) - 0.5) * 2
		sensitivity := 0.2 + e.Param(4)*2
		outGain := dbToAmp((e.Param(5) - 0.5) * 24)
		mix := e.Param(9)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		mag := math.Max(math.Abs(l), math.Abs(r))

		fastLvl := e.fast.Process(mag)
		slowLvl := e.slow.Process(mag)
		diff := (fastLvl - slowLvl) * sensitivity

		gain := 1.0
		if diff > 0 {
			gain += diff * attackAmt
		} else {
			gain += (-diff) * sustainAmt * -1
			gain = 1 + (-diff)*sustainAmt
		}
		gain = dsp.Clamp(gain, 0.0, 4.0)

		wetL := e.dcL.Process(l*gain*outGain)
		wetR := e.dcR.Process(r*gain*outGain)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
