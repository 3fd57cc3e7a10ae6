package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MasteringLimiter is engine id 5: a lookahead brickwall limiter with
// stereo-linked gain reduction and a hard output ceiling. 10 params.
type MasteringLimiter struct {
	fx.Base
	env                dsp.EnvelopeFollower
	lookaheadL         *dsp.DelayLine
	lookaheadR         *dsp.DelayLine
	dcL, dcR           dsp.DCBlocker
}

var limiterParamNames = []string{
	"Threshold", "Ceiling", "Release", "Lookahead", "Attack",
	"Knee", "Input Gain", "Output Gain", "Stereo Link", "Mix",
}
var limiterDefaults = []float64{0.8, 0.98, 0.3, 0.4, 0.0, 0.1, 0.5, 0.5, 1.0, 1.0}

// NewMasteringLimiter constructs engine id 5.
func NewMasteringLimiter() *MasteringLimiter {
	return &MasteringLimiter{Base: fx.NewBase("Mastering Limiter", limiterParamNames, limiterDefaults)}
}

func (e *MasteringLimiter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	maxLA := int(sampleRate*0.02) + 1
	e.lookaheadL = dsp.NewDelayLine(maxLA)
	e.lookaheadR = dsp.NewDelayLine(maxLA)
	e.retune()
}

func (e *MasteringLimiter) retune() {
	attack := dsp.TimeFromNormalized(e.ParamTarget(4), 0.00005, 0.005)
	release := dsp.TimeFromNormalized(e.ParamTarget(2), 0.01, 1.0)
	e.env.SetTimes(attack, release, e.SampleRate)
}

func (e *MasteringLimiter) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *MasteringLimiter) Reset() {
	e.env.Reset()
	if e.lookaheadL != nil {
		e.lookaheadL.Reset()
		e.lookaheadR.Reset()
	}
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *MasteringLimiter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		threshDB := -24 + e.Param(0)*24
		ceiling := 0.5 + e.Param(1)*0.5
		knee := e.Param(5) * 6
		inGain := dbToAmp((e.Param(6) - 0.5) * 24)
		outGain := dbToAmp((e.Param(7) - 0.5) * 24)
		lookaheadSamples := 0.001 + e.Param(3)*0.018
		lookaheadSamples *= e.SampleRate
		mix := e.Param(9)

		rawL := float64(buf.L[i]) * inGain
		rawR := float64(buf.R[i]) * inGain

		linked := math.Max(math.Abs(rawL), math.Abs(rawR))
		level := e.env.Process(linked)
		levelDB := ampToDB(level)

		over := levelDB - threshDB
		var reductionDB float64
		if over > -knee/2 {
			if over < knee/2 && knee > 0 {
				x := over + knee/2
				reductionDB = -(x * x) / (2 * knee)
			} else {
				reductionDB = -over
			}
		}
		gain := dbToAmp(reductionDB)

		e.lookaheadL.Write(rawL)
		e.lookaheadR.Write(rawR)
		dryL := e.lookaheadL.Read(lookaheadSamples)
		dryR := e.lookaheadR.Read(lookaheadSamples)

		limitedL := dsp.Clamp(dryL*gain*outGain, -ceiling, ceiling)
		limitedR := dsp.Clamp(dryR*gain*outGain, -ceiling, ceiling)

		wetL := e.dcL.Process(limitedL)
		wetR := e.dcR.Process(limitedR)

		outL := wetL*mix + dryL*(1-mix)
		outR := wetR*mix + dryR*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
