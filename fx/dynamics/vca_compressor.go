package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// VCACompressor is engine id 2: a hard-knee-capable compressor whose
// detector is an attack/release envelope follower on the rectified
// (absolute-value) sidechain, with a sidechain highpass and lookahead,
// modeled on a classic VCA bus
// compressor topology. 10 params.
type VCACompressor struct {
	fx.Base
	env        dsp.EnvelopeFollower
	scHPF      dsp.OnePole
	lookahead  *dsp.DelayLine
	dcL, dcR   dsp.DCBlocker
}

var vcaParamNames = []string{
	"Threshold", "Ratio", "Attack", "Release", "Knee",
	"Makeup Gain", "Input Gain", "Lookahead", "Sidechain HPF", "Mix",
}
var vcaDefaults = []float64{0.7, 0.3, 0.2, 0.4, 0.2, 0.5, 0.5, 0.0, 0.0, 1.0}

// NewVCACompressor constructs engine id 2.
func NewVCACompressor() *VCACompressor {
	return &VCACompressor{Base: fx.NewBase("Classic Compressor (VCA)", vcaParamNames, vcaDefaults)}
}

func (e *VCACompressor) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.lookahead = dsp.NewDelayLine(int(sampleRate*0.02) + 1)
	e.retune()
}

func (e *VCACompressor) retune() {
	attack := dsp.TimeFromNormalized(e.ParamTarget(2), 0.0005, 0.1)
	release := dsp.TimeFromNormalized(e.ParamTarget(3), 0.02, 1.5)
	e.env.SetTimes(attack, release, e.SampleRate)
	hpfHz := dsp.HzFromNormalized(e.ParamTarget(8), 20, 500)
	e.scHPF.SetCutoff(hpfHz, e.SampleRate)
}

func (e *VCACompressor) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *VCACompressor) Reset() {
	e.env.Reset()
	e.scHPF.Reset()
	if e.lookahead != nil {
		e.lookahead.Reset()
	}
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *VCACompressor) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		threshDB := -48 + e.Param(0)*48
		ratio := 1 + e.Param(1)*39
		knee := e.Param(4) * 18
		makeup := dbToAmp((e.Param(5) - 0.5) * 48)
		inGain := dbToAmp((e.Param(6) - 0.5) * 24)
		lookaheadSamples := e.Param(7) * 0.01 * e.SampleRate
		mix := e.Param(9)

		rawL := float64(buf.L[i]) * inGain
		rawR := float64(buf.R[i]) * inGain

		sc := e.scHPF.Highpass((rawL + rawR) * 0.5)
		level := e.env.Process(math.Abs(sc))
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

		var dryL, dryR float64
		if e.lookahead != nil && lookaheadSamples > 0 {
			e.lookahead.Write(rawL)
			dryL = e.lookahead.Read(lookaheadSamples)
			e.lookahead.Write(rawR)
			dryR = e.lookahead.Read(lookaheadSamples)
		} else {
			dryL, dryR = rawL, rawR
		}

		wetL := e.dcL.Process(dryL * gain)
		wetR := e.dcR.Process(dryR * gain)

		outL := wetL*mix + dryL*(1-mix)
		outR := wetR*mix + dryR*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
