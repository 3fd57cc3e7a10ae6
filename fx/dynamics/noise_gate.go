package dynamics

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// NoiseGate is engine id 4: a threshold-triggered gate with hold, hysteresis,
// and a limited attenuation range rather than a hard mute. 8 params.
type NoiseGate struct {
	fx.Base
	scHPF     dsp.OnePole
	env       dsp.EnvelopeFollower
	gainState float64
	holdLeft  int
	open      bool
	dcL, dcR  dsp.DCBlocker
}

var gateParamNames = []string{"Threshold", "Attack", "Hold", "Release", "Range", "Hysteresis", "Sidechain HPF", "Mix"}
var gateDefaults = []float64{0.4, 0.0, 0.2, 0.3, 1.0, 0.1, 0.0, 1.0}

// NewNoiseGate constructs engine id 4.
func NewNoiseGate() *NoiseGate {
	return &NoiseGate{Base: fx.NewBase("Noise Gate", gateParamNames, gateDefaults), gainState: 0}
}

func (e *NoiseGate) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.retune()
}

func (e *NoiseGate) retune() {
	attack := dsp.TimeFromNormalized(e.ParamTarget(1), 0.0002, 0.05)
	release := dsp.TimeFromNormalized(e.ParamTarget(3), 0.01, 1.0)
	e.env.SetTimes(attack, release, e.SampleRate)
	hpfHz := dsp.HzFromNormalized(e.ParamTarget(6), 20, 1000)
	e.scHPF.SetCutoff(hpfHz, e.SampleRate)
}

func (e *NoiseGate) UpdateParameters(u fx.ParameterUpdate) {
	e.ApplyUpdate(u)
	e.retune()
}

func (e *NoiseGate) Reset() {
	e.env.Reset()
	e.scHPF.Reset()
	e.gainState = 0
	e.holdLeft = 0
	e.open = false
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *NoiseGate) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		threshDB := -80 + e.Param(0)*80
		holdSamples := int(e.Param(2) * 0.5 * e.SampleRate)
		rangeDB := -80 * e.Param(4)
		hysteresisDB := e.Param(5) * 12
		mix := e.Param(7)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		sc := e.scHPF.Highpass((l + r) * 0.5)
		level := e.env.Process(math.Abs(sc))
		levelDB := ampToDB(level)

		openThresh := threshDB
		closeThresh := threshDB - hysteresisDB
		if e.open {
			if levelDB < closeThresh {
				e.open = false
			} else {
				e.holdLeft = holdSamples
			}
		} else if levelDB > openThresh {
			e.open = true
			e.holdLeft = holdSamples
		}

		targetDB := rangeDB
		if e.open || e.holdLeft > 0 {
			targetDB = 0
			if e.holdLeft > 0 {
				e.holdLeft--
			}
		}
		targetGain := dbToAmp(targetDB)
		e.gainState += (targetGain - e.gainState) * 0.05
		gain := e.gainState

		wetL := e.dcL.Process(l * gain)
		wetR := e.dcR.Process(r * gain)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
