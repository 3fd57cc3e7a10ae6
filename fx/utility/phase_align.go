package utility

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// PhaseAlign is engine id 56: per-band allpass phase rotation on the left
// channel plus a fractional fine delay of up to 5 ms on the right channel,
// for correcting phase misalignment between two tracked sources (e.g. DI
// and mic on the same instrument). At its neutral default (all rotations
// at center, delay at zero, both polarity switches off) it must reproduce
// the input exactly. 10 params.
type PhaseAlign struct {
	fx.Base
	lowAP, lowMidAP, midAP, highAP dsp.Biquad
	fineDelay                      *dsp.DelayLine
}

var phaseAlignParamNames = []string{
	"Low Rotation", "Low-Mid Rotation", "Mid Rotation", "High Rotation",
	"Fine Delay", "Polarity L", "Polarity R", "Low Freq", "High Freq", "Mix",
}
var phaseAlignDefaults = []float64{0.5, 0.5, 0.5, 0.5, 0.0, 0.0, 0.0, 0.2, 0.7, 1.0}

// NewPhaseAlign constructs engine id 56.
func NewPhaseAlign() *PhaseAlign {
	return &PhaseAlign{Base: fx.NewBase("Phase Align", phaseAlignParamNames, phaseAlignDefaults)}
}

func (e *PhaseAlign) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.01) + 4
	e.fineDelay = dsp.NewDelayLine(maxSamples)
}

func (e *PhaseAlign) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *PhaseAlign) Reset() {
	e.lowAP.Reset()
	e.lowMidAP.Reset()
	e.midAP.Reset()
	e.highAP.Reset()
	e.fineDelay.Reset()
	e.ResetSmoothers()
}

// neutral reports whether every control is settled at its default, using
// ParamTarget and the smoother's Settled check so probing never advances
// the per-sample ramp a still-transitioning parameter needs.
func (e *PhaseAlign) neutral() bool {
	return e.ParamTarget(0) == 0.5 && e.Smoothers[0].Settled() &&
		e.ParamTarget(1) == 0.5 && e.Smoothers[1].Settled() &&
		e.ParamTarget(2) == 0.5 && e.Smoothers[2].Settled() &&
		e.ParamTarget(3) == 0.5 && e.Smoothers[3].Settled() &&
		e.ParamTarget(4) == 0.0 && e.Smoothers[4].Settled() &&
		e.ParamTarget(5) <= 0.5 && e.ParamTarget(6) <= 0.5
}

func (e *PhaseAlign) Process(buf *fx.Buffer) {
	n := buf.Len()
	if e.neutral() {
		return // neutral default: exact passthrough, no filter/delay rounding introduced
	}

	for i := 0; i < n; i++ {
		lowRot := e.Param(0)
		lowMidRot := e.Param(1)
		midRot := e.Param(2)
		highRot := e.Param(3)
		fineDelayParam := e.Param(4)
		polL := e.Param(5) > 0.5
		polR := e.Param(6) > 0.5
		lowFreq := dsp.HzFromNormalized(e.Param(7), 50, 500)
		highFreq := dsp.HzFromNormalized(e.Param(8), 1000, 10000)
		mix := e.Param(9)

		lowQ := 0.5 + lowRot*3
		lowMidQ := 0.5 + lowMidRot*3
		midQ := 0.5 + midRot*3
		highQ := 0.5 + highRot*3
		midFreq := (lowFreq + highFreq) * 0.5

		e.lowAP.Configure(dsp.BiquadAllpass, lowFreq, lowQ, 0, e.SampleRate)
		e.lowMidAP.Configure(dsp.BiquadAllpass, (lowFreq+midFreq)*0.5, lowMidQ, 0, e.SampleRate)
		e.midAP.Configure(dsp.BiquadAllpass, midFreq, midQ, 0, e.SampleRate)
		e.highAP.Configure(dsp.BiquadAllpass, highFreq, highQ, 0, e.SampleRate)

		delayMs := fineDelayParam * 5
		delaySamples := delayMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.fineDelay.Write(r)
		alignedR := e.fineDelay.Read(delaySamples)

		wetL := e.highAP.Process(e.midAP.Process(e.lowMidAP.Process(e.lowAP.Process(l))))
		wetR := alignedR

		if polL {
			wetL = -wetL
		}
		if polR {
			wetR = -wetR
		}

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
