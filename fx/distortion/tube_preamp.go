// Package distortion implements the non-linear saturation engines of spec
// §4.3.1 ids 15-22. Every engine routes its output through a DC blocker per
// the distortion contract in spec §4.3.2.
package distortion

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// TubePreamp is engine id 15: an asymmetric tanh-style tube saturation stage
// with bias, tone tilt, and a gentle "sag" envelope on the gain. 8 params.
type TubePreamp struct {
	fx.Base
	toneL, toneR dsp.OnePole
	sagEnv     dsp.EnvelopeFollower
	lowcutL, lowcutR dsp.OnePole
	dcL, dcR   dsp.DCBlocker
	overL      *dsp.Oversampler
	overR      *dsp.Oversampler
	scratchL   []float64
	scratchR   []float64
	driveBuf   []float64
	biasBuf    []float64
}

const tubeOversampleFactor = 2

var tubeParamNames = []string{"Drive", "Bias", "Tone", "Output Gain", "Sag", "Bright", "Low Cut", "Mix"}
var tubeDefaults = []float64{0.3, 0.5, 0.5, 0.5, 0.2, 0.0, 0.0, 1.0}

// NewTubePreamp constructs engine id 15.
func NewTubePreamp() *TubePreamp {
	return &TubePreamp{Base: fx.NewBase("Vintage Tube Preamp", tubeParamNames, tubeDefaults)}
}

func (e *TubePreamp) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
	e.sagEnv.SetTimes(0.01, 0.2, sampleRate)
	e.overL = dsp.NewOversampler(tubeOversampleFactor, maxBlockSize)
	e.overR = dsp.NewOversampler(tubeOversampleFactor, maxBlockSize)
	e.scratchL = make([]float64, maxBlockSize)
	e.scratchR = make([]float64, maxBlockSize)
	e.driveBuf = make([]float64, maxBlockSize)
	e.biasBuf = make([]float64, maxBlockSize)
}

func (e *TubePreamp) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *TubePreamp) Reset() {
	e.toneL.Reset()
	e.toneR.Reset()
	e.sagEnv.Reset()
	e.lowcutL.Reset()
	e.lowcutR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	if e.overL != nil {
		e.overL.Reset()
		e.overR.Reset()
	}
	e.ResetSmoothers()
}

func (e *TubePreamp) shape(x, drive, bias float64) float64 {
	sagLevel := e.sagEnv.Process(math.Abs(x))
	effectiveDrive := drive * (1 - sagLevel*0.3)
	y := math.Tanh((x+bias*0.3)*effectiveDrive) - math.Tanh(bias*0.3*effectiveDrive)
	return y
}

// Process reads Drive and Bias once per original-rate sample (not once per
// block) so they still track the smoother's per-sample ramp, but the
// Oversampler's callback only sees the oversampled signal with no index of
// its own: drive/bias are pre-computed into per-sample buffers here, and
// shapeFn advances through them one original sample every
// tubeOversampleFactor calls, matching the order Oversampler.Process
// invokes it in.
func (e *TubePreamp) Process(buf *fx.Buffer) {
	n := buf.Len()

	scratchL := e.scratchL[:n]
	scratchR := e.scratchR[:n]
	driveBuf := e.driveBuf[:n]
	biasBuf := e.biasBuf[:n]
	for i := 0; i < n; i++ {
		scratchL[i] = float64(buf.L[i])
		scratchR[i] = float64(buf.R[i])
		driveBuf[i] = 1 + e.Param(0)*19
		biasBuf[i] = (e.Param(1) - 0.5) * 2
	}

	oversampleIdx := 0
	shapeFn := func(x float64) float64 {
		i := oversampleIdx / tubeOversampleFactor
		oversampleIdx++
		return e.shape(x, driveBuf[i], biasBuf[i])
	}
	e.overL.Process(scratchL, shapeFn)
	oversampleIdx = 0
	e.overR.Process(scratchR, shapeFn)

	for i := 0; i < n; i++ {
		toneHz := dsp.HzFromNormalized(e.Param(2), 500, 10000)
		outGain := 0.1 + e.Param(3)*1.9
		lowCutHz := dsp.HzFromNormalized(e.Param(6), 20, 400)
		mix := e.Param(7)
		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)
		e.lowcutL.SetCutoff(lowCutHz, e.SampleRate)
		e.lowcutR.SetCutoff(lowCutHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		wetL := e.toneL.Lowpass(scratchL[i]) * outGain
		wetR := e.toneR.Lowpass(scratchR[i]) * outGain

		wetL = e.dcL.Process(e.lowcutL.Highpass(wetL))
		wetR = e.dcR.Process(e.lowcutR.Highpass(wetR))

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
