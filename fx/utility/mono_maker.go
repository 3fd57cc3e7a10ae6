package utility

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MonoMaker is engine id 55: sums left and right to mono below a crossover
// frequency, a standard low-end collapse tool for vinyl/club mastering
// compatibility. 3 params.
type MonoMaker struct {
	fx.Base
	lowLPL, lowLPR dsp.Biquad
	lowHPL, lowHPR dsp.Biquad
}

var monoMakerParamNames = []string{"Frequency", "Mono Amount", "Output Gain"}
var monoMakerDefaults = []float64{0.3, 1.0, 0.5}

// NewMonoMaker constructs engine id 55.
func NewMonoMaker() *MonoMaker {
	return &MonoMaker{Base: fx.NewBase("Mono Maker", monoMakerParamNames, monoMakerDefaults)}
}

func (e *MonoMaker) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *MonoMaker) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *MonoMaker) Reset() {
	e.lowLPL.Reset()
	e.lowLPR.Reset()
	e.lowHPL.Reset()
	e.lowHPR.Reset()
	e.ResetSmoothers()
}

func (e *MonoMaker) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		freq := dsp.HzFromNormalized(e.Param(0), 40, 500)
		amount := e.Param(1)
		outGain := gainFromCentered(e.Param(2), 6)

		e.lowLPL.Configure(dsp.BiquadLowpass, freq, 0.707, 0, e.SampleRate)
		e.lowLPR.Configure(dsp.BiquadLowpass, freq, 0.707, 0, e.SampleRate)
		e.lowHPL.Configure(dsp.BiquadHighpass, freq, 0.707, 0, e.SampleRate)
		e.lowHPR.Configure(dsp.BiquadHighpass, freq, 0.707, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		lowL := e.lowLPL.Process(l)
		lowR := e.lowLPR.Process(r)
		highL := e.lowHPL.Process(l)
		highR := e.lowHPR.Process(r)

		lowMono := (lowL + lowR) * 0.5
		lowFinalL := lowL*(1-amount) + lowMono*amount
		lowFinalR := lowR*(1-amount) + lowMono*amount

		outL := (lowFinalL + highL) * outGain
		outR := (lowFinalR + highR) * outGain
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
