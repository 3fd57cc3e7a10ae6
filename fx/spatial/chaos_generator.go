package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ChaosGenerator is engine id 51: modulates a short delay and a resonant
// filter from a logistic-map chaotic oscillator, producing an evolving,
// never-quite-repeating texture. 5 params.
type ChaosGenerator struct {
	fx.Base
	x, y         float64
	delayL, delayR *dsp.DelayLine
	filtL, filtR dsp.Biquad
}

var chaosParamNames = []string{"Rate", "Chaos Amount", "Filter Tone", "Mix", "Depth"}
var chaosDefaults = []float64{0.3, 0.5, 0.5, 0.4, 0.5}

// NewChaosGenerator constructs engine id 51.
func NewChaosGenerator() *ChaosGenerator {
	return &ChaosGenerator{Base: fx.NewBase("Chaos Generator", chaosParamNames, chaosDefaults), x: 0.42, y: 0.17}
}

func (e *ChaosGenerator) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.05) + 4
	e.delayL = dsp.NewDelayLine(maxSamples)
	e.delayR = dsp.NewDelayLine(maxSamples)
}

func (e *ChaosGenerator) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *ChaosGenerator) Reset() {
	e.x, e.y = 0.42, 0.17
	e.delayL.Reset()
	e.delayR.Reset()
	e.filtL.Reset()
	e.filtR.Reset()
	e.ResetSmoothers()
}

// step advances the logistic map one tick, r in (3.57, 4.0) gives chaotic
// (non-periodic, bounded) behavior.
func (e *ChaosGenerator) step(r float64) float64 {
	e.x = r * e.x * (1 - e.x)
	if e.x <= 0 || e.x >= 1 || math.IsNaN(e.x) {
		e.x = 0.42
	}
	return e.x
}

func (e *ChaosGenerator) Process(buf *fx.Buffer) {
	n := buf.Len()
	var chaosVal = e.y

	for i := 0; i < n; i++ {
		rateHz := 1 + e.Param(0)*30
		chaosAmt := e.Param(1)
		tone := dsp.HzFromNormalized(e.Param(2), 200, 6000)
		mix := e.Param(3)
		depth := e.Param(4)

		chaosRate := 3.57 + chaosAmt*0.43
		e.filtL.Configure(dsp.BiquadBandpass, tone, 1.2, 0, e.SampleRate)
		e.filtR.Configure(dsp.BiquadBandpass, tone, 1.2, 0, e.SampleRate)

		stepInterval := int(e.SampleRate / rateHz)
		if stepInterval < 1 {
			stepInterval = 1
		}

		l := float64(buf.L[i])
		r2 := float64(buf.R[i])

		if i%stepInterval == 0 {
			chaosVal = e.step(chaosRate)
			e.y = chaosVal
		}

		delayMs := 1 + chaosVal*20*depth
		e.delayL.Write(l)
		e.delayR.Write(r2)
		delayedL := e.delayL.Read(delayMs * e.SampleRate / 1000)
		delayedR := e.delayR.Read(delayMs * e.SampleRate / 1000)

		filtL := e.filtL.Process(delayedL)
		filtR := e.filtR.Process(delayedR)

		wetL := delayedL*(1-depth) + filtL*depth
		wetR := delayedR*(1-depth) + filtR*depth

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r2*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
