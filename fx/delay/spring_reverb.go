package delay

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// SpringReverb is engine id 40: a reverbTank colored with a resonant
// bandpass to mimic a spring tank's characteristic metallic "boing", plus
// a Drip control that injects a short percussive transient into the tank.
// 6 params.
type SpringReverb struct {
	fx.Base
	tankL, tankR *reverbTank
	colorL, colorR dsp.Biquad
	dripPhase    float64
}

var springReverbParamNames = []string{"Tension", "Decay", "Damping", "Drip", "Mix", "Width"}
var springReverbDefaults = []float64{0.5, 0.45, 0.5, 0.0, 0.3, 0.6}

// NewSpringReverb constructs engine id 40.
func NewSpringReverb() *SpringReverb {
	return &SpringReverb{Base: fx.NewBase("Spring Reverb", springReverbParamNames, springReverbDefaults)}
}

func (e *SpringReverb) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.tankL = newReverbTank(sampleRate, 0.6)
	e.tankR = newReverbTank(sampleRate, 0.7)
}

func (e *SpringReverb) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *SpringReverb) Reset() {
	e.tankL.reset()
	e.tankR.reset()
	e.colorL.Reset()
	e.colorR.Reset()
	e.dripPhase = 0
	e.ResetSmoothers()
}

func (e *SpringReverb) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		tension := dsp.HzFromNormalized(e.Param(0), 1200, 3500)
		decay := 0.5 + e.Param(1)*0.4
		damping := e.Param(2)
		dripAmount := e.Param(3)
		mix := e.Param(4)
		width := e.Param(5)

		e.colorL.Configure(dsp.BiquadBandpass, tension, 3, 0, e.SampleRate)
		e.colorR.Configure(dsp.BiquadBandpass, tension, 3, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		drip := 0.0
		if dripAmount > 0 {
			drip = math.Sin(2*math.Pi*e.dripPhase) * dripAmount * math.Exp(-e.dripPhase*4)
			e.dripPhase += 40 / e.SampleRate
			if e.dripPhase > 1 {
				e.dripPhase = 0
			}
		}

		wetL := e.colorL.Process(e.tankL.process(l+drip, decay, damping, e.SampleRate))
		wetR := e.colorR.Process(e.tankR.process(r+drip, decay, damping, e.SampleRate))

		mid := (wetL + wetR) * 0.5
		side := (wetL - wetR) * 0.5 * width
		wetL = mid + side
		wetR = mid - side

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
