package delay

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// GatedReverb is engine id 43: a reverbTank with its output hard-gated by a
// fast envelope-triggered gate, the 1980s drum-room "gated reverb" effect.
// 5 params.
type GatedReverb struct {
	fx.Base
	tankL, tankR *reverbTank
	env          dsp.EnvelopeFollower
	gateOpenLeft int
}

var gatedReverbParamNames = []string{"Size", "Gate Time", "Threshold", "Mix", "Damping"}
var gatedReverbDefaults = []float64{0.5, 0.3, 0.3, 0.4, 0.3}

// NewGatedReverb constructs engine id 43.
func NewGatedReverb() *GatedReverb {
	return &GatedReverb{Base: fx.NewBase("Gated Reverb", gatedReverbParamNames, gatedReverbDefaults)}
}

func (e *GatedReverb) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.tankL = newReverbTank(sampleRate, 1.0)
	e.tankR = newReverbTank(sampleRate, 1.1)
	e.env.SetTimes(0.001, 0.05, sampleRate)
}

func (e *GatedReverb) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *GatedReverb) Reset() {
	e.tankL.reset()
	e.tankR.reset()
	e.env.Reset()
	e.gateOpenLeft = 0
	e.ResetSmoothers()
}

func (e *GatedReverb) Process(buf *fx.Buffer) {
	n := buf.Len()
	const decay = 0.75

	for i := 0; i < n; i++ {
		gateTimeSamples := int((0.05 + e.Param(1)*0.4) * e.SampleRate)
		threshDB := -50 + e.Param(2)*40
		mix := e.Param(3)
		damping := e.Param(4)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		level := e.env.Process(math.Max(math.Abs(l), math.Abs(r)))
		levelDB := 20 * math.Log10(level+1e-9)
		if levelDB > threshDB {
			e.gateOpenLeft = gateTimeSamples
		}
		gateGain := 0.0
		if e.gateOpenLeft > 0 {
			gateGain = 1.0
			e.gateOpenLeft--
		}

		wetL := e.tankL.process(l, decay, damping, e.SampleRate) * gateGain
		wetR := e.tankR.process(r, decay, damping, e.SampleRate) * gateGain

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
