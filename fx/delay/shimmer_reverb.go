package delay

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ShimmerReverb is engine id 42: a reverbTank with an octave-up pitch
// shifter inserted into the feedback path, the classic "angelic" shimmer
// topology. 6 params.
type ShimmerReverb struct {
	fx.Base
	tankL, tankR   *reverbTank
	shiftLineL     *dsp.DelayLine
	shiftLineR     *dsp.DelayLine
	shiftPhase     float64
}

var shimmerReverbParamNames = []string{"Size", "Decay", "Shimmer Amount", "Pitch", "Mix", "Damping"}
var shimmerReverbDefaults = []float64{0.6, 0.6, 0.4, 0.58, 0.35, 0.4}

// NewShimmerReverb constructs engine id 42.
func NewShimmerReverb() *ShimmerReverb {
	return &ShimmerReverb{Base: fx.NewBase("Shimmer Reverb", shimmerReverbParamNames, shimmerReverbDefaults)}
}

func (e *ShimmerReverb) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.tankL = newReverbTank(sampleRate, 1.2)
	e.tankR = newReverbTank(sampleRate, 1.35)
	maxSamples := int(sampleRate*0.1) + 2
	e.shiftLineL = dsp.NewDelayLine(maxSamples)
	e.shiftLineR = dsp.NewDelayLine(maxSamples)
}

func (e *ShimmerReverb) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *ShimmerReverb) Reset() {
	e.tankL.reset()
	e.tankR.reset()
	e.shiftLineL.Reset()
	e.shiftLineR.Reset()
	e.shiftPhase = 0
	e.ResetSmoothers()
}

func (e *ShimmerReverb) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		decay := 0.55 + e.Param(1)*0.4
		shimmerAmt := e.Param(2)
		semis := (e.Param(3) - 0.5) * 24
		mix := e.Param(4)
		damping := e.Param(5)

		ratio := math.Pow(2, semis/12)
		windowMs := 60.0
		windowSamples := windowMs * e.SampleRate / 1000
		phaseInc := (1 - ratio) / windowSamples

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		tankOutL := e.tankL.process(l, decay, damping, e.SampleRate)
		tankOutR := e.tankR.process(r, decay, damping, e.SampleRate)

		e.shiftLineL.Write(tankOutL)
		e.shiftLineR.Write(tankOutR)

		p1 := e.shiftPhase
		p2 := math.Mod(e.shiftPhase+0.5, 1.0)
		w1 := 0.5 - 0.5*math.Cos(2*math.Pi*p1)
		w2 := 0.5 - 0.5*math.Cos(2*math.Pi*p2)
		shiftedL := e.shiftLineL.Read(p1*windowSamples)*w1 + e.shiftLineL.Read(p2*windowSamples)*w2
		shiftedR := e.shiftLineR.Read(p1*windowSamples)*w1 + e.shiftLineR.Read(p2*windowSamples)*w2

		e.shiftPhase += phaseInc
		for e.shiftPhase >= 1 {
			e.shiftPhase -= 1
		}
		for e.shiftPhase < 0 {
			e.shiftPhase += 1
		}

		wetL := tankOutL + shiftedL*shimmerAmt
		wetR := tankOutR + shiftedR*shimmerAmt

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
