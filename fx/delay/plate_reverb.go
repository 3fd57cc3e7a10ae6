package delay

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// reverbTank is a small Schroeder-style network of four comb filters feeding
// two allpass diffusers, shared by the plate/spring/shimmer/gated reverbs.
// It is the portable software equivalent of the teacher pack's hardware
// tank/spring reverb units: four feedback combs tuned to mutually-prime
// lengths followed by allpass diffusion.
type reverbTank struct {
	combs    [4]*dsp.DelayLine
	combDamp [4]dsp.OnePole
	allpass  [2]dsp.Biquad
	combLenMs [4]float64
}

func newReverbTank(sampleRate float64, lenScale float64) *reverbTank {
	t := &reverbTank{combLenMs: [4]float64{29.7, 37.1, 41.1, 43.7}}
	for i, ms := range t.combLenMs {
		samples := int(ms*lenScale*sampleRate/1000) + 1
		t.combs[i] = dsp.NewDelayLine(samples + 1)
	}
	return t
}

func (t *reverbTank) reset() {
	for i := range t.combs {
		t.combs[i].Reset()
		t.combDamp[i].Reset()
	}
	t.allpass[0].Reset()
	t.allpass[1].Reset()
}

func (t *reverbTank) process(x, decay, damping, sampleRate float64) float64 {
	var sum float64
	for i := range t.combs {
		length := float64(t.combs[i].Len() - 1)
		delayed := t.combs[i].Read(length)
		damped := t.combDamp[i].Lowpass(delayed)
		t.combs[i].Write(x + damped*decay)
		sum += delayed
	}
	sum *= 0.25
	t.allpass[0].Configure(dsp.BiquadAllpass, 800, 0.7, 0, sampleRate)
	t.allpass[1].Configure(dsp.BiquadAllpass, 2200, 0.7, 0, sampleRate)
	sum = t.allpass[0].Process(sum)
	sum = t.allpass[1].Process(sum)
	for i := range t.combDamp {
		dampHz := dsp.HzFromNormalized(1-damping, 1000, 15000)
		t.combDamp[i].SetCutoff(dampHz, sampleRate)
	}
	return sum
}

// PlateReverb is engine id 39: a dense, bright plate-style reverb built on
// reverbTank. 6 params.
type PlateReverb struct {
	fx.Base
	tankL, tankR *reverbTank
	predelayL    *dsp.DelayLine
	predelayR    *dsp.DelayLine
}

var plateReverbParamNames = []string{"Size", "Decay", "Damping", "Predelay", "Mix", "Width"}
var plateReverbDefaults = []float64{0.5, 0.5, 0.4, 0.1, 0.3, 0.8}

// NewPlateReverb constructs engine id 39.
func NewPlateReverb() *PlateReverb {
	return &PlateReverb{Base: fx.NewBase("Plate Reverb", plateReverbParamNames, plateReverbDefaults)}
}

func (e *PlateReverb) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.tankL = newReverbTank(sampleRate, 1.0)
	e.tankR = newReverbTank(sampleRate, 1.15)
	e.predelayL = dsp.NewDelayLine(int(sampleRate*0.1) + 2)
	e.predelayR = dsp.NewDelayLine(int(sampleRate*0.1) + 2)
}

func (e *PlateReverb) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }

// ReportedLatency implements fx.LatencyReporter and reports 0: the dry
// path is not delayed, and the predelay line only delays the wet signal by
// the Predelay setting.
func (e *PlateReverb) ReportedLatency() int { return 0 }

func (e *PlateReverb) Reset() {
	e.tankL.reset()
	e.tankR.reset()
	e.predelayL.Reset()
	e.predelayR.Reset()
	e.ResetSmoothers()
}

func (e *PlateReverb) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		decay := 0.6 + e.Param(1)*0.38
		damping := e.Param(2)
		predelayMs := e.Param(3) * 100
		mix := e.Param(4)
		width := e.Param(5)
		predelaySamples := predelayMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.predelayL.Write(l)
		e.predelayR.Write(r)
		inL := e.predelayL.Read(predelaySamples)
		inR := e.predelayR.Read(predelaySamples)

		wetL := e.tankL.process(inL, decay, damping, e.SampleRate)
		wetR := e.tankR.process(inR, decay, damping, e.SampleRate)

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
