package distortion

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MuffFuzz is engine id 20: a two-stage hard-clipping fuzz with a
// post-clip tone tilt, modeled on the classic silicon fuzz topology.
// 3 params.
type MuffFuzz struct {
	fx.Base
	toneL, toneR dsp.OnePole
	dcL, dcR     dsp.DCBlocker
}

var muffParamNames = []string{"Sustain", "Tone", "Mix"}
var muffDefaults = []float64{0.6, 0.5, 1.0}

// NewMuffFuzz constructs engine id 20.
func NewMuffFuzz() *MuffFuzz {
	return &MuffFuzz{Base: fx.NewBase("Muff Fuzz", muffParamNames, muffDefaults)}
}

func (e *MuffFuzz) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *MuffFuzz) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *MuffFuzz) Reset() {
	e.toneL.Reset()
	e.toneR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func hardClip(x float64) float64 {
	if x > 0.6 {
		return 0.6
	}
	if x < -0.6 {
		return -0.6
	}
	return x
}

func (e *MuffFuzz) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		sustain := 1 + e.Param(0)*99
		toneHz := dsp.HzFromNormalized(e.Param(1), 300, 8000)
		mix := e.Param(2)
		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		stage1L := hardClip(l * sustain * 0.3)
		stage2L := hardClip(stage1L * 4)
		stage1R := hardClip(r * sustain * 0.3)
		stage2R := hardClip(stage1R * 4)

		lowL := e.toneL.Lowpass(stage2L)
		lowR := e.toneR.Lowpass(stage2R)
		wetL := e.dcL.Process(lowL + (stage2L-lowL)*0.5)
		wetR := e.dcR.Process(lowR + (stage2R-lowR)*0.5)
		wetL *= 0.5
		wetR *= 0.5

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}
